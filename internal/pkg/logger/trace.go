package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey 链路标识在上下文与日志里的统一键名
const TraceIDKey = "trace_id"

// ContextHandler 把请求上下文里的链路标识附加到每条日志上
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}
