package job

import (
	"Agora/internal/api/config"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/logger"
	"Agora/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// TrendingTrimJob 清理保留窗口之外的按天热搜榜
type TrendingTrimJob struct{}

func NewTrendingTrimJob() *TrendingTrimJob {
	return &TrendingTrimJob{}
}

func (s *TrendingTrimJob) Run() {
	traceID := "job-trending-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	retention := config.Cfg.Search.TrendingRetentionDays
	if retention <= 0 {
		retention = 7
	}

	now := time.Now()
	removed := 0
	for i := retention; i < retention+30; i++ {
		key := consts.SearchTermKey + now.AddDate(0, 0, -i).Format("20060102")
		if err := redis.DeleteKey(ctx, key); err != nil {
			log.ErrorContext(ctx, "trim trending key error", "key", key, "err", err)
			continue
		}
		removed++
	}

	log.InfoContext(ctx, "trim trending terms success", "retention_days", retention, "keys_checked", removed)
}
