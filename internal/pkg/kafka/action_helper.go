package kafka

import (
	"Agora/internal/pkg/redis"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"
)

// Canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// ActionParams 计数变更参数
type ActionParams struct {
	TargetID       uint64
	CountKeyPrefix string
	DirtyKey       string
	IsIncrement    bool
	NotifyFunc     func()
}

// ExecAction 缓存计数增减 + 脏标记，计数键不存在时跳过增减，
// 留给缓存旁路读取回源，脏标记保证对账任务最终修正数据库
func ExecAction(ctx context.Context, p ActionParams) {
	idStr := strconv.FormatUint(p.TargetID, 10)
	countKey := p.CountKeyPrefix + idStr

	if cached, err := redis.GetValue(ctx, countKey); err == nil && cached != "" {
		if p.IsIncrement {
			if err := redis.Incr(ctx, countKey); err != nil {
				log.WarnContext(ctx, "incr count cache failed", "key", countKey, "err", err)
			}
		} else {
			if err := redis.Decr(ctx, countKey); err != nil {
				log.WarnContext(ctx, "decr count cache failed", "key", countKey, "err", err)
			}
		}
	}

	if err := redis.SAdd(ctx, p.DirtyKey, idStr); err != nil {
		log.WarnContext(ctx, "mark dirty failed", "key", p.DirtyKey, "err", err)
	}

	if p.NotifyFunc != nil {
		p.NotifyFunc()
	}
}

// StrToUint64 Canal 行数据字段转 uint64
func StrToUint64(v interface{}) uint64 {
	if v == nil {
		return 0
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// StrToInt64 Canal 行数据字段转 int64
func StrToInt64(v interface{}) int64 {
	if v == nil {
		return 0
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// StrToInt8 Canal 行数据字段转 int8
func StrToInt8(v interface{}) int8 {
	return int8(StrToInt64(v))
}

// StrToString Canal 行数据字段转字符串
func StrToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// StrToBool Canal 行数据布尔字段，tinyint(1) 序列化为 "1"/"0"
func StrToBool(v interface{}) bool {
	s := StrToString(v)
	return s == "1" || s == "true"
}

// StrToDateTime Canal 行数据时间字段
func StrToDateTime(v interface{}) time.Time {
	s := StrToString(v)
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
