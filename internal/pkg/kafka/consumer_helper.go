package kafka

import (
	"Agora/internal/api/config"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	defaultBatchSize    = 32
	defaultBatchTimeout = time.Second
	maxRetryInterval    = 5 * time.Second
)

// batchSettings 批量拉取参数，未配置时退回默认值
func batchSettings() (int, time.Duration) {
	size := defaultBatchSize
	timeout := defaultBatchTimeout
	if config.Cfg != nil {
		if c := config.Cfg.Kafka.Consumer; c.BatchSize > 0 {
			size = c.BatchSize
		}
		if c := config.Cfg.Kafka.Consumer; c.BatchTimeoutMs > 0 {
			timeout = time.Duration(c.BatchTimeoutMs) * time.Millisecond
		}
	}
	return size, timeout
}

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 攒一批消息再交给业务逻辑，批量大小和等待时间由配置决定
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	size, timeout := batchSettings()

	batch := make([]*sarama.ConsumerMessage, 0, size)
	ticker := time.NewTicker(timeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= size {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, size)
				ticker.Reset(timeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, size)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，单条失败按指数退避重试，
// 整批完成后只提交最后一条的位点
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			retryInterval := 100 * time.Millisecond

			for {
				err := logic(session.Context(), m)
				if err == nil {
					break
				}
				select {
				case <-session.Context().Done():
					return
				default:
				}

				log.Error("process message error", "topic", m.Topic, "offset", m.Offset, "err", err)
				time.Sleep(retryInterval)

				retryInterval *= 2
				if retryInterval > maxRetryInterval {
					retryInterval = maxRetryInterval
				}
			}
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
	}
}

// ToCanalMessage 解析 Canal 投递的行变更，表名不符或载荷为空时丢弃
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		return nil, errors.Wrap(err, "unmarshal canal message")
	}

	if canalMsg.Table != tableName {
		return nil, errors.Errorf("unexpected table %q, want %q", canalMsg.Table, tableName)
	}

	if len(canalMsg.Data) == 0 {
		return nil, errors.New("canal message carries no rows")
	}

	return &canalMsg, nil
}
