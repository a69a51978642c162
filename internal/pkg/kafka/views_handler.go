package kafka

import (
	"Agora/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

type ViewsHandler struct{}

func NewViewsHandler() *ViewsHandler {
	return &ViewsHandler{}
}

func (s *ViewsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("view consumer setup")
	return nil
}

func (s *ViewsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("view consumer cleanup")
	return nil
}

func (s *ViewsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-views consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-views process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ViewsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "view_records")
	if err != nil {
		return err
	}

	// 浏览记录只增不删
	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	targetType := StrToInt8(row["target_type"])
	targetID := StrToUint64(row["target_id"])

	countKeyPrefix := consts.PostViewKey
	dirtyKey := consts.PostDirtyKey
	if targetType == consts.TargetTypeTopic {
		countKeyPrefix = consts.TopicViewKey
		dirtyKey = consts.TopicDirtyKey
	}

	ExecAction(ctx, ActionParams{
		TargetID:       targetID,
		CountKeyPrefix: countKeyPrefix,
		DirtyKey:       dirtyKey,
		IsIncrement:    true,
	})

	log.InfoContext(ctx, "view recorded", "targetType", targetType, "targetID", targetID)
	return nil
}
