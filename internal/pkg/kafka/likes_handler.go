package kafka

import (
	"Agora/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

type LikesHandler struct{}

func NewLikesHandler() *LikesHandler {
	return &LikesHandler{}
}

func (s *LikesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("like consumer setup")
	return nil
}

func (s *LikesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("like consumer cleanup")
	return nil
}

func (s *LikesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-likes consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-likes process batch error", "err", err)
		return err
	}
	return nil
}

func (s *LikesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "likes")
	if err != nil {
		return err
	}

	// 点赞行物理增删，其余事件类型忽略
	switch canalMsg.Type {
	case INSERT:
		return s.apply(ctx, canalMsg, true)
	case DELETE:
		return s.apply(ctx, canalMsg, false)
	default:
		return nil
	}
}

func (s *LikesHandler) apply(ctx context.Context, msg *CanalMessage, increment bool) error {
	row := msg.Data[0]
	targetType := StrToInt8(row["target_type"])
	targetID := StrToUint64(row["target_id"])

	countKeyPrefix := consts.PostLikeKey
	dirtyKey := consts.PostDirtyKey
	if targetType == consts.TargetTypeTopic {
		countKeyPrefix = consts.TopicLikeKey
		dirtyKey = consts.TopicDirtyKey
	}

	ExecAction(ctx, ActionParams{
		TargetID:       targetID,
		CountKeyPrefix: countKeyPrefix,
		DirtyKey:       dirtyKey,
		IsIncrement:    increment,
	})

	log.InfoContext(ctx, "like change processed",
		"targetType", targetType, "targetID", targetID, "increment", increment)
	return nil
}
