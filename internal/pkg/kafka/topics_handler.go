package kafka

import (
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/es"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

type TopicsHandler struct {
	discussionESRepo es.DiscussionRepo
}

func NewTopicsHandler(discussionESRepo es.DiscussionRepo) *TopicsHandler {
	return &TopicsHandler{
		discussionESRepo: discussionESRepo,
	}
}

func (s *TopicsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("topic sync consumer setup")
	return nil
}

func (s *TopicsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("topic sync consumer cleanup")
	return nil
}

func (s *TopicsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-topics consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-topics process batch error", "err", err)
		return err
	}
	return nil
}

func (s *TopicsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "topics")
	if err != nil {
		return err
	}

	row := canalMsg.Data[0]
	topicID := StrToUint64(row["id"])
	docID := consts.DocTypeTopic + ":" + strconv.FormatUint(topicID, 10)

	if canalMsg.Type == DELETE || StrToBool(row["is_deleted"]) {
		return s.discussionESRepo.DeleteDiscussion(ctx, docID)
	}

	doc := &es.DiscussionES{
		ID:         docID,
		DocType:    consts.DocTypeTopic,
		EntityID:   topicID,
		TopicID:    topicID,
		OrgID:      StrToUint64(row["org_id"]),
		CategoryID: StrToUint64(row["category_id"]),
		TopicTitle: StrToString(row["title"]),
		Title:      StrToString(row["title"]),
		Content:    StrToString(row["content"]),
		LikesCount: StrToInt64(row["likes_count"]),
		IsDeleted:  false,
		CreatedAt:  StrToDateTime(row["created_at"]),
	}

	// 结构版本作为外部版本号，乱序到达的旧事件被 ES 丢弃
	return s.discussionESRepo.IndexDiscussion(ctx, doc, StrToInt64(row["struct_version"]))
}
