package kafka

import (
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/es"
	"Agora/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

type PostsHandler struct {
	topicDBRepo      repository.TopicRepo
	discussionESRepo es.DiscussionRepo
}

func NewPostsHandler(topicDBRepo repository.TopicRepo, discussionESRepo es.DiscussionRepo) *PostsHandler {
	return &PostsHandler{
		topicDBRepo:      topicDBRepo,
		discussionESRepo: discussionESRepo,
	}
}

func (s *PostsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post sync consumer setup")
	return nil
}

func (s *PostsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post sync consumer cleanup")
	return nil
}

func (s *PostsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-posts consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-posts process batch error", "err", err)
		return err
	}
	return nil
}

func (s *PostsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "posts")
	if err != nil {
		return err
	}

	row := canalMsg.Data[0]
	postID := StrToUint64(row["id"])
	docID := consts.DocTypePost + ":" + strconv.FormatUint(postID, 10)

	if canalMsg.Type == DELETE || StrToBool(row["is_deleted"]) {
		return s.discussionESRepo.DeleteDiscussion(ctx, docID)
	}

	topicID := StrToUint64(row["topic_id"])
	topic, err := s.topicDBRepo.GetTopic(ctx, topicID)
	if err != nil {
		return errors.Wrap(err, "load topic for post index")
	}
	if topic.IsDeleted {
		return s.discussionESRepo.DeleteDiscussion(ctx, docID)
	}

	doc := &es.DiscussionES{
		ID:         docID,
		DocType:    consts.DocTypePost,
		EntityID:   postID,
		TopicID:    topicID,
		OrgID:      topic.OrgID,
		CategoryID: topic.CategoryID,
		TopicTitle: topic.Title,
		Content:    StrToString(row["content"]),
		LikesCount: StrToInt64(row["likes_count"]),
		IsDeleted:  false,
		CreatedAt:  StrToDateTime(row["created_at"]),
	}

	// 回帖行没有独立版本列，用 binlog 时间戳保证单调
	return s.discussionESRepo.IndexDiscussion(ctx, doc, canalMsg.TS)
}
