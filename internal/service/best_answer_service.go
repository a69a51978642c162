package service

import (
	"Agora/internal/model"
	"Agora/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type BestAnswerService interface {
	Mark(ctx context.Context, orgID, actorID uint64, roles []string, postID uint64) error
	Unmark(ctx context.Context, orgID, actorID uint64, roles []string, postID uint64) error
}

type bestAnswerServiceImpl struct {
	topicRepo repository.TopicRepo
	postRepo  repository.PostRepo
}

func NewBestAnswerService(topicRepo repository.TopicRepo, postRepo repository.PostRepo) BestAnswerService {
	return &bestAnswerServiceImpl{
		topicRepo: topicRepo,
		postRepo:  postRepo,
	}
}

// Mark 设置最佳回答，旧标记的清除在仓储层事务内按主题范围进行，
// 任意时刻主题下至多一条回帖带有标记
func (s *bestAnswerServiceImpl) Mark(ctx context.Context, orgID, actorID uint64, roles []string, postID uint64) error {
	post, topic, err := s.resolve(ctx, orgID, postID)
	if err != nil {
		return err
	}
	if topic.UserID != actorID && !isAdmin(roles) {
		return UnauthorizedError
	}
	if post.IsDeleted {
		return ErrBestAnswerDeleted
	}
	if topic.BestAnswerID == postID {
		return nil
	}
	return s.topicRepo.SetBestAnswer(ctx, topic.ID, postID)
}

// Unmark 撤销最佳回答，仅当前最佳回答可撤销
func (s *bestAnswerServiceImpl) Unmark(ctx context.Context, orgID, actorID uint64, roles []string, postID uint64) error {
	_, topic, err := s.resolve(ctx, orgID, postID)
	if err != nil {
		return err
	}
	if topic.UserID != actorID && !isAdmin(roles) {
		return UnauthorizedError
	}
	if topic.BestAnswerID != postID {
		return ErrNotBestAnswer
	}
	if err := s.topicRepo.ClearBestAnswer(ctx, topic.ID, postID); err != nil {
		// 指针在校验后被并发换走
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotBestAnswer
		}
		return err
	}
	return nil
}

func (s *bestAnswerServiceImpl) resolve(ctx context.Context, orgID, postID uint64) (*model.Post, *model.Topic, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil || post == nil {
		return nil, nil, ErrPostNotFound
	}
	topic, err := s.topicRepo.GetTopic(ctx, post.TopicID)
	if err != nil || topic == nil || topic.OrgID != orgID {
		return nil, nil, ErrPostNotFound
	}
	if topic.IsDeleted {
		return nil, nil, ErrTopicDeleted
	}
	return post, topic, nil
}
