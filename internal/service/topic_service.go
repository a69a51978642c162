package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/repository"
	"context"
	"slices"
	"time"

	"github.com/jinzhu/copier"
)

type TopicService interface {
	CreateTopic(ctx context.Context, orgID, userID uint64, req *dto.TopicCreateDTO) (*dto.TopicDTO, error)
	GetTopic(ctx context.Context, orgID, topicID uint64) (*dto.TopicDTO, error)
	ListTopics(ctx context.Context, orgID uint64, req *dto.TopicListReq) (*dto.PageDTO, error)
	UpdateTopic(ctx context.Context, orgID, userID uint64, roles []string, topicID uint64, req *dto.TopicUpdateDTO) error
	DeleteTopic(ctx context.Context, orgID, userID uint64, roles []string, topicID uint64) error
	SetPinned(ctx context.Context, orgID, topicID uint64, pinned bool) error
	SetLocked(ctx context.Context, orgID, topicID uint64, locked bool) error
}

type topicServiceImpl struct {
	topicRepo    repository.TopicRepo
	categoryRepo repository.CategoryRepo
}

func NewTopicService(topicRepo repository.TopicRepo, categoryRepo repository.CategoryRepo) TopicService {
	return &topicServiceImpl{
		topicRepo:    topicRepo,
		categoryRepo: categoryRepo,
	}
}

func isAdmin(roles []string) bool {
	return slices.Contains(roles, consts.RoleAdmin)
}

func (s *topicServiceImpl) CreateTopic(ctx context.Context, orgID, userID uint64, req *dto.TopicCreateDTO) (*dto.TopicDTO, error) {
	category, err := s.categoryRepo.GetCategory(ctx, req.CategoryID)
	if err != nil || category == nil || category.OrgID != orgID {
		return nil, ErrCategoryNotFound
	}
	if !category.IsActive {
		return nil, ErrCategoryInactive
	}

	topic := &model.Topic{
		OrgID:         orgID,
		CategoryID:    req.CategoryID,
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		StructVersion: 1,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.topicRepo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return convertToTopicDTO(topic), nil
}

func (s *topicServiceImpl) GetTopic(ctx context.Context, orgID, topicID uint64) (*dto.TopicDTO, error) {
	topic, err := s.getLiveTopic(ctx, orgID, topicID)
	if err != nil {
		return nil, err
	}
	return convertToTopicDTO(topic), nil
}

func (s *topicServiceImpl) ListTopics(ctx context.Context, orgID uint64, req *dto.TopicListReq) (*dto.PageDTO, error) {
	topics, total, err := s.topicRepo.ListTopics(ctx, &repository.TopicFilter{
		OrgID:       orgID,
		CategoryID:  req.CategoryID,
		Keyword:     req.Keyword,
		Sort:        req.Sort,
		PinnedFirst: req.PinnedFirst,
		Limit:       req.PageSize,
		Offset:      req.Offset(),
	})
	if err != nil {
		return nil, err
	}

	list := make([]*dto.TopicDTO, 0, len(topics))
	for _, t := range topics {
		list = append(list, convertToTopicDTO(t))
	}
	return &dto.PageDTO{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     list,
	}, nil
}

func (s *topicServiceImpl) UpdateTopic(ctx context.Context, orgID, userID uint64, roles []string, topicID uint64, req *dto.TopicUpdateDTO) error {
	topic, err := s.getLiveTopic(ctx, orgID, topicID)
	if err != nil {
		return err
	}
	if topic.UserID != userID && !isAdmin(roles) {
		return UnauthorizedError
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if len(updates) == 0 {
		return ErrParamInvalid
	}
	return s.topicRepo.UpdateTopic(ctx, topicID, updates)
}

func (s *topicServiceImpl) DeleteTopic(ctx context.Context, orgID, userID uint64, roles []string, topicID uint64) error {
	topic, err := s.getLiveTopic(ctx, orgID, topicID)
	if err != nil {
		return err
	}
	if topic.UserID != userID && !isAdmin(roles) {
		return UnauthorizedError
	}
	return s.topicRepo.DeleteTopic(ctx, topicID)
}

func (s *topicServiceImpl) SetPinned(ctx context.Context, orgID, topicID uint64, pinned bool) error {
	if _, err := s.getLiveTopic(ctx, orgID, topicID); err != nil {
		return err
	}
	return s.topicRepo.SetPinned(ctx, topicID, pinned)
}

func (s *topicServiceImpl) SetLocked(ctx context.Context, orgID, topicID uint64, locked bool) error {
	if _, err := s.getLiveTopic(ctx, orgID, topicID); err != nil {
		return err
	}
	return s.topicRepo.SetLocked(ctx, topicID, locked)
}

// getLiveTopic 取主题并校验归属与删除状态
func (s *topicServiceImpl) getLiveTopic(ctx context.Context, orgID, topicID uint64) (*model.Topic, error) {
	topic, err := s.topicRepo.GetTopic(ctx, topicID)
	if err != nil || topic == nil {
		return nil, ErrTopicNotFound
	}
	if topic.OrgID != orgID {
		return nil, ErrTopicNotFound
	}
	if topic.IsDeleted {
		return nil, ErrTopicDeleted
	}
	return topic, nil
}

func convertToTopicDTO(topic *model.Topic) *dto.TopicDTO {
	item := &dto.TopicDTO{}
	_ = copier.Copy(item, topic)
	item.CreatedAt = topic.CreatedAt.Format("2006-01-02 15:04:05")
	item.UpdatedAt = topic.UpdatedAt.Format("2006-01-02 15:04:05")
	return item
}
