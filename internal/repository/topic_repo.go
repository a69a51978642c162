package repository

import (
	"Agora/internal/model"
	"context"

	"gorm.io/gorm"
)

// TopicFilter 主题列表查询条件
type TopicFilter struct {
	OrgID       uint64
	CategoryID  uint64
	Keyword     string
	Sort        string // recency | views | likes
	PinnedFirst bool
	Limit       int
	Offset      int
}

type TopicRepo interface {
	CreateTopic(ctx context.Context, topic *model.Topic) error
	GetTopic(ctx context.Context, id uint64) (*model.Topic, error)
	ListTopics(ctx context.Context, filter *TopicFilter) ([]*model.Topic, int64, error)
	UpdateTopic(ctx context.Context, id uint64, updates map[string]interface{}) error
	DeleteTopic(ctx context.Context, id uint64) error
	SetPinned(ctx context.Context, id uint64, pinned bool) error
	SetLocked(ctx context.Context, id uint64, locked bool) error
	SetBestAnswer(ctx context.Context, topicID, postID uint64) error
	ClearBestAnswer(ctx context.Context, topicID, postID uint64) error
	UpdateCounts(ctx context.Context, id uint64, counts map[string]interface{}) error
}

type TopicRepoImpl struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepo {
	return &TopicRepoImpl{
		db: db,
	}
}

func (s *TopicRepoImpl) CreateTopic(ctx context.Context, topic *model.Topic) error {
	return s.db.WithContext(ctx).Create(topic).Error
}

func (s *TopicRepoImpl) GetTopic(ctx context.Context, id uint64) (*model.Topic, error) {
	var topic model.Topic
	err := s.db.WithContext(ctx).First(&topic, id).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (s *TopicRepoImpl) ListTopics(ctx context.Context, filter *TopicFilter) ([]*model.Topic, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Topic{}).
		Where("org_id = ? AND is_deleted = ?", filter.OrgID, false)

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+filter.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PinnedFirst {
		query = query.Order("is_pinned DESC")
	}
	switch filter.Sort {
	case "views":
		query = query.Order("views_count DESC")
	case "likes":
		query = query.Order("likes_count DESC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("id DESC")

	var topics []*model.Topic
	err := query.Limit(filter.Limit).Offset(filter.Offset).Find(&topics).Error
	return topics, total, err
}

// UpdateTopic 更新主题字段并递增结构版本号
func (s *TopicRepoImpl) UpdateTopic(ctx context.Context, id uint64, updates map[string]interface{}) error {
	updates["struct_version"] = gorm.Expr("struct_version + 1")
	return s.db.WithContext(ctx).Model(&model.Topic{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *TopicRepoImpl) DeleteTopic(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Topic{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted":     true,
			"struct_version": gorm.Expr("struct_version + 1"),
		}).Error
}

func (s *TopicRepoImpl) SetPinned(ctx context.Context, id uint64, pinned bool) error {
	return s.db.WithContext(ctx).Model(&model.Topic{}).
		Where("id = ?", id).
		Update("is_pinned", pinned).Error
}

func (s *TopicRepoImpl) SetLocked(ctx context.Context, id uint64, locked bool) error {
	return s.db.WithContext(ctx).Model(&model.Topic{}).
		Where("id = ?", id).
		Update("is_locked", locked).Error
}

// SetBestAnswer 在同一事务中交换最佳回答：先更新主题行拿到行锁，
// 再按主题范围清掉旧标记，并发标记被串行化，任意时刻至多一条回帖带标记
func (s *TopicRepoImpl) SetBestAnswer(ctx context.Context, topicID, postID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Topic{}).
			Where("id = ?", topicID).
			Updates(map[string]interface{}{
				"best_answer_id": postID,
				"struct_version": gorm.Expr("struct_version + 1"),
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Post{}).
			Where("topic_id = ? AND is_best_answer = ? AND id <> ?", topicID, true, postID).
			Update("is_best_answer", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			Update("is_best_answer", true).Error
	})
}

// ClearBestAnswer 撤销最佳回答，主题指针按旧值条件更新，
// 指针已被并发换走时不影响任何行，返回 ErrRecordNotFound 由上层判定
func (s *TopicRepoImpl) ClearBestAnswer(ctx context.Context, topicID, postID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Topic{}).
			Where("id = ? AND best_answer_id = ?", topicID, postID).
			Updates(map[string]interface{}{
				"best_answer_id": 0,
				"struct_version": gorm.Expr("struct_version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			Update("is_best_answer", false).Error
	})
}

// UpdateCounts 对账任务用，直接覆盖计数列
func (s *TopicRepoImpl) UpdateCounts(ctx context.Context, id uint64, counts map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Topic{}).
		Where("id = ?", id).
		Updates(counts).Error
}
