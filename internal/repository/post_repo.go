package repository

import (
	"Agora/internal/model"
	"context"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	UpdatePostContent(ctx context.Context, id uint64, content string, attachmentIDs []string) error
	DeletePost(ctx context.Context, id, topicID uint64) error
	GetPostsByTopicID(ctx context.Context, topicID uint64) ([]*model.Post, error)
	GetTopLevelPosts(ctx context.Context, topicID uint64, limit, offset int) ([]*model.Post, int64, error)
	GetRepliesByParentID(ctx context.Context, parentID uint64, limit, offset int) ([]*model.Post, error)
	CountLivePosts(ctx context.Context, topicID uint64) (int64, error)
	UpdateLikesCount(ctx context.Context, id uint64, count int64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// CreatePost 新建回帖并同步主题的回帖计数与结构版本
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&model.Topic{}).
			Where("id = ?", post.TopicID).
			Updates(map[string]interface{}{
				"posts_count":    gorm.Expr("posts_count + 1"),
				"struct_version": gorm.Expr("struct_version + 1"),
			}).Error
	})
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) UpdatePostContent(ctx context.Context, id uint64, content string, attachmentIDs []string) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":        content,
			"attachment_ids": attachmentIDs,
		}).Error
}

// DeletePost 墓碑化回帖，子节点保持挂接；回帖计数交由对账任务回收
func (s *PostRepoImpl) DeletePost(ctx context.Context, id, topicID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.Topic{}).
			Where("id = ?", topicID).
			Update("struct_version", gorm.Expr("struct_version + 1")).Error
	})
}

// GetPostsByTopicID 全量拉取主题下的回帖，组装树用，时间升序
func (s *PostRepoImpl) GetPostsByTopicID(ctx context.Context, topicID uint64) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("created_at ASC, id ASC").
		Find(&posts).Error
	return posts, err
}

// GetTopLevelPosts 分页获取主题的一级回帖
func (s *PostRepoImpl) GetTopLevelPosts(ctx context.Context, topicID uint64, limit, offset int) ([]*model.Post, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("topic_id = ? AND parent_id = ?", topicID, 0)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	err := query.
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

// GetRepliesByParentID 获取某条回帖的直接子回帖
func (s *PostRepoImpl) GetRepliesByParentID(ctx context.Context, parentID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s *PostRepoImpl) CountLivePosts(ctx context.Context, topicID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("topic_id = ? AND is_deleted = ?", topicID, false).
		Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) UpdateLikesCount(ctx context.Context, id uint64, count int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("likes_count", count).Error
}
