package repository

import (
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"context"

	"gorm.io/gorm"
)

type EngagementRepo interface {
	InsertLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, actorID uint64, targetType int8, targetID uint64) error
	CheckLikeExists(ctx context.Context, actorID uint64, targetType int8, targetID uint64) (bool, error)
	GetLikedTargetIDs(ctx context.Context, actorID uint64, targetType int8, targetIDs []uint64) ([]uint64, error)
	CountLikesByTarget(ctx context.Context, targetType int8, targetID uint64) (int64, error)

	InsertView(ctx context.Context, view *model.ViewRecord) error
	CountViewsByTarget(ctx context.Context, targetType int8, targetID uint64) (int64, error)
}

type EngagementRepoImpl struct {
	db *gorm.DB
}

func NewEngagementRepo(db *gorm.DB) EngagementRepo {
	return &EngagementRepoImpl{db}
}

// targetColumn 目标表的点赞计数列始终为 likes_count
func targetTable(targetType int8) string {
	if targetType == consts.TargetTypeTopic {
		return "topics"
	}
	return "posts"
}

// InsertLike 写入点赞行并在同一事务中递增目标计数，
// 唯一键冲突原样上抛，由服务层转为取消点赞
func (s *EngagementRepoImpl) InsertLike(ctx context.Context, like *model.Like) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Table(targetTable(like.TargetType)).
			Where("id = ?", like.TargetID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// DeleteLike 删除点赞行并在同一事务中递减目标计数，
// 行已被并发请求删除时返回 ErrRecordNotFound
func (s *EngagementRepoImpl) DeleteLike(ctx context.Context, actorID uint64, targetType int8, targetID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("actor_id = ? AND target_type = ? AND target_id = ?", actorID, targetType, targetID).
			Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Table(targetTable(targetType)).
			Where("id = ? AND likes_count > 0", targetID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
}

func (s *EngagementRepoImpl) CheckLikeExists(ctx context.Context, actorID uint64, targetType int8, targetID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("actor_id = ? AND target_type = ? AND target_id = ?", actorID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// GetLikedTargetIDs 批量过滤出 actor 点赞过的目标
func (s *EngagementRepoImpl) GetLikedTargetIDs(ctx context.Context, actorID uint64, targetType int8, targetIDs []uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("actor_id = ? AND target_type = ? AND target_id IN ?", actorID, targetType, targetIDs).
		Pluck("target_id", &ids).Error
	return ids, err
}

func (s *EngagementRepoImpl) CountLikesByTarget(ctx context.Context, targetType int8, targetID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}

// InsertView 写入浏览记录并在同一事务中递增目标浏览计数
func (s *EngagementRepoImpl) InsertView(ctx context.Context, view *model.ViewRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(view).Error; err != nil {
			return err
		}
		if view.TargetType != consts.TargetTypeTopic {
			return nil
		}
		return tx.Model(&model.Topic{}).
			Where("id = ?", view.TargetID).
			Update("views_count", gorm.Expr("views_count + 1")).Error
	})
}

func (s *EngagementRepoImpl) CountViewsByTarget(ctx context.Context, targetType int8, targetID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ViewRecord{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}
