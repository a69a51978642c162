package repository

import (
	"Agora/internal/model"
	"context"

	"gorm.io/gorm"
)

type CategoryRepo interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id uint64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, orgID uint64, name string) (*model.Category, error)
	ListActiveCategories(ctx context.Context, orgID uint64) ([]*model.Category, error)
	SetActive(ctx context.Context, id uint64, isActive bool) error
}

type CategoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepo {
	return &CategoryRepoImpl{
		db: db,
	}
}

func (s *CategoryRepoImpl) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *CategoryRepoImpl) GetCategory(ctx context.Context, id uint64) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryRepoImpl) GetCategoryByName(ctx context.Context, orgID uint64, name string) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryRepoImpl) ListActiveCategories(ctx context.Context, orgID uint64) ([]*model.Category, error) {
	var categories []*model.Category
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND is_active = ?", orgID, true).
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (s *CategoryRepoImpl) SetActive(ctx context.Context, id uint64, isActive bool) error {
	return s.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", id).
		Update("is_active", isActive).Error
}
