package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type CategoryService interface {
	ListCategories(ctx context.Context, orgID uint64) ([]*dto.CategoryDTO, error)
	CreateCategory(ctx context.Context, orgID uint64, req *dto.CategoryCreateDTO) (*dto.CategoryDTO, error)
	SetActive(ctx context.Context, orgID, categoryID uint64, isActive bool) error
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, orgID uint64) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.ListActiveCategories(ctx, orgID)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		list = append(list, convertToCategoryDTO(c))
	}
	return list, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, orgID uint64, req *dto.CategoryCreateDTO) (*dto.CategoryDTO, error) {
	existing, err := s.categoryRepo.GetCategoryByName(ctx, orgID, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExist
	}

	category := &model.Category{
		OrgID:     orgID,
		Name:      req.Name,
		Type:      req.Type,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if isDuplicateError(err) {
			return nil, ErrCategoryExist
		}
		return nil, err
	}
	return convertToCategoryDTO(category), nil
}

func (s *categoryServiceImpl) SetActive(ctx context.Context, orgID, categoryID uint64, isActive bool) error {
	category, err := s.categoryRepo.GetCategory(ctx, categoryID)
	if err != nil || category == nil {
		return ErrCategoryNotFound
	}
	if category.OrgID != orgID {
		return ErrCategoryNotFound
	}
	return s.categoryRepo.SetActive(ctx, categoryID, isActive)
}

func convertToCategoryDTO(category *model.Category) *dto.CategoryDTO {
	item := &dto.CategoryDTO{}
	_ = copier.Copy(item, category)
	item.CreatedAt = category.CreatedAt.Format("2006-01-02 15:04:05")
	return item
}
