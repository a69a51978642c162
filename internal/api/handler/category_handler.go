package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

// ListCategories 获取启用中的板块列表
func (s *CategoryHandler) ListCategories(c *gin.Context) {
	orgID := c.GetUint64("org_id")

	list, err := s.categorySvc.ListCategories(c.Request.Context(), orgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// CreateCategory 新建板块，管理员专用
func (s *CategoryHandler) CreateCategory(c *gin.Context) {
	orgID := c.GetUint64("org_id")

	var req dto.CategoryCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	category, err := s.categorySvc.CreateCategory(c.Request.Context(), orgID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

// SetActive 启用/停用板块，管理员专用
func (s *CategoryHandler) SetActive(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.CategorySetActiveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.categorySvc.SetActive(c.Request.Context(), orgID, categoryID, *req.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
