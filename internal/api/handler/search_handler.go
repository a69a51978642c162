package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchSvc service.SearchService
}

func NewSearchHandler(searchSvc service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchSvc: searchSvc,
	}
}

// Search 全文检索
func (s *SearchHandler) Search(c *gin.Context) {
	orgID := c.GetUint64("org_id")

	var req dto.SearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.searchSvc.Search(c.Request.Context(), orgID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Suggest 标题补全
func (s *SearchHandler) Suggest(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.searchSvc.Suggest(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Trending 热搜词
func (s *SearchHandler) Trending(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window", "7"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	terms, err := s.searchSvc.Trending(c.Request.Context(), windowDays, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, terms)
}
