package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc       service.PostService
	bestAnswerSvc service.BestAnswerService
}

func NewPostHandler(postSvc service.PostService, bestAnswerSvc service.BestAnswerService) *PostHandler {
	return &PostHandler{
		postSvc:       postSvc,
		bestAnswerSvc: bestAnswerSvc,
	}
}

// CreatePost 发布回帖
func (s *PostHandler) CreatePost(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")

	var req dto.PostCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 回帖详情
func (s *PostHandler) GetPost(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), orgID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 编辑回帖，作者或管理员
func (s *PostHandler) UpdatePost(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")
	roles := c.GetStringSlice("roles")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PostUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postSvc.UpdatePost(c.Request.Context(), orgID, userID, roles, postID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeletePost 墓碑化回帖，作者或管理员
func (s *PostHandler) DeletePost(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")
	roles := c.GetStringSlice("roles")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), orgID, userID, roles, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListTopLevelPosts 主题下一级回帖分页
func (s *PostHandler) ListTopLevelPosts(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	topicID, err := strconv.ParseUint(c.Param("topic_id"), 10, 64)
	if err != nil || topicID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page, err := s.postSvc.ListTopLevelPosts(c.Request.Context(), orgID, topicID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ListReplies 回帖的直接子回复分页
func (s *PostHandler) ListReplies(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	list, err := s.postSvc.ListReplies(c.Request.Context(), orgID, postID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// MarkBestAnswer 设为最佳回答，主题作者或管理员
func (s *PostHandler) MarkBestAnswer(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")
	roles := c.GetStringSlice("roles")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.bestAnswerSvc.Mark(c.Request.Context(), orgID, userID, roles, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UnmarkBestAnswer 撤销最佳回答
func (s *PostHandler) UnmarkBestAnswer(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")
	roles := c.GetStringSlice("roles")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.bestAnswerSvc.Unmark(c.Request.Context(), orgID, userID, roles, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
