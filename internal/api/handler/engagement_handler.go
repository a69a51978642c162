package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EngagementHandler struct {
	engagementSvc service.EngagementService
}

func NewEngagementHandler(engagementSvc service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementSvc: engagementSvc,
	}
}

// ToggleLike 点赞开关
func (s *EngagementHandler) ToggleLike(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")

	var req dto.LikeToggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.engagementSvc.ToggleLike(c.Request.Context(), orgID, userID, req.TargetType, req.TargetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// viewActorKey 浏览去重主体：登录用户按 uid，匿名访客按会话标识
func viewActorKey(c *gin.Context) string {
	if userID := c.GetUint64("user_id"); userID > 0 {
		return "u:" + strconv.FormatUint(userID, 10)
	}
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return "s:" + sessionID
}

// ReportView 浏览上报，匿名访客用会话标识去重
func (s *EngagementHandler) ReportView(c *gin.Context) {
	orgID := c.GetUint64("org_id")

	var req dto.ViewReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.engagementSvc.RecordView(c.Request.Context(), orgID, viewActorKey(c), req.TargetType, req.TargetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetEngagementState 目标的交互状态
func (s *EngagementHandler) GetEngagementState(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetType := int8(util.StrToUint64(c.Query("target_type")))
	targetID := util.StrToUint64(c.Query("target_id"))
	if targetID == 0 || (targetType != 1 && targetType != 2) {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := s.engagementSvc.GetEngagementState(c.Request.Context(), userID, targetType, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

// GetBatchLikes 批量获取点赞数，登录用户附带本人点赞过的目标
func (s *EngagementHandler) GetBatchLikes(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.BatchLikesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	likes, err := s.engagementSvc.GetBatchLikes(c.Request.Context(), req.TargetType, req.TargetIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	likedIDs, err := s.engagementSvc.GetLikedTargets(c.Request.Context(), userID, req.TargetType, req.TargetIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BatchLikesDTO{Likes: likes, LikedIDs: likedIDs})
}
