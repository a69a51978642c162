package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	topicSvc      service.TopicService
	engagementSvc service.EngagementService
}

func NewTopicHandler(topicSvc service.TopicService, engagementSvc service.EngagementService) *TopicHandler {
	return &TopicHandler{
		topicSvc:      topicSvc,
		engagementSvc: engagementSvc,
	}
}

// CreateTopic 发布主题
func (s *TopicHandler) CreateTopic(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")

	var req dto.TopicCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	topic, err := s.topicSvc.CreateTopic(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, topic)
}

// GetTopic 主题详情
func (s *TopicHandler) GetTopic(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	topicID, err := strconv.ParseUint(c.Param("topic_id"), 10, 64)
	if err != nil || topicID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	topic, err := s.topicSvc.GetTopic(c.Request.Context(), orgID, topicID)
	if err != nil {
		response.Error(c, err)
		return
	}

	actorKey := viewActorKey(c)
	go func() {
		_, _ = s.engagementSvc.RecordView(c.Request.Context(), orgID, actorKey, consts.TargetTypeTopic, topicID)
	}()

	response.Success(c, topic)
}

// ListTopics 主题列表
func (s *TopicHandler) ListTopics(c *gin.Context) {
	orgID := c.GetUint64("org_id")

	var req dto.TopicListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page, err := s.topicSvc.ListTopics(c.Request.Context(), orgID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// UpdateTopic 编辑主题，作者或管理员
func (s *TopicHandler) UpdateTopic(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")
	roles := c.GetStringSlice("roles")
	topicID, err := strconv.ParseUint(c.Param("topic_id"), 10, 64)
	if err != nil || topicID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.TopicUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.topicSvc.UpdateTopic(c.Request.Context(), orgID, userID, roles, topicID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteTopic 删除主题，作者或管理员
func (s *TopicHandler) DeleteTopic(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	userID := c.GetUint64("user_id")
	roles := c.GetStringSlice("roles")
	topicID, err := strconv.ParseUint(c.Param("topic_id"), 10, 64)
	if err != nil || topicID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.topicSvc.DeleteTopic(c.Request.Context(), orgID, userID, roles, topicID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetPinned 置顶/取消置顶，管理员专用
func (s *TopicHandler) SetPinned(c *gin.Context) {
	s.adminToggle(c, s.topicSvc.SetPinned)
}

// SetLocked 锁定/解锁，管理员专用
func (s *TopicHandler) SetLocked(c *gin.Context) {
	s.adminToggle(c, s.topicSvc.SetLocked)
}

func (s *TopicHandler) adminToggle(c *gin.Context, apply func(ctx context.Context, orgID, topicID uint64, on bool) error) {
	orgID := c.GetUint64("org_id")
	topicID, err := strconv.ParseUint(c.Param("topic_id"), 10, 64)
	if err != nil || topicID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := apply(c.Request.Context(), orgID, topicID, *req.Enabled); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
