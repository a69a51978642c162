package handler

import (
	"Agora/internal/pkg/response"
	"Agora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ThreadHandler struct {
	threadSvc service.ThreadService
}

func NewThreadHandler(threadSvc service.ThreadService) *ThreadHandler {
	return &ThreadHandler{
		threadSvc: threadSvc,
	}
}

// GetThread 获取话题树，带 page 参数走一级回帖分页模式
func (s *ThreadHandler) GetThread(c *gin.Context) {
	orgID := c.GetUint64("org_id")
	topicID, err := strconv.ParseUint(c.Param("topic_id"), 10, 64)
	if err != nil || topicID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	pageStr := c.Query("page")
	if pageStr == "" {
		thread, err := s.threadSvc.GetThread(c.Request.Context(), orgID, topicID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, thread)
		return
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	thread, err := s.threadSvc.GetThreadPage(c.Request.Context(), orgID, topicID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, thread)
}
