package api

import "Agora/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	CategoryHandler   *handler.CategoryHandler
	TopicHandler      *handler.TopicHandler
	PostHandler       *handler.PostHandler
	ThreadHandler     *handler.ThreadHandler
	EngagementHandler *handler.EngagementHandler
	SearchHandler     *handler.SearchHandler
}
