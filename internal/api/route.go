package api

import (
	"Agora/internal/api/middleware"
	"Agora/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		categoryGroup := apiGroup.Group("/categories")
		{
			authOptGroup := categoryGroup.Group("")
			authOptGroup.Use(middleware.OptionalAuthMiddleware())
			{
				authOptGroup.GET("", group.CategoryHandler.ListCategories)
			}

			adminGroup := categoryGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles("ADMIN"))
			{
				adminGroup.POST("", group.CategoryHandler.CreateCategory)
				adminGroup.PUT("/:category_id/active", group.CategoryHandler.SetActive)
			}
		}

		topicGroup := apiGroup.Group("/topics")
		{
			authOptGroup := topicGroup.Group("")
			authOptGroup.Use(middleware.OptionalAuthMiddleware())
			{
				authOptGroup.GET("", group.TopicHandler.ListTopics)
				authOptGroup.GET("/:topic_id", group.TopicHandler.GetTopic)
				authOptGroup.GET("/:topic_id/thread", group.ThreadHandler.GetThread)
				authOptGroup.GET("/:topic_id/posts", group.PostHandler.ListTopLevelPosts)
			}

			authGroup := topicGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.TopicHandler.CreateTopic)
				authGroup.PUT("/:topic_id", group.TopicHandler.UpdateTopic)
				authGroup.DELETE("/:topic_id", group.TopicHandler.DeleteTopic)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles("ADMIN"))
			{
				adminGroup.PUT("/:topic_id/pin", group.TopicHandler.SetPinned)
				adminGroup.PUT("/:topic_id/lock", group.TopicHandler.SetLocked)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.OptionalAuthMiddleware())
			{
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/:post_id/replies", group.PostHandler.ListReplies)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/best-answer", group.PostHandler.MarkBestAnswer)
				authGroup.DELETE("/:post_id/best-answer", group.PostHandler.UnmarkBestAnswer)
			}
		}

		engagementGroup := apiGroup.Group("/engagement")
		{
			authOptGroup := engagementGroup.Group("")
			authOptGroup.Use(middleware.OptionalAuthMiddleware())
			{
				authOptGroup.POST("/views", group.EngagementHandler.ReportView)
				authOptGroup.GET("/state", group.EngagementHandler.GetEngagementState)
				authOptGroup.POST("/batch/likes", group.EngagementHandler.GetBatchLikes)
			}

			authGroup := engagementGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/likes", group.EngagementHandler.ToggleLike)
			}
		}

		searchGroup := apiGroup.Group("/search")
		{
			authOptGroup := searchGroup.Group("")
			authOptGroup.Use(middleware.OptionalAuthMiddleware())
			{
				authOptGroup.GET("", group.SearchHandler.Search)
				authOptGroup.GET("/suggest", group.SearchHandler.Suggest)
				authOptGroup.GET("/trending", group.SearchHandler.Trending)
			}
		}
	}

	return r
}
