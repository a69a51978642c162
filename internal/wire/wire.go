package wire

import (
	"Agora/internal/api"
	"Agora/internal/api/config"
	"Agora/internal/api/handler"
	"Agora/internal/job"
	"Agora/internal/pkg/cron"
	"Agora/internal/pkg/es"
	"Agora/internal/pkg/kafka"
	"Agora/internal/repository"
	"Agora/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	categoryRepo := repository.NewCategoryRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	engagementRepo := repository.NewEngagementRepo(db)
	discussionESRepo := es.NewDiscussionRepo(es.Client)

	categoryService := service.NewCategoryService(categoryRepo)
	topicService := service.NewTopicService(topicRepo, categoryRepo)
	postService := service.NewPostService(postRepo, topicRepo)
	threadService := service.NewThreadService(topicRepo, postRepo)
	engagementService := service.NewEngagementService(engagementRepo, topicRepo, postRepo)
	bestAnswerService := service.NewBestAnswerService(topicRepo, postRepo)
	searchService := service.NewSearchService(discussionESRepo)

	handlers := &api.HandlersGroup{
		CategoryHandler:   handler.NewCategoryHandler(categoryService),
		TopicHandler:      handler.NewTopicHandler(topicService, engagementService),
		PostHandler:       handler.NewPostHandler(postService, bestAnswerService),
		ThreadHandler:     handler.NewThreadHandler(threadService),
		EngagementHandler: handler.NewEngagementHandler(engagementService),
		SearchHandler:     handler.NewSearchHandler(searchService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, discussionESRepo, topicRepo)
	if err != nil {
		return nil, err
	}

	engagementSyncJob := job.NewEngagementSyncJob(topicRepo, postRepo, engagementRepo)
	trendingTrimJob := job.NewTrendingTrimJob()
	cronMgr := cron.NewCronManager(engagementSyncJob, trendingTrimJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
