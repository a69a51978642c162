package kafka

import (
	"Agora/internal/api/config"
	"Agora/internal/pkg/es"
	"Agora/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	topicsConsumer sarama.ConsumerGroup
	topicsHandler  sarama.ConsumerGroupHandler

	postsConsumer sarama.ConsumerGroup
	postsHandler  sarama.ConsumerGroupHandler

	likesConsumer sarama.ConsumerGroup
	likesHandler  sarama.ConsumerGroupHandler

	viewsConsumer sarama.ConsumerGroup
	viewsHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	discussionESRepo es.DiscussionRepo,
	topicDBRepo repository.TopicRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	topicsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaTopicConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	topicsHandler := NewTopicsHandler(discussionESRepo)

	postsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaPostConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	postsHandler := NewPostsHandler(topicDBRepo, discussionESRepo)

	likesConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaLikeConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	likesHandler := NewLikesHandler()

	viewsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaViewConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	viewsHandler := NewViewsHandler()

	return &ConsumerManager{
		topicsConsumer: topicsConsumer,
		topicsHandler:  topicsHandler,
		postsConsumer:  postsConsumer,
		postsHandler:   postsHandler,
		likesConsumer:  likesConsumer,
		likesHandler:   likesHandler,
		viewsConsumer:  viewsConsumer,
		viewsHandler:   viewsHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Topic Consumer
	go func() {
		topic := cfg.KafkaTopicConsumer.Topic
		log.Info("Topic consumer started", "topic", topic)
		for {
			if err := m.topicsConsumer.Consume(ctx, []string{topic}, m.topicsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Post Consumer
	go func() {
		topic := cfg.KafkaPostConsumer.Topic
		log.Info("Post consumer started", "topic", topic)
		for {
			if err := m.postsConsumer.Consume(ctx, []string{topic}, m.postsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Like Consumer
	go func() {
		topic := cfg.KafkaLikeConsumer.Topic
		log.Info("Like consumer started", "topic", topic)
		for {
			if err := m.likesConsumer.Consume(ctx, []string{topic}, m.likesHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 View Consumer
	go func() {
		topic := cfg.KafkaViewConsumer.Topic
		log.Info("View consumer started", "topic", topic)
		for {
			if err := m.viewsConsumer.Consume(ctx, []string{topic}, m.viewsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.topicsConsumer.Close(); err != nil {
		log.Error("Failed to close topics consumer", "err", err)
	}
	if err := m.postsConsumer.Close(); err != nil {
		log.Error("Failed to close posts consumer", "err", err)
	}
	if err := m.likesConsumer.Close(); err != nil {
		log.Error("Failed to close likes consumer", "err", err)
	}
	if err := m.viewsConsumer.Close(); err != nil {
		log.Error("Failed to close views consumer", "err", err)
	}

	return nil
}
