package config

// Config 配置主体
type Config struct {
	Server              ServerConfig       `mapstructure:"server"`
	DB                  DBConfig           `mapstructure:"database"`
	Redis               RedisConfig        `mapstructure:"redis"`
	Elastic             ElasticConfig      `mapstructure:"elastic"`
	Logstash            LogstashConfig     `mapstructure:"logstash"`
	Engagement          EngagementConfig   `mapstructure:"engagement"`
	Search              SearchConfig       `mapstructure:"search"`
	Kafka               KafkaConfig        `mapstructure:"kafka"`
	KafkaTopicConsumer  KafkaTopicConsumer `mapstructure:"kafka_topic_consumer"`
	KafkaPostConsumer   KafkaPostConsumer  `mapstructure:"kafka_post_consumer"`
	KafkaLikeConsumer   KafkaLikeConsumer  `mapstructure:"kafka_like_consumer"`
	KafkaViewConsumer   KafkaViewConsumer  `mapstructure:"kafka_view_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	DiscussionIndex string `mapstructure:"discussion_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// EngagementConfig 互动行为配置
type EngagementConfig struct {
	// ViewWindowMinutes 同一访问者对同一目标的浏览去重窗口
	ViewWindowMinutes int `mapstructure:"view_window_minutes"`
	// AllowWhenLocked 话题锁定后是否仍允许点赞/浏览
	AllowWhenLocked bool `mapstructure:"allow_when_locked"`
}

// SearchConfig 搜索配置
type SearchConfig struct {
	// TrendingRetentionDays 热搜词条按天保留的天数
	TrendingRetentionDays int `mapstructure:"trending_retention_days"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
	// BatchSize 单批拉取的消息上限
	BatchSize int `mapstructure:"batch_size"`
	// BatchTimeoutMs 批量未攒满时的最长等待
	BatchTimeoutMs int `mapstructure:"batch_timeout_ms"`
}

type KafkaTopicConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaPostConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaLikeConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaViewConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
