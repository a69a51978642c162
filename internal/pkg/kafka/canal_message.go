package kafka

// CanalMessage Canal 投递到 Kafka 的行变更载荷，只保留本服务消费的字段
type CanalMessage struct {
	Table string `json:"table"`

	// Type 变更类型：INSERT / UPDATE / DELETE
	Type string `json:"type"`

	// TS binlog 时间戳，回帖文档以它作为外部版本
	TS int64 `json:"ts"`

	// Data 变更后的行数据，DELETE 时为被删除的行
	Data []map[string]interface{} `json:"data"`
}
