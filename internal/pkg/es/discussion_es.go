package es

import "time"

// DiscussionES 讨论区统一文档，主题和回帖各占一条
type DiscussionES struct {
	ID         string    `json:"id"` // "topic:<id>" 或 "post:<id>"
	DocType    string    `json:"doc_type"`
	EntityID   uint64    `json:"entity_id"`
	TopicID    uint64    `json:"topic_id"`
	OrgID      uint64    `json:"org_id"`
	CategoryID uint64    `json:"category_id"`
	TopicTitle string    `json:"topic_title"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content"`
	LikesCount int64     `json:"likes_count"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`

	Score     float64       `json:"-"`
	Highlight []string      `json:"-"`
	Sort      []interface{} `json:"-"`
}

// SearchFilter 检索过滤条件
type SearchFilter struct {
	OrgID      uint64
	CategoryID uint64
	StartTime  string
	EndTime    string
	Sort       string // relevance | recency | likes

	// SearchAfter 游标深翻页，仅对确定性排序生效
	SearchAfter []interface{}
}
