package dto

// SearchReq 全文检索请求
type SearchReq struct {
	PageReq
	Query      string `form:"q" binding:"required" validate:"min=1,max=255"`
	CategoryID uint64 `form:"category_id"`
	Sort       string `form:"sort,default=relevance" validate:"oneof=relevance recency likes"`
	StartTime  string `form:"start_time"`
	EndTime    string `form:"end_time"`
	// Cursor 深翻页游标，带游标时忽略 page
	Cursor string `form:"cursor"`
}

// SearchHitDTO 单条检索命中
type SearchHitDTO struct {
	DocType    string  `json:"doc_type"`
	EntityID   uint64  `json:"entity_id"`
	TopicID    uint64  `json:"topic_id"`
	TopicTitle string  `json:"topic_title"`
	Title      string  `json:"title,omitempty"`
	Excerpt    string  `json:"excerpt"`
	LikesCount int64   `json:"likes_count"`
	Score      float64 `json:"score"`
	CreatedAt  string  `json:"created_at"`
}

// SearchResultDTO 检索结果页
type SearchResultDTO struct {
	Total      int64           `json:"total"`
	Hits       []*SearchHitDTO `json:"hits"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// SuggestDTO 标题补全建议
type SuggestDTO struct {
	Suggestions []string `json:"suggestions"`
}

// TrendingTermDTO 热搜词条
type TrendingTermDTO struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}
