package dto

// TopicCreateDTO 创建主题请求
type TopicCreateDTO struct {
	CategoryID uint64 `json:"category_id" binding:"required"`
	Title      string `json:"title" binding:"required" validate:"min=1,max=255"`
	Content    string `json:"content" binding:"required" validate:"min=1,max=20000"`
}

// TopicUpdateDTO 修改主题请求，nil 字段表示不修改
type TopicUpdateDTO struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1,max=20000"`
}

// TopicListReq 主题列表查询参数
type TopicListReq struct {
	PageReq
	CategoryID  uint64 `form:"category_id"`
	Keyword     string `form:"keyword" validate:"omitempty,max=255"`
	Sort        string `form:"sort,default=recency" validate:"oneof=recency views likes"`
	PinnedFirst bool   `form:"pinned_first,default=true"`
}

// TopicDTO 主题详情
type TopicDTO struct {
	ID           uint64 `json:"id"`
	CategoryID   uint64 `json:"category_id"`
	UserID       uint64 `json:"user_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	IsPinned     bool   `json:"is_pinned"`
	IsLocked     bool   `json:"is_locked"`
	ViewsCount   int64  `json:"views_count"`
	LikesCount   int64  `json:"likes_count"`
	PostsCount   int64  `json:"posts_count"`
	BestAnswerID uint64 `json:"best_answer_id,omitempty"`
	IsDeleted    bool   `json:"is_deleted"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
