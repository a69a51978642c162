package dto

// PostCreateDTO 创建回帖请求，ParentID 为 0 表示直接回复主题
type PostCreateDTO struct {
	TopicID       uint64   `json:"topic_id" binding:"required"`
	ParentID      uint64   `json:"parent_id"`
	Content       string   `json:"content" binding:"required" validate:"min=1,max=4000"`
	AttachmentIDs []string `json:"attachment_ids" validate:"max=9"`
}

// PostUpdateDTO 修改回帖请求
type PostUpdateDTO struct {
	Content string `json:"content" binding:"required" validate:"min=1,max=4000"`
}

// PostDTO 回帖详情
type PostDTO struct {
	ID            uint64   `json:"id"`
	TopicID       uint64   `json:"topic_id"`
	UserID        uint64   `json:"user_id"`
	ParentID      uint64   `json:"parent_id"`
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
	LikesCount    int64    `json:"likes_count"`
	IsBestAnswer  bool     `json:"is_best_answer"`
	IsDeleted     bool     `json:"is_deleted"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}
