package dto

// ThreadNodeDTO 话题树中的一个节点
type ThreadNodeDTO struct {
	ID            uint64   `json:"id"`
	UserID        uint64   `json:"user_id"`
	ParentID      uint64   `json:"parent_id"`
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
	LikesCount    int64    `json:"likes_count"`
	IsBestAnswer  bool     `json:"is_best_answer"`
	IsDeleted     bool     `json:"is_deleted"`
	CreatedAt     string   `json:"created_at"`

	Replies []*ThreadNodeDTO `json:"replies"`
}

// ThreadDTO 组装后的完整话题树
type ThreadDTO struct {
	Topic      *TopicDTO        `json:"topic"`
	BestAnswer *ThreadNodeDTO   `json:"best_answer,omitempty"`
	Posts      []*ThreadNodeDTO `json:"posts"`
	Total      int64            `json:"total"`
	Page       int              `json:"page,omitempty"`
	PageSize   int              `json:"page_size,omitempty"`
}
