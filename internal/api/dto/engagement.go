package dto

// LikeToggleReq 点赞/取消点赞请求
type LikeToggleReq struct {
	TargetType int8   `json:"target_type" binding:"required" validate:"oneof=1 2"` // 1:主题, 2:回帖
	TargetID   uint64 `json:"target_id" binding:"required"`
}

// LikeToggleDTO 点赞切换结果
type LikeToggleDTO struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// ViewReportReq 浏览上报请求
type ViewReportReq struct {
	TargetType int8   `json:"target_type" binding:"required" validate:"oneof=1 2"`
	TargetID   uint64 `json:"target_id" binding:"required"`
}

// ViewReportDTO 浏览上报结果
type ViewReportDTO struct {
	Counted    bool  `json:"counted"`
	ViewsCount int64 `json:"views_count"`
}

// EngagementStateDTO 目标交互状态
type EngagementStateDTO struct {
	LikesCount int64 `json:"likes_count"`
	ViewsCount int64 `json:"views_count"`
	PostsCount int64 `json:"posts_count,omitempty"`
	IsLiked    bool  `json:"is_liked"`
}

// BatchLikesReq 批量获取点赞数请求
type BatchLikesReq struct {
	TargetType int8     `json:"target_type" binding:"required" validate:"oneof=1 2"`
	TargetIDs  []uint64 `json:"target_ids" binding:"required,min=1,max=100"`
}

// BatchLikesDTO 批量获取点赞数响应，LikedIDs 仅登录用户返回
type BatchLikesDTO struct {
	Likes    map[uint64]int64 `json:"likes"`
	LikedIDs []uint64         `json:"liked_ids,omitempty"`
}
