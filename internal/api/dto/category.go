package dto

// CategoryCreateDTO 创建板块请求
type CategoryCreateDTO struct {
	Name string `json:"name" binding:"required" validate:"min=1,max=64"`
	Type int8   `json:"type" binding:"required" validate:"oneof=1 2 3 4"`
}

// CategorySetActiveDTO 启用/停用板块请求
type CategorySetActiveDTO struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// CategoryDTO 板块详情
type CategoryDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Type      int8   `json:"type"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}
