package model

import (
	"time"
)

type Topic struct {
	ID            uint64    `gorm:"primaryKey"`
	OrgID         uint64    `gorm:"not null;index:idx_org_category" json:"orgId"`
	CategoryID    uint64    `gorm:"not null;index:idx_org_category" json:"categoryId"`
	UserID        uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Content       string    `gorm:"not null" json:"content"`
	IsPinned      bool      `gorm:"type:tinyint(1);not null;default:0" json:"isPinned"`
	IsLocked      bool      `gorm:"type:tinyint(1);not null;default:0" json:"isLocked"`
	ViewsCount    int64     `gorm:"not null;default:0" json:"viewsCount"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`
	PostsCount    int64     `gorm:"not null;default:0" json:"postsCount"`
	BestAnswerID  uint64    `gorm:"not null;default:0" json:"bestAnswerId"` // 0表示未设置最佳回答
	StructVersion int64     `gorm:"not null;default:1" json:"structVersion"`
	IsDeleted     bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Topic) TableName() string {
	return "topics"
}
