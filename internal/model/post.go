package model

import (
	"time"
)

type Post struct {
	ID            uint64    `gorm:"primaryKey"`
	TopicID       uint64    `gorm:"not null;index:idx_topic_id" json:"topicId"`
	UserID        uint64    `gorm:"not null" json:"userId"`
	ParentID      uint64    `gorm:"not null;default:0;index:idx_parent_id" json:"parentId"` // 0表示直接回复主题
	Content       string    `gorm:"type:varchar(4000);not null" json:"content"`
	AttachmentIDs []string  `gorm:"type:json;serializer:json" json:"attachmentIds"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`
	IsBestAnswer  bool      `gorm:"type:tinyint(1);not null;default:0" json:"isBestAnswer"`
	IsDeleted     bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}
