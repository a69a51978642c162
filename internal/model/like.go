package model

import (
	"time"
)

type Like struct {
	ActorID    uint64    `gorm:"primaryKey" json:"actorId"`
	TargetType int8      `gorm:"primaryKey" json:"targetType"` // 1:主题, 2:回帖
	TargetID   uint64    `gorm:"primaryKey;index:idx_like_target" json:"targetId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
