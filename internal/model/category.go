package model

import (
	"time"
)

type Category struct {
	ID        uint64    `gorm:"primaryKey"`
	OrgID     uint64    `gorm:"not null;index:idx_org_id" json:"orgId"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	Type      int8      `gorm:"not null" json:"type"` // 1:综合, 2:问答, 3:公告, 4:反馈
	IsActive  bool      `gorm:"type:tinyint(1);not null;default:1" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}
