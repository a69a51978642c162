package model

import (
	"time"
)

type ViewRecord struct {
	ID         uint64    `gorm:"primaryKey"`
	ActorKey   string    `gorm:"type:varchar(64);not null" json:"actorKey"` // "u:<id>" 或 "s:<uuid>"
	TargetType int8      `gorm:"not null;index:idx_view_target" json:"targetType"`
	TargetID   uint64    `gorm:"not null;index:idx_view_target" json:"targetId"`
	ViewedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"viewedAt"`
}

func (ViewRecord) TableName() string {
	return "view_records"
}
