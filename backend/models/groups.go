package models

import (
	"time"

	"gorm.io/gorm"
)

type StudyGroup struct {
	gorm.Model
	Name        string `gorm:"size:120;not null"`
	Description string `gorm:"type:text"`
	JoinCode    string `gorm:"size:10;uniqueIndex;not null"`
}

type GroupMembership struct {
	gorm.Model
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_member"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_group_member"`
	JoinedAt time.Time `gorm:"not null"`
}

type GroupStudySession struct {
	gorm.Model
	GroupID       uint   `gorm:"index;not null"`
	Subject       string `gorm:"size:100;not null"`
	ScheduledTime time.Time
	Duration      int `gorm:"not null"` // minutes
}
