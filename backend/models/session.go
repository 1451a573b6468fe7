package models

import (
	"time"

	"gorm.io/gorm"
)

// StudySession is a single planned block of study time for one user.
// A session stays incomplete until the user marks it done; the background
// rescheduler only ever touches incomplete sessions whose time has passed.
type StudySession struct {
	gorm.Model
	UserID        uint      `gorm:"index;not null"`
	Subject       string    `gorm:"size:100;not null"`
	Duration      int       `gorm:"not null"` // minutes
	ScheduledTime time.Time `gorm:"not null"`
	StartTime     time.Time
	Completed     bool `gorm:"default:false"`
}

type KanbanTask struct {
	gorm.Model
	UserID uint   `gorm:"index;not null"`
	Title  string `gorm:"size:200;not null"`
	Status string `gorm:"size:20;default:todo"` // todo, in_progress, done
}
