package models

import (
	"time"

	"gorm.io/gorm"
)

// Achievement is a catalog entry. The catalog is seeded once at startup and
// immutable afterwards.
type Achievement struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	Points      int
	BadgeImage  string
}

// UserAchievement records that a user earned an achievement. The composite
// unique index makes a duplicate grant impossible even when two evaluations
// race past the "already granted" pre-check.
type UserAchievement struct {
	gorm.Model
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement"`
	EarnedAt      time.Time `gorm:"not null"`
}

// UserPoints is the per-user aggregate. Level is always derived from
// TotalPoints, never set directly by callers.
type UserPoints struct {
	gorm.Model
	UserID      uint `gorm:"uniqueIndex;not null"`
	TotalPoints int  `gorm:"default:0"`
	Level       int  `gorm:"default:1"`
}

// PointTransaction is an append-only ledger row. Rows are never updated or
// deleted; the sum of a user's amounts equals their aggregate total.
type PointTransaction struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`
	Amount int  `gorm:"not null"`
	Reason string
}
