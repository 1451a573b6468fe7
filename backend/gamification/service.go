package gamification

import (
	"log"

	"studyhub/backend/models"

	"gorm.io/gorm"
)

// Service owns the points ledger, the achievement evaluator and the awarder.
type Service struct {
	DB  *gorm.DB
	Log *log.Logger
}

func NewService(db *gorm.DB, logger *log.Logger) *Service {
	return &Service{DB: db, Log: logger}
}

var defaultAchievements = []models.Achievement{
	{
		Name:        "First Steps",
		Description: "Complete your first study session",
		Points:      10,
		BadgeImage:  "badges/first_steps.png",
	},
	{
		Name:        "Study Streak",
		Description: "Complete study sessions for 3 days in a row",
		Points:      30,
		BadgeImage:  "badges/streak.png",
	},
	{
		Name:        "Focus Master",
		Description: "Complete 5 study sessions in a single day",
		Points:      50,
		BadgeImage:  "badges/focus.png",
	},
	{
		Name:        "Subject Expert",
		Description: "Complete 10 sessions in a single subject",
		Points:      100,
		BadgeImage:  "badges/expert.png",
	},
	{
		Name:        "Time Wizard",
		Description: "Accumulate 24 hours of total study time",
		Points:      150,
		BadgeImage:  "badges/time.png",
	},
}

// SeedAchievements populates the achievement catalog once if it is empty.
func SeedAchievements(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Achievement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	achievements := make([]models.Achievement, len(defaultAchievements))
	copy(achievements, defaultAchievements)
	return db.Create(&achievements).Error
}
