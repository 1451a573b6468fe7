package gamification

import (
	"errors"

	"studyhub/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddPoints credits amount to the user's aggregate, recomputes the level and
// appends a ledger transaction. Aggregate and transaction are written in one
// database transaction. Returns true when the user leveled up.
func (s *Service) AddPoints(userID uint, amount int, reason string) (bool, error) {
	var levelUp bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		up, err := addPoints(tx, userID, amount, reason)
		if err != nil {
			return err
		}
		levelUp = up
		return nil
	})
	return levelUp, err
}

// addPoints runs the ledger mutation inside an existing transaction so the
// awarder can bundle it with a grant insert.
func addPoints(tx *gorm.DB, userID uint, amount int, reason string) (bool, error) {
	var points models.UserPoints
	err := tx.Where("user_id = ?", userID).First(&points).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		// Lazily create the aggregate. The unique index on user_id plus
		// ON CONFLICT DO NOTHING keeps a concurrent creation benign.
		points = models.UserPoints{UserID: userID, TotalPoints: 0, Level: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&points).Error; err != nil {
			return false, err
		}
		if err := tx.Where("user_id = ?", userID).First(&points).Error; err != nil {
			return false, err
		}
	}

	previousLevel := points.Level

	// Atomic increment so a concurrent ledger write cannot lose an update.
	if err := tx.Model(&models.UserPoints{}).
		Where("user_id = ?", userID).
		Update("total_points", gorm.Expr("total_points + ?", amount)).Error; err != nil {
		return false, err
	}
	if err := tx.Where("user_id = ?", userID).First(&points).Error; err != nil {
		return false, err
	}

	newLevel := LevelForPoints(points.TotalPoints)
	if err := tx.Model(&points).Update("level", newLevel).Error; err != nil {
		return false, err
	}

	transaction := models.PointTransaction{
		UserID: userID,
		Amount: amount,
		Reason: reason,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return false, err
	}

	return newLevel > previousLevel, nil
}

// LevelForPoints derives the level from a point total: one level per 100
// points, never below 1.
func LevelForPoints(totalPoints int) int {
	level := totalPoints/100 + 1
	if level < 1 {
		level = 1
	}
	return level
}
