package gamification

import (
	"errors"
	"fmt"
	"time"

	"studyhub/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Award grants an achievement to a user and credits its points with an
// "Achievement: <name>" ledger reason. The grant insert uses the composite
// unique index with ON CONFLICT DO NOTHING: a concurrent duplicate becomes a
// no-op and awards no points. A missing achievement id is logged and
// swallowed; it is a catalog consistency repair path, not a normal condition.
// Returns true when the grant was actually created.
func (s *Service) Award(userID uint, achievementID uint) (bool, error) {
	var achievement models.Achievement
	if err := s.DB.First(&achievement, achievementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Printf("award: achievement %d not in catalog, skipping user %d", achievementID, userID)
			return false, nil
		}
		return false, err
	}

	granted := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		grant := models.UserAchievement{
			UserID:        userID,
			AchievementID: achievementID,
			EarnedAt:      time.Now().UTC(),
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).Create(&grant)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already granted; leave points untouched.
			return nil
		}

		if _, err := addPoints(tx, userID, achievement.Points, "Achievement: "+achievement.Name); err != nil {
			return err
		}
		granted = true
		return nil
	})
	return granted, err
}

// AwardSessionPoints credits points for a completed study session: one point
// per 15 minutes, plus a consistency bonus when the user also studied the
// previous day. It then re-evaluates achievements for the session's owner.
func (s *Service) AwardSessionPoints(sessionID uint) (int, []models.Achievement, error) {
	var session models.StudySession
	if err := s.DB.First(&session, sessionID).Error; err != nil {
		return 0, nil, err
	}

	points := session.Duration / 15

	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	var yesterdaySessions int64
	if err := s.DB.Model(&models.StudySession{}).
		Where("user_id = ? AND completed = ? AND scheduled_time >= ? AND scheduled_time < ?",
			session.UserID, true, yesterdayStart, todayStart).
		Count(&yesterdaySessions).Error; err != nil {
		return 0, nil, err
	}
	if yesterdaySessions > 0 {
		points += 5
	}

	reason := fmt.Sprintf("Completed study session: %s (%d mins)", session.Subject, session.Duration)
	if _, err := s.AddPoints(session.UserID, points, reason); err != nil {
		return 0, nil, err
	}

	awarded, err := s.CheckAchievements(session.UserID)
	if err != nil {
		return points, nil, err
	}

	return points, awarded, nil
}
