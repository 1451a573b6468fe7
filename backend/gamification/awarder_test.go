package gamification

import (
	"testing"
	"time"

	"studyhub/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestAwardGrantsPointsWithReason(t *testing.T) {
	service, db := newTestService(t)

	var achievement models.Achievement
	assert.NoError(t, db.Where("name = ?", "First Steps").First(&achievement).Error)

	granted, err := service.Award(1, achievement.ID)
	assert.NoError(t, err)
	assert.True(t, granted)

	var points models.UserPoints
	assert.NoError(t, db.Where("user_id = ?", 1).First(&points).Error)
	assert.Equal(t, achievement.Points, points.TotalPoints)

	var transaction models.PointTransaction
	assert.NoError(t, db.Where("user_id = ?", 1).First(&transaction).Error)
	assert.Equal(t, "Achievement: First Steps", transaction.Reason)
}

func TestAwardDuplicateIsNoOp(t *testing.T) {
	service, db := newTestService(t)

	var achievement models.Achievement
	assert.NoError(t, db.Where("name = ?", "Focus Master").First(&achievement).Error)

	granted, err := service.Award(1, achievement.ID)
	assert.NoError(t, err)
	assert.True(t, granted)

	granted, err = service.Award(1, achievement.ID)
	assert.NoError(t, err)
	assert.False(t, granted)

	var grants int64
	assert.NoError(t, db.Model(&models.UserAchievement{}).
		Where("user_id = ?", 1).Count(&grants).Error)
	assert.Equal(t, int64(1), grants)

	// Points were credited exactly once.
	var points models.UserPoints
	assert.NoError(t, db.Where("user_id = ?", 1).First(&points).Error)
	assert.Equal(t, achievement.Points, points.TotalPoints)
}

func TestAwardUnknownAchievementIsSilent(t *testing.T) {
	service, db := newTestService(t)

	granted, err := service.Award(1, 9999)
	assert.NoError(t, err)
	assert.False(t, granted)

	var grants int64
	assert.NoError(t, db.Model(&models.UserAchievement{}).Count(&grants).Error)
	assert.Equal(t, int64(0), grants)

	var transactions int64
	assert.NoError(t, db.Model(&models.PointTransaction{}).Count(&transactions).Error)
	assert.Equal(t, int64(0), transactions)
}

func TestAwardSessionPointsByDuration(t *testing.T) {
	service, db := newTestService(t)

	session := models.StudySession{
		UserID:        1,
		Subject:       "Math",
		Duration:      60,
		ScheduledTime: time.Now().UTC(),
		Completed:     true,
	}
	assert.NoError(t, db.Create(&session).Error)

	points, awarded, err := service.AwardSessionPoints(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4, points) // 60 minutes / 15, no consistency bonus

	// The completed session also qualifies First Steps.
	assert.Equal(t, []string{"First Steps"}, awardedNames(awarded))

	var transaction models.PointTransaction
	assert.NoError(t, db.Where("user_id = ? AND reason LIKE ?", 1, "Completed study session%").
		First(&transaction).Error)
	assert.Equal(t, 4, transaction.Amount)
	assert.Equal(t, "Completed study session: Math (60 mins)", transaction.Reason)
}

func TestAwardSessionPointsConsistencyBonus(t *testing.T) {
	service, db := newTestService(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	previous := models.StudySession{
		UserID:        1,
		Subject:       "Math",
		Duration:      30,
		ScheduledTime: yesterday,
		Completed:     true,
	}
	assert.NoError(t, db.Create(&previous).Error)

	session := models.StudySession{
		UserID:        1,
		Subject:       "Math",
		Duration:      30,
		ScheduledTime: time.Now().UTC(),
		Completed:     true,
	}
	assert.NoError(t, db.Create(&session).Error)

	points, _, err := service.AwardSessionPoints(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 7, points) // 30/15 plus the 5 point bonus
}

func TestAwardSessionPointsUnknownSession(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.AwardSessionPoints(12345)
	assert.Error(t, err)
}
