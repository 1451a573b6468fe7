package gamification

import (
	"io"
	"log"
	"testing"

	"studyhub/backend/models"
	"studyhub/backend/testutil"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	if err := SeedAchievements(db); err != nil {
		t.Fatalf("seeding achievements: %v", err)
	}
	return NewService(db, log.New(io.Discard, "", 0)), db
}

func TestAddPointsCreatesAggregate(t *testing.T) {
	service, db := newTestService(t)

	levelUp, err := service.AddPoints(1, 10, "test")
	assert.NoError(t, err)
	assert.False(t, levelUp)

	var points models.UserPoints
	assert.NoError(t, db.Where("user_id = ?", 1).First(&points).Error)
	assert.Equal(t, 10, points.TotalPoints)
	assert.Equal(t, 1, points.Level)
}

func TestAddPointsLevelUp(t *testing.T) {
	service, db := newTestService(t)

	levelUp, err := service.AddPoints(1, 90, "almost there")
	assert.NoError(t, err)
	assert.False(t, levelUp)

	levelUp, err = service.AddPoints(1, 10, "ding")
	assert.NoError(t, err)
	assert.True(t, levelUp)

	var points models.UserPoints
	assert.NoError(t, db.Where("user_id = ?", 1).First(&points).Error)
	assert.Equal(t, 100, points.TotalPoints)
	assert.Equal(t, 2, points.Level)
}

func TestAddPointsTransactionsSumToTotal(t *testing.T) {
	service, db := newTestService(t)

	amounts := []int{10, 25, 5, 100, 3}
	for _, amount := range amounts {
		_, err := service.AddPoints(7, amount, "test")
		assert.NoError(t, err)
	}

	var points models.UserPoints
	assert.NoError(t, db.Where("user_id = ?", 7).First(&points).Error)

	var sum int
	assert.NoError(t, db.Model(&models.PointTransaction{}).
		Where("user_id = ?", 7).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error)

	assert.Equal(t, points.TotalPoints, sum)
	assert.Equal(t, LevelForPoints(points.TotalPoints), points.Level)
}

func TestAddPointsRecordsReason(t *testing.T) {
	service, db := newTestService(t)

	_, err := service.AddPoints(2, 30, "Achievement: Study Streak")
	assert.NoError(t, err)

	var transaction models.PointTransaction
	assert.NoError(t, db.Where("user_id = ?", 2).First(&transaction).Error)
	assert.Equal(t, 30, transaction.Amount)
	assert.Equal(t, "Achievement: Study Streak", transaction.Reason)
}

func TestLevelForPoints(t *testing.T) {
	assert.Equal(t, 1, LevelForPoints(0))
	assert.Equal(t, 1, LevelForPoints(99))
	assert.Equal(t, 2, LevelForPoints(100))
	assert.Equal(t, 2, LevelForPoints(199))
	assert.Equal(t, 4, LevelForPoints(350))
	assert.Equal(t, 1, LevelForPoints(-50))
}
