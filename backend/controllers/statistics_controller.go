package controllers

import (
	"time"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatisticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewStatisticsController(db *gorm.DB, cfg *config.Config) *StatisticsController {
	return &StatisticsController{DB: db, Cfg: cfg}
}

// GetStatistics godoc
// @Summary Weekly study statistics for a user
// @Tags statistics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /statistics/{user_id} [get]
func (stc *StatisticsController) GetStatistics(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	now := time.Now().UTC()
	// Week starts on Monday.
	offset := (int(now.Weekday()) + 6) % 7
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var sessions []models.StudySession
	if err := stc.DB.Where(
		"user_id = ? AND scheduled_time >= ? AND scheduled_time < ?",
		userID, weekStart, weekEnd,
	).Find(&sessions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	totalMinutes := 0
	completedSessions := 0
	daysStudied := make(map[string]struct{})
	dailyMinutes := make(map[string]int)
	for _, s := range sessions {
		totalMinutes += s.Duration
		if s.Completed {
			completedSessions++
		}
		daysStudied[s.ScheduledTime.Format("2006-01-02")] = struct{}{}
		dailyMinutes[s.ScheduledTime.Weekday().String()] += s.Duration
	}

	var completedTasks int64
	if err := stc.DB.Model(&models.KanbanTask{}).
		Where("user_id = ? AND status = ?", userID, "done").
		Count(&completedTasks).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"total_study_time_minutes": totalMinutes,
		"completed_sessions":       completedSessions,
		"completed_tasks":          completedTasks,
		"streak_days":              len(daysStudied),
		"daily_minutes":            dailyMinutes,
	})
}
