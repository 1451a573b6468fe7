package controllers

import (
	"errors"
	"fmt"

	"studyhub/backend/config"
	"studyhub/backend/gamification"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GamificationController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Service *gamification.Service
}

func NewGamificationController(db *gorm.DB, cfg *config.Config, service *gamification.Service) *GamificationController {
	return &GamificationController{DB: db, Cfg: cfg, Service: service}
}

type achievementResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	BadgeImage  string `json:"badge_image"`
}

func toAchievementResponse(a models.Achievement) achievementResponse {
	return achievementResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Points:      a.Points,
		BadgeImage:  a.BadgeImage,
	}
}

// GetAllAchievements godoc
// @Summary List the achievement catalog
// @Tags gamification
// @Produce json
// @Success 200 {array} achievementResponse
// @Security ApiKeyAuth
// @Router /gamification/achievements [get]
func (gc *GamificationController) GetAllAchievements(c *fiber.Ctx) error {
	var achievements []models.Achievement
	if err := gc.DB.Find(&achievements).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while retrieving achievements")
	}

	result := make([]achievementResponse, 0, len(achievements))
	for _, a := range achievements {
		result = append(result, toAchievementResponse(a))
	}
	return c.JSON(result)
}

// GetUserAchievements godoc
// @Summary List the achievements a user has earned
// @Tags gamification
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /gamification/user/{user_id}/achievements [get]
func (gc *GamificationController) GetUserAchievements(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var grants []models.UserAchievement
	if err := gc.DB.Where("user_id = ?", userID).Find(&grants).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while retrieving user achievements")
	}

	result := make([]fiber.Map, 0, len(grants))
	for _, grant := range grants {
		var achievement models.Achievement
		if err := gc.DB.First(&achievement, grant.AchievementID).Error; err != nil {
			continue
		}
		result = append(result, fiber.Map{
			"id":          achievement.ID,
			"name":        achievement.Name,
			"description": achievement.Description,
			"points":      achievement.Points,
			"badge_image": achievement.BadgeImage,
			"earned_at":   grant.EarnedAt,
		})
	}
	return c.JSON(result)
}

// GetUserPoints godoc
// @Summary Get a user's points, level and level progress
// @Tags gamification
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /gamification/user/{user_id}/points [get]
func (gc *GamificationController) GetUserPoints(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var points models.UserPoints
	if err := gc.DB.Where("user_id = ?", userID).First(&points).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "An error occurred while retrieving user points")
		}
		points = models.UserPoints{UserID: uint(userID), TotalPoints: 0, Level: 1}
		if err := gc.DB.Create(&points).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.InternalServerError(c, "An error occurred while retrieving user points")
		}
	}

	return c.JSON(fiber.Map{
		"user_id":           points.UserID,
		"total_points":      points.TotalPoints,
		"level":             points.Level,
		"next_level_points": points.Level * 100,
		"progress":          points.TotalPoints % 100,
	})
}

// GetPointTransactions godoc
// @Summary List a user's most recent point transactions
// @Tags gamification
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /gamification/user/{user_id}/transactions [get]
func (gc *GamificationController) GetPointTransactions(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var transactions []models.PointTransaction
	if err := gc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(20).
		Find(&transactions).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while retrieving point transactions")
	}

	result := make([]fiber.Map, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, fiber.Map{
			"id":         tx.ID,
			"amount":     tx.Amount,
			"reason":     tx.Reason,
			"created_at": tx.CreatedAt,
		})
	}
	return c.JSON(result)
}

// CheckAchievements godoc
// @Summary Evaluate and award newly qualified achievements for a user
// @Tags gamification
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /gamification/check-achievements/{user_id} [post]
func (gc *GamificationController) CheckAchievements(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	awarded, err := gc.Service.CheckAchievements(uint(userID))
	if err != nil {
		return utils.InternalServerError(c, "An error occurred while checking achievements")
	}

	result := make([]achievementResponse, 0, len(awarded))
	for _, a := range awarded {
		result = append(result, toAchievementResponse(a))
	}

	return c.JSON(fiber.Map{
		"message":      fmt.Sprintf("Checked achievements - %d new awarded", len(result)),
		"achievements": result,
	})
}

// AwardSessionPoints godoc
// @Summary Award points for a completed study session
// @Tags gamification
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gamification/award-session-points/{session_id} [post]
func (gc *GamificationController) AwardSessionPoints(c *fiber.Ctx) error {
	sessionID, err := c.ParamsInt("session_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid session id")
	}

	points, awarded, err := gc.Service.AwardSessionPoints(uint(sessionID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Session not found")
		}
		return utils.InternalServerError(c, "An error occurred while awarding points")
	}

	result := make([]achievementResponse, 0, len(awarded))
	for _, a := range awarded {
		result = append(result, toAchievementResponse(a))
	}

	return c.JSON(fiber.Map{
		"points_awarded":   points,
		"new_achievements": result,
	})
}

// GetLeaderboard godoc
// @Summary Top 10 users by total points
// @Tags gamification
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Router /gamification/leaderboard [get]
func (gc *GamificationController) GetLeaderboard(c *fiber.Ctx) error {
	type leaderboardRow struct {
		UserID      uint
		Username    string
		TotalPoints int
		Level       int
	}

	var rows []leaderboardRow
	if err := gc.DB.Model(&models.UserPoints{}).
		Select("user_points.user_id, users.username, user_points.total_points, user_points.level").
		Joins("JOIN users ON users.id = user_points.user_id").
		Order("user_points.total_points DESC").
		Limit(10).
		Scan(&rows).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while retrieving leaderboard")
	}

	result := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		result = append(result, fiber.Map{
			"user_id":      row.UserID,
			"username":     row.Username,
			"total_points": row.TotalPoints,
			"level":        row.Level,
		})
	}
	return c.JSON(result)
}
