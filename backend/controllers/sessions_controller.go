package controllers

import (
	"errors"
	"time"

	"studyhub/backend/config"
	"studyhub/backend/middleware"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSessionsController(db *gorm.DB, cfg *config.Config) *SessionsController {
	return &SessionsController{DB: db, Cfg: cfg}
}

type sessionResponse struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	Subject       string    `json:"subject"`
	Duration      int       `json:"duration"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Completed     bool      `json:"completed"`
}

func toSessionResponse(s models.StudySession) sessionResponse {
	return sessionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		Subject:       s.Subject,
		Duration:      s.Duration,
		ScheduledTime: s.ScheduledTime,
		Completed:     s.Completed,
	}
}

// CreateSession godoc
// @Summary Create a study session
// @Tags sessions
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /study_sessions [post]
func (sc *SessionsController) CreateSession(c *fiber.Ctx) error {
	type CreateInput struct {
		Subject       string     `json:"subject"`
		Duration      int        `json:"duration"`
		ScheduledTime *time.Time `json:"scheduled_time"`
	}

	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Subject == "" {
		return utils.BadRequest(c, "Subject is required")
	}
	if input.Duration <= 0 {
		return utils.BadRequest(c, "Duration must be positive")
	}

	scheduled := time.Now().UTC()
	if input.ScheduledTime != nil {
		scheduled = *input.ScheduledTime
	}

	session := models.StudySession{
		UserID:        middleware.AuthenticatedUserID(c),
		Subject:       input.Subject,
		Duration:      input.Duration,
		ScheduledTime: scheduled,
		StartTime:     scheduled,
	}
	if err := sc.DB.Create(&session).Error; err != nil {
		return utils.InternalServerError(c, "Failed to create study session")
	}

	return utils.Success(c, fiber.StatusCreated, toSessionResponse(session))
}

// GetUserSessions godoc
// @Summary List a user's study sessions
// @Tags sessions
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /study_sessions/{user_id} [get]
func (sc *SessionsController) GetUserSessions(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var sessions []models.StudySession
	if err := sc.DB.Where("user_id = ?", userID).
		Order("scheduled_time").
		Find(&sessions).Error; err != nil {
		return utils.InternalServerError(c, "Failed to retrieve study sessions")
	}

	result := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, toSessionResponse(s))
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// UpdateSession godoc
// @Summary Update a study session
// @Tags sessions
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /study_sessions/{id} [put]
func (sc *SessionsController) UpdateSession(c *fiber.Ctx) error {
	session, err := sc.findSession(c)
	if err != nil {
		return err
	}

	type UpdateInput struct {
		Subject       *string    `json:"subject"`
		Duration      *int       `json:"duration"`
		ScheduledTime *time.Time `json:"scheduled_time"`
	}

	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Subject != nil {
		if *input.Subject == "" {
			return utils.BadRequest(c, "Subject cannot be empty")
		}
		session.Subject = *input.Subject
	}
	if input.Duration != nil {
		if *input.Duration <= 0 {
			return utils.BadRequest(c, "Duration must be positive")
		}
		session.Duration = *input.Duration
	}
	if input.ScheduledTime != nil {
		session.ScheduledTime = *input.ScheduledTime
	}

	if err := sc.DB.Save(session).Error; err != nil {
		return utils.InternalServerError(c, "Failed to update study session")
	}
	return utils.Success(c, fiber.StatusOK, toSessionResponse(*session))
}

// CompleteSession marks a session completed.
func (sc *SessionsController) CompleteSession(c *fiber.Ctx) error {
	return sc.setCompleted(c, true, "Study session completed")
}

// RedoSession returns a completed session to the incomplete state so it can
// be studied again.
func (sc *SessionsController) RedoSession(c *fiber.Ctx) error {
	return sc.setCompleted(c, false, "Study session marked incomplete")
}

// DeleteSession godoc
// @Summary Delete a study session
// @Tags sessions
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /study_sessions/{id} [delete]
func (sc *SessionsController) DeleteSession(c *fiber.Ctx) error {
	session, err := sc.findSession(c)
	if err != nil {
		return err
	}

	if err := sc.DB.Delete(session).Error; err != nil {
		return utils.InternalServerError(c, "Failed to delete study session")
	}
	return utils.Message(c, fiber.StatusOK, "Study session deleted")
}

func (sc *SessionsController) setCompleted(c *fiber.Ctx, completed bool, message string) error {
	session, err := sc.findSession(c)
	if err != nil {
		return err
	}

	if err := sc.DB.Model(session).Update("completed", completed).Error; err != nil {
		return utils.InternalServerError(c, "Failed to update study session")
	}
	return utils.Message(c, fiber.StatusOK, message)
}

func (sc *SessionsController) findSession(c *fiber.Ctx) (*models.StudySession, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid session id")
	}

	var session models.StudySession
	if err := sc.DB.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Study session not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}
	return &session, nil
}
