package controllers

import (
	"errors"

	"studyhub/backend/config"
	"studyhub/backend/middleware"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validTaskStatuses = map[string]bool{
	"todo":        true,
	"in_progress": true,
	"done":        true,
}

type KanbanController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewKanbanController(db *gorm.DB, cfg *config.Config) *KanbanController {
	return &KanbanController{DB: db, Cfg: cfg}
}

type taskResponse struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// AddTask godoc
// @Summary Create a kanban task
// @Tags kanban
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /kanban [post]
func (kc *KanbanController) AddTask(c *fiber.Ctx) error {
	type TaskInput struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}

	var input TaskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if input.Status == "" {
		input.Status = "todo"
	}
	if !validTaskStatuses[input.Status] {
		return utils.BadRequest(c, "Invalid task status")
	}

	task := models.KanbanTask{
		UserID: middleware.AuthenticatedUserID(c),
		Title:  input.Title,
		Status: input.Status,
	}
	if err := kc.DB.Create(&task).Error; err != nil {
		return utils.InternalServerError(c, "Failed to create task")
	}

	return utils.Success(c, fiber.StatusCreated, taskResponse{
		ID: task.ID, UserID: task.UserID, Title: task.Title, Status: task.Status,
	})
}

// GetUserTasks godoc
// @Summary List a user's kanban tasks
// @Tags kanban
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /kanban/user/{user_id} [get]
func (kc *KanbanController) GetUserTasks(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var tasks []models.KanbanTask
	if err := kc.DB.Where("user_id = ?", userID).Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Failed to retrieve tasks")
	}

	result := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, taskResponse{
			ID: t.ID, UserID: t.UserID, Title: t.Title, Status: t.Status,
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// UpdateTaskStatus moves a task between kanban columns.
func (kc *KanbanController) UpdateTaskStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest(c, "Invalid task id")
	}

	type StatusInput struct {
		Status string `json:"status"`
	}
	var input StatusInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if !validTaskStatuses[input.Status] {
		return utils.BadRequest(c, "Invalid task status")
	}

	var task models.KanbanTask
	if err := kc.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := kc.DB.Model(&task).Update("status", input.Status).Error; err != nil {
		return utils.InternalServerError(c, "Failed to update task")
	}
	return utils.Success(c, fiber.StatusOK, taskResponse{
		ID: task.ID, UserID: task.UserID, Title: task.Title, Status: input.Status,
	})
}

// DeleteTask godoc
// @Summary Delete a kanban task
// @Tags kanban
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /kanban/{id} [delete]
func (kc *KanbanController) DeleteTask(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.BadRequest(c, "Invalid task id")
	}

	var task models.KanbanTask
	if err := kc.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := kc.DB.Delete(&task).Error; err != nil {
		return utils.InternalServerError(c, "Failed to delete task")
	}
	return utils.Message(c, fiber.StatusOK, "Deleted")
}
