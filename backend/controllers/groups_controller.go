package controllers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"studyhub/backend/config"
	"studyhub/backend/middleware"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type GroupsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewGroupsController(db *gorm.DB, cfg *config.Config) *GroupsController {
	return &GroupsController{DB: db, Cfg: cfg}
}

func generateJoinCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(joinCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

type groupResponse struct {
	GroupID     uint   `json:"group_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	JoinCode    string `json:"join_code"`
}

// CreateGroup godoc
// @Summary Create a study group
// @Description Creates a group with a random join code and adds the creator as first member
// @Tags groups
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /groups [post]
func (gc *GroupsController) CreateGroup(c *fiber.Ctx) error {
	type CreateInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Missing group name")
	}

	joinCode, err := generateJoinCode(6)
	if err != nil {
		return utils.InternalServerError(c, "Failed to create group")
	}

	group := models.StudyGroup{
		Name:        input.Name,
		Description: input.Description,
		JoinCode:    joinCode,
	}

	userID := middleware.AuthenticatedUserID(c)
	err = gc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		membership := models.GroupMembership{
			GroupID:  group.ID,
			UserID:   userID,
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Failed to create group")
	}

	return utils.Success(c, fiber.StatusCreated, groupResponse{
		GroupID:     group.ID,
		Name:        group.Name,
		Description: group.Description,
		JoinCode:    group.JoinCode,
	})
}

// JoinGroup adds the authenticated user to a group by join code. Joining a
// group twice is reported as already joined, not an error.
func (gc *GroupsController) JoinGroup(c *fiber.Ctx) error {
	type JoinInput struct {
		JoinCode string `json:"join_code"`
	}

	var input JoinInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var group models.StudyGroup
	if err := gc.DB.Where("join_code = ?", input.JoinCode).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Invalid join code")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	userID := middleware.AuthenticatedUserID(c)

	var existing int64
	gc.DB.Model(&models.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", group.ID, userID).
		Count(&existing)
	if existing > 0 {
		return utils.Message(c, fiber.StatusOK, "Already joined")
	}

	membership := models.GroupMembership{
		GroupID:  group.ID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	if err := gc.DB.Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Message(c, fiber.StatusOK, "Already joined")
		}
		return utils.InternalServerError(c, "Failed to join group")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":  "Successfully joined",
		"group_id": group.ID,
	})
}

// MyGroups lists all groups the authenticated user belongs to.
func (gc *GroupsController) MyGroups(c *fiber.Ctx) error {
	userID := middleware.AuthenticatedUserID(c)

	var memberships []models.GroupMembership
	if err := gc.DB.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	groups := make([]groupResponse, 0, len(memberships))
	for _, m := range memberships {
		var group models.StudyGroup
		if err := gc.DB.First(&group, m.GroupID).Error; err != nil {
			continue
		}
		groups = append(groups, groupResponse{
			GroupID:     group.ID,
			Name:        group.Name,
			Description: group.Description,
			JoinCode:    group.JoinCode,
		})
	}
	return utils.Success(c, fiber.StatusOK, groups)
}

// GroupMembers lists the members of a group.
func (gc *GroupsController) GroupMembers(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("group_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	var memberships []models.GroupMembership
	if err := gc.DB.Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	type memberResponse struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	members := make([]memberResponse, 0, len(memberships))
	for _, m := range memberships {
		var user models.User
		if err := gc.DB.First(&user, m.UserID).Error; err != nil {
			continue
		}
		members = append(members, memberResponse{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}
	return utils.Success(c, fiber.StatusOK, members)
}

// LeaveGroup removes the authenticated user's membership.
func (gc *GroupsController) LeaveGroup(c *fiber.Ctx) error {
	type LeaveInput struct {
		GroupID uint `json:"group_id"`
	}

	var input LeaveInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	userID := middleware.AuthenticatedUserID(c)

	var membership models.GroupMembership
	if err := gc.DB.Where("user_id = ? AND group_id = ?", userID, input.GroupID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Membership not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := gc.DB.Delete(&membership).Error; err != nil {
		return utils.InternalServerError(c, "Failed to leave group")
	}
	return utils.Message(c, fiber.StatusOK, "Successfully left the group")
}

// AddGroupSession godoc
// @Summary Schedule a group study session
// @Description Creates a group session and fans out a personal session to every member
// @Tags groups
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /groups/{group_id}/sessions [post]
func (gc *GroupsController) AddGroupSession(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("group_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	type SessionInput struct {
		Subject       string    `json:"subject"`
		ScheduledTime time.Time `json:"scheduled_time"`
		Duration      int       `json:"duration"`
	}

	var input SessionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Subject == "" || input.Duration <= 0 {
		return utils.BadRequest(c, "Missing subject or duration")
	}

	var group models.StudyGroup
	if err := gc.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Group not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = gc.DB.Transaction(func(tx *gorm.DB) error {
		session := models.GroupStudySession{
			GroupID:       group.ID,
			Subject:       input.Subject,
			ScheduledTime: input.ScheduledTime,
			Duration:      input.Duration,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		var memberships []models.GroupMembership
		if err := tx.Where("group_id = ?", group.ID).Find(&memberships).Error; err != nil {
			return err
		}
		for _, member := range memberships {
			personal := models.StudySession{
				UserID:        member.UserID,
				Subject:       input.Subject,
				Duration:      input.Duration,
				ScheduledTime: input.ScheduledTime,
				StartTime:     input.ScheduledTime,
			}
			if err := tx.Create(&personal).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Failed to create group session")
	}

	return utils.Message(c, fiber.StatusCreated, "Group session added and synced to all members")
}

// GetGroupSessions lists the scheduled sessions of a group.
func (gc *GroupsController) GetGroupSessions(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("group_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid group id")
	}

	var sessions []models.GroupStudySession
	if err := gc.DB.Where("group_id = ?", groupID).Find(&sessions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	type groupSessionResponse struct {
		ID            uint      `json:"id"`
		Subject       string    `json:"subject"`
		ScheduledTime time.Time `json:"scheduled_time"`
		Duration      int       `json:"duration"`
	}

	result := make([]groupSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, groupSessionResponse{
			ID:            s.ID,
			Subject:       s.Subject,
			ScheduledTime: s.ScheduledTime,
			Duration:      s.Duration,
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}
