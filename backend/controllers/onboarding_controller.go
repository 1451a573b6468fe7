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

type OnboardingController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewOnboardingController(db *gorm.DB, cfg *config.Config) *OnboardingController {
	return &OnboardingController{DB: db, Cfg: cfg}
}

type profileInput struct {
	StudyStyle         *string                `json:"study_style"`
	PreferredStudyTime *string                `json:"preferred_study_time"`
	GradeLevel         *string                `json:"grade_level"`
	Goals              *string                `json:"goals"`
	Subjects           []string               `json:"subjects"`
	QuizResponses      map[string]interface{} `json:"quiz_responses"`
}

// CreateProfile godoc
// @Summary Create the onboarding profile for the authenticated user
// @Tags onboarding
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /onboarding/profile [post]
func (oc *OnboardingController) CreateProfile(c *fiber.Ctx) error {
	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	userID := middleware.AuthenticatedUserID(c)

	var existing int64
	oc.DB.Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&existing)
	if existing > 0 {
		return utils.Conflict(c, "Profile already exists for this user")
	}

	profile := models.UserProfile{UserID: userID}
	applyProfileInput(&profile, input)

	if err := oc.DB.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Conflict(c, "Profile already exists for this user")
		}
		return utils.InternalServerError(c, "An error occurred while creating profile")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message":    "Profile created successfully",
		"profile_id": profile.ID,
	})
}

// GetProfile godoc
// @Summary Get a user's onboarding profile
// @Tags onboarding
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /onboarding/profile/{user_id} [get]
func (oc *OnboardingController) GetProfile(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var profile models.UserProfile
	if err := oc.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Profile not found")
		}
		return utils.InternalServerError(c, "An error occurred while retrieving profile")
	}

	return c.JSON(fiber.Map{
		"id":                   profile.ID,
		"user_id":              profile.UserID,
		"study_style":          profile.StudyStyle,
		"preferred_study_time": profile.PreferredStudyTime,
		"grade_level":          profile.GradeLevel,
		"subjects":             profile.GetSubjects(),
		"goals":                profile.Goals,
		"quiz_responses":       profile.GetQuizResponses(),
		"created_at":           profile.CreatedAt,
		"updated_at":           profile.UpdatedAt,
	})
}

// UpdateProfile godoc
// @Summary Update a user's onboarding profile
// @Tags onboarding
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /onboarding/profile/{user_id} [put]
func (oc *OnboardingController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var profile models.UserProfile
	if err := oc.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Profile not found")
		}
		return utils.InternalServerError(c, "An error occurred while updating profile")
	}

	applyProfileInput(&profile, input)
	if err := oc.DB.Save(&profile).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while updating profile")
	}

	return utils.Message(c, fiber.StatusOK, "Profile updated successfully")
}

func applyProfileInput(profile *models.UserProfile, input profileInput) {
	if input.StudyStyle != nil {
		profile.StudyStyle = *input.StudyStyle
	}
	if input.PreferredStudyTime != nil {
		profile.PreferredStudyTime = *input.PreferredStudyTime
	}
	if input.GradeLevel != nil {
		profile.GradeLevel = *input.GradeLevel
	}
	if input.Goals != nil {
		profile.Goals = *input.Goals
	}
	if input.Subjects != nil {
		profile.SetSubjects(input.Subjects)
	}
	if input.QuizResponses != nil {
		profile.SetQuizResponses(input.QuizResponses)
	}
}
