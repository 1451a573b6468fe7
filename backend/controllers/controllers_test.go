package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyhub/backend/config"
	"studyhub/backend/gamification"
	"studyhub/backend/models"
	"studyhub/backend/routes"
	"studyhub/backend/testutil"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db := testutil.OpenTestDB(t)
	if err := gamification.SeedAchievements(db); err != nil {
		t.Fatalf("seeding achievements: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
	}

	service := gamification.NewService(db, log.New(io.Discard, "", 0))

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, service)
	return app, db, cfg
}

func createTestUser(t *testing.T, db *gorm.DB, cfg *config.Config, username, email string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user := models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Username, cfg)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return user, token
}

func jsonRequest(method, target string, body interface{}, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestRegister(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/auth/register", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "password123",
	}, ""))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestRegisterMissingFields(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/auth/register", map[string]string{
		"username": "newuser",
	}, ""))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicate(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	createTestUser(t, db, cfg, "taken", "taken@example.com")

	resp, err := app.Test(jsonRequest("POST", "/auth/register", map[string]string{
		"username": "taken",
		"email":    "other@example.com",
		"password": "password123",
	}, ""))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, false, body["success"])
}

func TestLogin(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	createTestUser(t, db, cfg, "testuser", "test@example.com")

	resp, err := app.Test(jsonRequest("POST", "/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "password",
	}, ""))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "testuser", body["username"])
}

func TestLoginWrongPassword(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	createTestUser(t, db, cfg, "testuser", "test@example.com")

	resp, err := app.Test(jsonRequest("POST", "/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "wrong",
	}, ""))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionsRequireAuth(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/study_sessions/", map[string]interface{}{
		"subject":  "Math",
		"duration": 30,
	}, ""))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	user, token := createTestUser(t, db, cfg, "student", "student@example.com")

	// Create
	resp, err := app.Test(jsonRequest("POST", "/study_sessions/", map[string]interface{}{
		"subject":  "Math",
		"duration": 45,
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, resp, &created)
	assert.NotZero(t, created.Data.ID)

	// Complete
	resp, err = app.Test(jsonRequest("POST", fmt.Sprintf("/study_sessions/%d/complete", created.Data.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session models.StudySession
	assert.NoError(t, db.First(&session, created.Data.ID).Error)
	assert.True(t, session.Completed)

	// Redo returns it to the incomplete state
	resp, err = app.Test(jsonRequest("POST", fmt.Sprintf("/study_sessions/%d/redo", created.Data.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.NoError(t, db.First(&session, created.Data.ID).Error)
	assert.False(t, session.Completed)

	// List
	resp, err = app.Test(jsonRequest("GET", fmt.Sprintf("/study_sessions/%d", user.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Delete
	resp, err = app.Test(jsonRequest("DELETE", fmt.Sprintf("/study_sessions/%d", created.Data.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateSessionValidation(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, token := createTestUser(t, db, cfg, "student", "student@example.com")

	resp, err := app.Test(jsonRequest("POST", "/study_sessions/", map[string]interface{}{
		"subject":  "Math",
		"duration": 0,
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCheckAchievementsEndpoint(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	user, token := createTestUser(t, db, cfg, "student", "student@example.com")

	session := models.StudySession{
		UserID:        user.ID,
		Subject:       "Math",
		Duration:      30,
		ScheduledTime: time.Now().UTC(),
		Completed:     true,
	}
	assert.NoError(t, db.Create(&session).Error)

	resp, err := app.Test(jsonRequest("POST", fmt.Sprintf("/gamification/check-achievements/%d", user.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Message      string `json:"message"`
		Achievements []struct {
			Name   string `json:"name"`
			Points int    `json:"points"`
		} `json:"achievements"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Achievements, 1)
	assert.Equal(t, "First Steps", body.Achievements[0].Name)
}

func TestGetUserPointsLazyCreate(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	user, token := createTestUser(t, db, cfg, "student", "student@example.com")

	resp, err := app.Test(jsonRequest("GET", fmt.Sprintf("/gamification/user/%d/points", user.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(0), body["total_points"])
	assert.Equal(t, float64(1), body["level"])
	assert.Equal(t, float64(100), body["next_level_points"])
}

func TestLeaderboardOrdering(t *testing.T) {
	app, db, cfg := setupTestApp(t)

	users := []struct {
		name   string
		points int
	}{
		{"bronze", 50},
		{"gold", 500},
		{"silver", 200},
	}
	for _, u := range users {
		user, _ := createTestUser(t, db, cfg, u.name, u.name+"@example.com")
		assert.NoError(t, db.Create(&models.UserPoints{
			UserID:      user.ID,
			TotalPoints: u.points,
			Level:       gamification.LevelForPoints(u.points),
		}).Error)
	}

	// The leaderboard is public.
	resp, err := app.Test(jsonRequest("GET", "/gamification/leaderboard", nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []struct {
		Username    string `json:"username"`
		TotalPoints int    `json:"total_points"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body, 3)
	assert.Equal(t, "gold", body[0].Username)
	assert.Equal(t, "silver", body[1].Username)
	assert.Equal(t, "bronze", body[2].Username)
}

func TestAwardSessionPointsNotFound(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, token := createTestUser(t, db, cfg, "student", "student@example.com")

	resp, err := app.Test(jsonRequest("POST", "/gamification/award-session-points/99999", nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChatMockResponse(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, token := createTestUser(t, db, cfg, "student", "student@example.com")

	resp, err := app.Test(jsonRequest("POST", "/chat", map[string]string{
		"message": "How should I revise?",
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["response"], "Mock Response")
}

func TestKanbanFlow(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	user, token := createTestUser(t, db, cfg, "student", "student@example.com")

	resp, err := app.Test(jsonRequest("POST", "/kanban/", map[string]string{
		"title": "Revise algebra",
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "todo", created.Data.Status)

	resp, err = app.Test(jsonRequest("PUT", fmt.Sprintf("/kanban/%d", created.Data.ID), map[string]string{
		"status": "done",
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("GET", fmt.Sprintf("/kanban/user/%d", user.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("DELETE", fmt.Sprintf("/kanban/%d", created.Data.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGroupLifecycle(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, ownerToken := createTestUser(t, db, cfg, "owner", "owner@example.com")
	_, memberToken := createTestUser(t, db, cfg, "member", "member@example.com")

	resp, err := app.Test(jsonRequest("POST", "/groups/", map[string]string{
		"name":        "Physics club",
		"description": "Weekly mechanics revision",
	}, ownerToken))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			GroupID  uint   `json:"group_id"`
			JoinCode string `json:"join_code"`
		} `json:"data"`
	}
	decodeBody(t, resp, &created)
	assert.Len(t, created.Data.JoinCode, 6)

	// Second user joins by code.
	resp, err = app.Test(jsonRequest("POST", "/groups/join", map[string]string{
		"join_code": created.Data.JoinCode,
	}, memberToken))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A group session fans out to both members.
	resp, err = app.Test(jsonRequest("POST", fmt.Sprintf("/groups/%d/sessions", created.Data.GroupID), map[string]interface{}{
		"subject":        "Mechanics",
		"duration":       60,
		"scheduled_time": time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
	}, ownerToken))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var personal int64
	assert.NoError(t, db.Model(&models.StudySession{}).
		Where("subject = ?", "Mechanics").Count(&personal).Error)
	assert.Equal(t, int64(2), personal)

	// Invalid code is rejected.
	resp, err = app.Test(jsonRequest("POST", "/groups/join", map[string]string{
		"join_code": "NOPE99",
	}, memberToken))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
