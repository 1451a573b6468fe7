package routes

import (
	"studyhub/backend/config"
	"studyhub/backend/controllers"
	"studyhub/backend/gamification"
	"studyhub/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, service *gamification.Service) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/auth/register", authController.Register)
	app.Post("/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg)

	// Study session routes
	sessionsController := controllers.NewSessionsController(db, cfg)
	sessions := app.Group("/study_sessions", authMiddleware)
	sessions.Post("/", sessionsController.CreateSession)
	sessions.Get("/:user_id", sessionsController.GetUserSessions)
	sessions.Put("/:id", sessionsController.UpdateSession)
	sessions.Post("/:id/complete", sessionsController.CompleteSession)
	sessions.Post("/:id/redo", sessionsController.RedoSession)
	sessions.Delete("/:id", sessionsController.DeleteSession)

	// Kanban routes
	kanbanController := controllers.NewKanbanController(db, cfg)
	kanban := app.Group("/kanban", authMiddleware)
	kanban.Post("/", kanbanController.AddTask)
	kanban.Get("/user/:user_id", kanbanController.GetUserTasks)
	kanban.Put("/:id", kanbanController.UpdateTaskStatus)
	kanban.Delete("/:id", kanbanController.DeleteTask)

	// Study group routes
	groupsController := controllers.NewGroupsController(db, cfg)
	groups := app.Group("/groups", authMiddleware)
	groups.Post("/", groupsController.CreateGroup)
	groups.Post("/join", groupsController.JoinGroup)
	groups.Get("/my", groupsController.MyGroups)
	groups.Get("/:group_id/members", groupsController.GroupMembers)
	groups.Post("/leave", groupsController.LeaveGroup)
	groups.Post("/:group_id/sessions", groupsController.AddGroupSession)
	groups.Get("/:group_id/sessions", groupsController.GetGroupSessions)

	// Statistics routes
	statisticsController := controllers.NewStatisticsController(db, cfg)
	app.Get("/statistics/:user_id", authMiddleware, statisticsController.GetStatistics)

	// Gamification routes; leaderboard is public
	gamificationController := controllers.NewGamificationController(db, cfg, service)
	app.Get("/gamification/leaderboard", gamificationController.GetLeaderboard)
	g := app.Group("/gamification", authMiddleware)
	g.Get("/achievements", gamificationController.GetAllAchievements)
	g.Get("/user/:user_id/achievements", gamificationController.GetUserAchievements)
	g.Get("/user/:user_id/points", gamificationController.GetUserPoints)
	g.Get("/user/:user_id/transactions", gamificationController.GetPointTransactions)
	g.Post("/check-achievements/:user_id", gamificationController.CheckAchievements)
	g.Post("/award-session-points/:session_id", gamificationController.AwardSessionPoints)

	// Onboarding routes
	onboardingController := controllers.NewOnboardingController(db, cfg)
	onboarding := app.Group("/onboarding", authMiddleware)
	onboarding.Post("/profile", onboardingController.CreateProfile)
	onboarding.Get("/profile/:user_id", onboardingController.GetProfile)
	onboarding.Put("/profile/:user_id", onboardingController.UpdateProfile)

	// Chat routes
	chatController := controllers.NewChatController(db, cfg)
	app.Post("/chat", authMiddleware, chatController.Chat)
}
