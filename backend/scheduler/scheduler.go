package scheduler

import (
	"context"
	"log"
	"time"

	"studyhub/backend/ai"
	"studyhub/backend/config"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Start launches the periodic background jobs: an hourly study reminder and
// the daily rescheduling of missed sessions. The jobs run independently of
// request traffic; the returned cron can be stopped on shutdown.
func Start(db *gorm.DB, cfg *config.Config, logger *log.Logger) *cron.Cron {
	var provider SuggestionProvider
	if cfg.UseAIAPI {
		provider = ai.NewClient(cfg)
	}

	rescheduler := &Rescheduler{
		DB:       db,
		Provider: provider,
		Log:      logger,
		Timeout:  2 * time.Minute,
	}

	c := cron.New()
	c.AddFunc("@hourly", func() {
		logger.Printf("[Reminder] Time to study! - %s", time.Now().Format(time.RFC3339))
	})
	c.AddFunc("@daily", func() {
		rescheduler.Run(context.Background())
	})
	c.Start()

	logger.Println("Background scheduler started")
	return c
}
