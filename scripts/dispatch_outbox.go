// Manually drain the email outbox.
//
// Delivery normally happens in the main application's background dispatcher.
// This script is for operational catch-up, for example after a SendGrid
// outage left a large backlog of pending rows.
//
// Usage: go run scripts/dispatch_outbox.go
package main

import (
	"log"

	"hexaboard_backend/internal/config"
	"hexaboard_backend/internal/repository"
	"hexaboard_backend/internal/service"
	"hexaboard_backend/pkg/database"
	"hexaboard_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	outbox := repository.NewOutboxRepository(db)
	mailer := service.NewSendGridMailer(cfg.Mail)
	notifications := service.NewNotificationService(outbox, mailer, cfg.Mail)

	for {
		pending, err := outbox.PendingBatch(50)
		if err != nil {
			log.Fatalf("Failed to load pending emails: %v", err)
		}
		if len(pending) == 0 {
			break
		}
		log.Printf("Dispatching %d pending emails", len(pending))
		notifications.DispatchPending(50)
	}

	log.Println("Outbox drained")
}
