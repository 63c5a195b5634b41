package main

import (
	"log"

	"pulse-chat-be/internal/config"
	"pulse-chat-be/internal/model"
	"pulse-chat-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to DB: %v", err)
	}

	log.Println("Running migrations...")
	err = db.AutoMigrate(
		&model.User{},
		&model.ChatMessage{},
		&model.EngagementReport{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ Migrations complete")
}
