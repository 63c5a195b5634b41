package main

import (
	"log"
	"time"

	"pulse-chat-be/internal/config"
	"pulse-chat-be/internal/model"
	"pulse-chat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a pair of demo users for local development. Password for both
// accounts is "password123".
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to DB: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	hashStr := string(hash)

	users := []model.User{
		{
			Id:           uuid.New(),
			Email:        "alice@example.com",
			FullName:     "Alice Demo",
			PasswordHash: &hashStr,
			Status:       "active",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		{
			Id:           uuid.New(),
			Email:        "bob@example.com",
			FullName:     "Bob Demo",
			PasswordHash: &hashStr,
			Status:       "active",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			color.Yellow("Skipping %s (already exists)", u.Email)
			continue
		}
		if err := db.Create(&u).Error; err != nil {
			color.Red("Failed to seed %s: %v", u.Email, err)
			continue
		}
		color.Green("Seeded user %s (%s)", u.FullName, u.Email)
	}

	color.Cyan("Seeding done")
}
