package main

import (
	"context"
	"log"

	"cryptovibe/internal/auth"
	"cryptovibe/internal/config"
	"cryptovibe/internal/db"
	"cryptovibe/internal/repository"
	"cryptovibe/internal/service"
)

// Seeds the admin account named by ADMIN_USERNAME, ADMIN_EMAIL and
// ADMIN_PASSWORD. Running it again is a no-op.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()
	if cfg.AdminUsername == "" {
		log.Fatalf("ADMIN_USERNAME is not set")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userService := service.NewUserService(
		repository.NewUserRepository(gormDB),
		repository.NewSessionRepository(gormDB),
		auth.NewPasswordHasher(),
		nil,
	)

	created, err := userService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if created {
		log.Printf("Seed completed successfully! Admin %q created", cfg.AdminUsername)
	} else {
		log.Printf("Admin %q already exists, nothing to do", cfg.AdminUsername)
	}
}
