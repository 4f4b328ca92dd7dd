package main

import (
	"context"
	"flag"
	"log"

	"coffee-pos/internal/config"
	"coffee-pos/internal/repository"
	"coffee-pos/internal/service"
	"coffee-pos/pkg/database"
	"coffee-pos/pkg/jwt"
)

func main() {
	email := flag.String("email", service.DefaultCashierEmail, "cashier email")
	password := flag.String("password", service.DefaultCashierPassword, "new password")
	flag.Parse()

	// 1. Load Env
	cfg := config.Load()

	// 2. Setup Database
	db, err := database.ConnectDB(context.Background(), cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer database.Close(db)

	// 3. Reset
	authService := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL))
	if err := authService.SetPassword(*email, *password); err != nil {
		log.Fatalf("❌ Failed to reset password for %s: %v", *email, err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *email)
}
