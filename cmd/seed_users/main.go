package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/medidiet/backend/config"
	"github.com/pageza/medidiet/backend/internal/database"
	"github.com/pageza/medidiet/backend/internal/logger"
	"github.com/pageza/medidiet/backend/internal/models"
	"github.com/pageza/medidiet/backend/internal/repository"
	"github.com/pageza/medidiet/backend/internal/service"
)

func main() {
	driver := flag.String("driver", "postgres", "Database driver (postgres or sqlite)")
	dsn := flag.String("dsn", "", "Database DSN, defaults to DATABASE_URL")
	flag.Parse()

	_ = godotenv.Load()

	zapLogger, err := logger.New(logger.Config{Level: "info", Format: "console"})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		zapLogger.Fatal("no DSN given and DATABASE_URL is not set")
	}

	db, err := database.New(config.DatabaseConfig{Driver: *driver, DSN: *dsn}, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Prepare(db, zapLogger); err != nil {
		zapLogger.Fatal("failed to prepare schema", zap.Error(err))
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "testpassword123"
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		zapLogger.Fatal("failed to hash password", zap.Error(err))
	}

	testUsers := []struct {
		nickname string
		status   int
	}{
		{"zhangsan", models.UserStatusActive},
		{"lisi", models.UserStatusActive},
		{"demo", models.UserStatusActive},
		{"disabled_user", models.UserStatusDisabled},
	}

	repo := repository.NewUserRepository(db)
	ctx := context.Background()
	for _, u := range testUsers {
		created, err := repo.Create(ctx, &models.User{
			Nickname: u.nickname,
			Password: hash,
			Status:   u.status,
		})
		if err != nil {
			zapLogger.Fatal("failed to create user", zap.String("nickname", u.nickname), zap.Error(err))
		}
		if !created {
			zapLogger.Info("user already exists", zap.String("nickname", u.nickname))
			continue
		}
		zapLogger.Info("created user", zap.String("nickname", u.nickname), zap.Int("status", u.status))
	}

	zapLogger.Info("seeding complete", zap.Int("users", len(testUsers)))
}
