package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/medidiet/backend/internal/database"
	"github.com/pageza/medidiet/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	version := flag.Bool("version", false, "Print the current schema version")
	flag.Parse()

	_ = godotenv.Load()

	zapLogger, err := logger.New(logger.Config{Level: "info", Format: "console"})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		zapLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	m, err := database.NewMigrator(db, zapLogger)
	if err != nil {
		db.Close()
		zapLogger.Fatal("failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			zapLogger.Fatal("failed to read schema version", zap.Error(err))
		}
		zapLogger.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	case *rollback:
		if err := m.Rollback(); err != nil {
			zapLogger.Fatal("rollback failed", zap.Error(err))
		}
	default:
		if err := m.Up(); err != nil {
			zapLogger.Fatal("migration failed", zap.Error(err))
		}
	}
}
