package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/medidiet/backend/config"
	"github.com/pageza/medidiet/backend/internal/database"
	"github.com/pageza/medidiet/backend/internal/models"
	"github.com/pageza/medidiet/backend/internal/testhelpers"
)

func TestNewSQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:       "sqlite",
		Name:         filepath.Join(t.TempDir(), "medidiet.db"),
		MaxOpenConns: 1,
	}

	db, err := database.New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, database.Prepare(db, nil))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.HealthProfile{}))
	assert.True(t, db.Migrator().HasTable(&models.MedicinalDiet{}))

	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := database.New(config.DatabaseConfig{Driver: "mysql"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestAutoMigrateRejectsPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	assert.Error(t, database.AutoMigrate(db))
}

func TestMigrator(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := database.NewMigrator(sqlDB, zaptest.NewLogger(t))
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Up(), "re-applying is a no-op")

	require.NoError(t, m.Rollback())
	assert.False(t, db.Migrator().HasTable("medicinal_diet"))

	require.NoError(t, m.Up())
	assert.True(t, db.Migrator().HasTable("medicinal_diet"))
	assert.True(t, db.Migrator().HasTable("t_user"))
}
