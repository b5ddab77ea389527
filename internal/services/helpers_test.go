package services_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-tracker/backend/internal/database"
	"todo-tracker/backend/internal/models"
	"todo-tracker/backend/internal/services"
)

// newTestDB returns a migrated in-memory SQLite database private to the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:   database.DriverSQLite,
		DSN:      "file:" + uuid.Must(uuid.NewV4()).String() + "?mode=memory&cache=shared",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	require.NoError(t, pool.Migrate(context.Background()))
	return pool.DB
}

// fastHasher keeps bcrypt cheap in tests.
func fastHasher() *services.PasswordHasher {
	return services.NewPasswordHasher(4)
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	hashed, err := fastHasher().Hash("password123")
	require.NoError(t, err)
	user := models.User{Email: email, Password: hashed, Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
