package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/forkful/forkful-backend/internal/models"
)

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "password123"

// NewTestDB opens an in-memory sqlite database with the full schema.
// The pool is pinned to one connection so every query sees the same
// in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.UserRecipeRelation{},
	))
	return db
}

// SeedCatalog inserts a small fixed tag and ingredient catalog and
// returns the rows for use in payloads.
func SeedCatalog(t *testing.T, db *gorm.DB) ([]models.Tag, []models.Ingredient) {
	t.Helper()

	tags := []models.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Lunch", Slug: "lunch"},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&tags).Error)

	ingredients := []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "egg", MeasurementUnit: "pc"},
		{Name: "sugar", MeasurementUnit: "g"},
	}
	require.NoError(t, db.Create(&ingredients).Error)

	return tags, ingredients
}

// CreateUser inserts a user whose password is TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, username string, superuser bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         username,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: string(hash),
		IsSuperuser:  superuser,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
