package repository

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"github.com/forkful/forkful-backend/config"
)

const (
	maxIdleTime = 5 * time.Minute
	maxLifetime = time.Hour
)

// Repository wraps the gorm connection. All multi-row recipe writes go
// through Transaction so a failure between sub-steps rolls back wholesale.
type Repository struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func Open(conf *config.Config, logger *zap.Logger) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		conf.DB.Host, conf.DB.User, conf.DB.Password, conf.DB.Database, conf.DB.Port, conf.DB.SSLMode)

	gormLogger := zapgorm2.New(logger)
	gormLogger.SetAsDefault()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// Unique-constraint failures must surface as gorm.ErrDuplicatedKey
		// so the relation engine can turn them into domain conflicts.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(conf.DB.MaxIdleConnections)
	sqlDB.SetMaxOpenConns(conf.DB.MaxOpenConnections)
	sqlDB.SetConnMaxIdleTime(maxIdleTime)
	sqlDB.SetConnMaxLifetime(maxLifetime)

	return &Repository{DB: db, Logger: logger}, nil
}

// New wraps an already-open connection; used by tests and the seed command.
func New(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{DB: db, Logger: logger}
}

func (r *Repository) Close() {
	sqlDB, err := r.DB.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}
