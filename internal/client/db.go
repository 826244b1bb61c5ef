package client

import (
	"fmt"
	"time"

	"webpay-checkout/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitPostgresClient opens the storage handle injected into repositories and
// services at startup. Callers own its lifecycle and must Close it on
// shutdown.
func InitPostgresClient(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool (important for commit callbacks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}

// ClosePostgresClient releases the underlying connection pool.
func ClosePostgresClient(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
