package db

import (
	"log"
	"os"
	"time"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL pool. The returned handle is safe for concurrent use.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, apperr.New(apperr.CodeConnection, "database DSN is empty")
	}

	// Surface slow queries in the server log.
	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         lg,
		TranslateError: true,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeConnection, "failed to connect to database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeConnection, "failed to get sql.DB", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("Connected to database")
	return db, nil
}
