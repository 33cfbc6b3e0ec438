package dbhelper

import (
	"combinaapi/config"
	"combinaapi/models"
	"combinaapi/services"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres, tunes the pool and migrates the user table.
func Open(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)

	Migrate(db, &models.UserAccount{})

	return db
}

// SetupTestDB opens the local test database described by the TEST_DB_*
// variables. Callers should skip when TestDBAvailable reports false.
func SetupTestDB() *gorm.DB {
	cfg := config.Config{
		DBUsername: services.GetEnv("TEST_DB_USERNAME", "combina"),
		DBPassword: services.GetEnv("TEST_DB_PASSWORD", "combina"),
		DBHost:     services.GetEnv("TEST_DB_HOST", "localhost"),
		DBPort:     services.GetEnv("TEST_DB_PORT", "5432"),
		DBName:     services.GetEnv("TEST_DB_NAME", "combina_test"),
	}
	return Open(cfg.PostgresDSN())
}

func TestDBAvailable() bool {
	return os.Getenv("TEST_DB_HOST") != ""
}
