package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"studio/config"
	"studio/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// DSN builds the connection string for the configured driver.
func DSN(cfg *config.Config) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	switch cfg.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case "sqlite":
		return cfg.DBName
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	}
}

// Dialector picks the GORM driver for a driver name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "postgresql", "":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Open connects and configures pooling, without migrating.
func Open(driver, dsn string) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// ConnectDb establishes the configured connection, migrates and stores it globally
func ConnectDb() {
	cfg := config.AppConfig

	db, err := Open(cfg.DBDriver, DSN(cfg))
	if err != nil {
		log.Fatalf("[DATABASE] Failed to connect to %s: %v", cfg.DBDriver, err)
		os.Exit(2)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("[DATABASE] Migration failed: %v", err)
	}

	Database = DbInstance{Db: db}
}

// Migrate creates or updates the content tables.
func Migrate(db *gorm.DB) error {
	log.Println("[DATABASE] Running Migrations...")

	err := db.AutoMigrate(
		&models.Channel{},
		&models.Chapter{},
		&models.Video{},
		&models.PendingFileDeletion{},
	)
	if err != nil {
		return err
	}

	log.Println("[DATABASE] Migrations completed successfully.")
	return nil
}

// Ping checks that the global connection is alive.
func Ping() error {
	if Database.Db == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := Database.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
