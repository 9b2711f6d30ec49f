package config

import (
	"Tombola/models/postgres"
	"Tombola/utils/logger"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(cfg PostgresConfig) (*gorm.DB, error) {
	// NOTE: See https://github.com/go-gorm/gorm/issues/5409
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	gormConfig := &gorm.Config{}
	if cfg.Verbose {
		gormConfig.Logger = gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Info,
				IgnoreRecordNotFoundError: false,
				Colorful:                  true,
			},
		)
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening gorm: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Infof("[POSTGRES] connected to %s:%s/%s", cfg.Host, cfg.Port, cfg.Database)
	return db, nil
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB) error {
	// NOTE: postgres driver v1.4.0, see https://github.com/pilinux/gorest/issues/167#issuecomment-1947114560
	if err := db.AutoMigrate(postgres.GameRecord{}); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	logger.Info("[POSTGRES] database migrated successfully")
	return nil
}
