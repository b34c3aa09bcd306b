package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectMaxAttempts = 5
	connectRetryDelay  = 5 * time.Second
)

// OpenDatabase connects to MySQL, tunes the pool, and migrates the given
// models. It retries a bounded number of times with a fixed delay so a
// container can come up before its database, then fails definitively. The
// returned handle is the caller's to pass around and close; no package-level
// state is kept.
func OpenDatabase(cfg AppConfig, modelDefs ...interface{}) (*gorm.DB, error) {
	var dsn string
	if cfg.DatabaseURI != "" {
		dsn = cfg.DatabaseURI
	} else {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormCfg := &gorm.Config{
		Logger: gLogger,
		// Surfaces duplicate-key violations as gorm.ErrDuplicatedKey, which
		// the ledger store maps to accepted=false.
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= connectMaxAttempts; attempt++ {
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
		if err == nil {
			break
		}
		if attempt == connectMaxAttempts {
			return nil, fmt.Errorf("connect database after %d attempts: %w", connectMaxAttempts, err)
		}
		log.Printf("database connect attempt %d/%d failed: %v", attempt, connectMaxAttempts, err)
		time.Sleep(connectRetryDelay)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	for _, model := range modelDefs {
		if err := db.AutoMigrate(model); err != nil {
			return nil, fmt.Errorf("auto migration for %T: %w", model, err)
		}
	}

	return db, nil
}

// toGormLogLevel maps the application log level to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
