package database

import (
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Config holds database connection settings.
type Config struct {
	Source   string `yaml:"source"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`

	// Pool settings
	MaxIdleConns    int           `yaml:"max_idle_conns"`    // default 10
	MaxOpenConns    int           `yaml:"max_open_conns"`    // default 100
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"` // default 1h
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"` // default 15m
}

// NewDB opens a Postgres connection with pooling configured.
func NewDB(c *Config, logger log.Logger) (*gorm.DB, error) {
	helper := log.NewHelper(logger)

	dsn := c.Source
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
		)
	}

	// Do not log the password.
	helper.Infof("connecting to database: host=%s:%d database=%s user=%s",
		c.Host, c.Port, c.Database, c.User)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
		// Map driver-specific errors (unique violations in particular) to
		// gorm sentinels so repositories can errors.Is against them.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	maxIdle := c.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 10
	}
	maxOpen := c.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 100
	}
	maxLifetime := c.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = time.Hour
	}
	maxIdleTime := c.ConnMaxIdleTime
	if maxIdleTime == 0 {
		maxIdleTime = 15 * time.Minute
	}

	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	sqlDB.SetConnMaxIdleTime(maxIdleTime)

	helper.Infof("database pool configured: max_idle=%d max_open=%d", maxIdle, maxOpen)
	return db, nil
}
