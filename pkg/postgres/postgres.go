package postgres

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maintenanceDatabase is the catalog database every PostgreSQL cluster
// ships with; it is used to check for and create the target database.
const maintenanceDatabase = "postgres"

// Config holds the settings for a PostgreSQL connection.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	LogLevel        string
}

// DB wraps the gorm handle.
type DB struct {
	DB *gorm.DB
}

// NewDB opens a connection pool against the configured database.
func NewDB(cfg Config) (*DB, error) {
	db, err := gorm.Open(pgdriver.Open(cfg.dsn()), cfg.gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse conn_max_lifetime: %w", err)
		}
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	return &DB{DB: db}, nil
}

// EnsureDatabase creates the configured database when it does not exist.
// The check runs against the maintenance catalog because the target may
// not be connectable yet. CREATE DATABASE cannot run inside a
// transaction, so both statements go through a plain session.
func EnsureDatabase(cfg Config) error {
	adminCfg := cfg
	adminCfg.DBName = maintenanceDatabase
	adminCfg.MaxIdleConns = 1
	adminCfg.MaxOpenConns = 1

	admin, err := NewDB(adminCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to maintenance database: %w", err)
	}
	sqlDB, err := admin.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	var one int
	result := admin.DB.Raw("SELECT 1 FROM pg_database WHERE datname = ?", cfg.DBName).Scan(&one)
	if result.Error != nil {
		return fmt.Errorf("failed to check for database %q: %w", cfg.DBName, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	createSQL := fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(cfg.DBName))
	if err := admin.DB.Exec(createSQL).Error; err != nil {
		return fmt.Errorf("failed to create database %q: %w", cfg.DBName, err)
	}
	return nil
}

func (c Config) dsn() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, sslMode)
	if c.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", c.TimeZone)
	}
	return dsn
}

// gormConfig enables TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func (c Config) gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(parseLogLevel(c.LogLevel)),
		TranslateError: true,
	}
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
