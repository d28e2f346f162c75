// Package db opens the GORM database connection and runs migrations.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	tradeadapters "portfolio_backend/internal/feature/trades/adapters"
)

// Supported values of Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// Config holds the connection settings read from the environment.
type Config struct {
	Driver   string
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string

	// InstanceName selects a Cloud SQL unix socket instead of Host/Port.
	InstanceName string

	// Path is the database file used by the sqlite driver.
	Path string
}

// LoadConfigFromEnv reads DB_* variables, applying local-development defaults.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:       getenv("DB_DRIVER", DriverPostgres),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         getenv("DB_HOST", "localhost"),
		Port:         getenv("DB_PORT", "5432"),
		SSLMode:      getenv("DB_SSLMODE", "disable"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		Path:         getenv("DB_PATH", "portfolio.db"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// BuildDSN renders the driver-specific connection string for cfg.
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return cfg.Path
	}

	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host, port = "/cloudsql/"+cfg.InstanceName, ""
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s", host, cfg.User, cfg.Password, cfg.Name)
	if port != "" {
		dsn += " port=" + port
	}
	if cfg.SSLMode != "" {
		dsn += " sslmode=" + cfg.SSLMode
	}
	return dsn + " TimeZone=UTC"
}

// Opener opens a gorm.DB for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor returns the Opener for driver.
func OpenerFor(driver string) (Opener, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch driver {
	case DriverPostgres, "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			db, err := gorm.Open(sqlite.Open(dsn), gcfg)
			if err != nil {
				return nil, err
			}
			// SQLite serializes writes; one connection avoids lock errors.
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
			return db, nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&tradeadapters.TradeModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OpenDB connects using cfg, waiting up to 60s for the database, and runs
// migrations when runMigrations is set.
func OpenDB(cfg Config, runMigrations bool) (*gorm.DB, error) {
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, opener)
	if err != nil {
		return nil, err
	}
	if runMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
