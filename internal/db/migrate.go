package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/diewo77/jewelry-billing/internal/config"
	"github.com/diewo77/jewelry-billing/internal/models"
	"gorm.io/gorm"
)

// Migrate creates billing_records when it does not exist yet.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.BillingRecord{}); err != nil {
		return fmt.Errorf("automigrate billing_records: %w", err)
	}
	return nil
}

// HasBillingTable reports whether billing_records exists.
func HasBillingTable(conn *gorm.DB) bool {
	return conn.Migrator().HasTable(&models.BillingRecord{})
}

// EnsureDatabase connects at server level and creates the configured
// database if it is missing. For sqlite the file (and its directory) is
// created on open.
func EnsureDatabase(cfg config.DatabaseConfig, debug bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid database settings: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	conn, err := open(cfg.Driver, cfg.ServerDSN(), debug)
	if err != nil {
		return err
	}
	defer Close(conn)

	// cfg.Name is restricted to [A-Za-z0-9_] by Validate, so quoting is safe.
	switch cfg.Driver {
	case config.DriverMySQL:
		if err := conn.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.Name)).Error; err != nil {
			return fmt.Errorf("create database %s: %w", cfg.Name, err)
		}
	case config.DriverPostgres:
		var count int64
		if err := conn.Raw("SELECT count(*) FROM pg_database WHERE datname = ?", cfg.Name).Scan(&count).Error; err != nil {
			return fmt.Errorf("lookup database %s: %w", cfg.Name, err)
		}
		if count == 0 {
			if err := conn.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.Name)).Error; err != nil {
				return fmt.Errorf("create database %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}
