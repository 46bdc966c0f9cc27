// Package db opens scoped connections to the billing store and keeps its
// schema in place.
package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/jewelry-billing/internal/config"
	"github.com/diewo77/jewelry-billing/internal/logging"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrConnect wraps every failure to reach or authenticate against the store.
	ErrConnect           = errors.New("database_unreachable")
	ErrUnsupportedDriver = errors.New("unsupported_database_driver")
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func open(driver, dsn string, debug bool) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	conn, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logging.GormLevel(debug))})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	// Basic connectivity test
	if err := conn.Exec("SELECT 1").Error; err != nil {
		Close(conn)
		return nil, fmt.Errorf("%w: ping: %w", ErrConnect, err)
	}
	return conn, nil
}

// Open connects to the configured database and verifies it answers.
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database settings: %w", err)
	}
	return open(cfg.Driver, cfg.DSN(), debug)
}

// Close releases the pool behind conn. Errors are ignored: the unit of work
// has already finished by the time we close.
func Close(conn *gorm.DB) {
	if conn == nil {
		return
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// WithConnection opens a connection, runs fn and closes the connection
// whatever fn returns.
func WithConnection(cfg config.DatabaseConfig, debug bool, fn func(*gorm.DB) error) error {
	conn, err := Open(cfg, debug)
	if err != nil {
		return err
	}
	defer Close(conn)
	return fn(conn)
}
