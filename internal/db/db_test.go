package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diewo77/jewelry-billing/internal/config"
	"github.com/diewo77/jewelry-billing/internal/models"
	"gorm.io/gorm"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "data", "shop.db")}
}

func TestEnsureDatabaseCreatesSQLiteFile(t *testing.T) {
	cfg := sqliteConfig(t)
	if err := EnsureDatabase(cfg, false); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		t.Fatalf("expected sqlite file to exist: %v", err)
	}
	// second call is a no-op
	if err := EnsureDatabase(cfg, false); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
}

func TestWithConnectionMigratesAndCloses(t *testing.T) {
	cfg := sqliteConfig(t)
	if err := EnsureDatabase(cfg, false); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	var kept *gorm.DB
	err := WithConnection(cfg, false, func(conn *gorm.DB) error {
		kept = conn
		if HasBillingTable(conn) {
			t.Fatalf("table should not exist before Migrate")
		}
		if err := Migrate(conn); err != nil {
			return err
		}
		if !HasBillingTable(conn) {
			t.Fatalf("table missing after Migrate")
		}
		// idempotent
		return Migrate(conn)
	})
	if err != nil {
		t.Fatalf("with connection: %v", err)
	}

	sqlDB, err := kept.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	if err := sqlDB.Ping(); err == nil {
		t.Fatalf("expected connection to be closed after WithConnection")
	}
}

func TestWithConnectionReturnsCallbackError(t *testing.T) {
	cfg := sqliteConfig(t)
	if err := EnsureDatabase(cfg, false); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	boom := errors.New("boom")
	if err := WithConnection(cfg, false, func(*gorm.DB) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected callback error got %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := open("oracle", "x", false); !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver got %v", err)
	}
	if _, err := Open(config.DatabaseConfig{Driver: "oracle"}, false); err == nil {
		t.Fatalf("expected validation error for unknown driver")
	}
}

func TestOpenUnreachableIsConnectError(t *testing.T) {
	// sqlite cannot open a path inside a missing directory
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "missing", "dir", "shop.db")}
	if _, err := Open(cfg, false); !errors.Is(err, ErrConnect) {
		t.Fatalf("expected ErrConnect got %v", err)
	}
}

func TestMigrateSchema(t *testing.T) {
	cfg := sqliteConfig(t)
	if err := EnsureDatabase(cfg, false); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	err := WithConnection(cfg, false, func(conn *gorm.DB) error {
		if err := Migrate(conn); err != nil {
			return err
		}
		for _, col := range []string{"id", "bill_no", "date", "customer_name", "contact_number", "item_name", "quantity", "weight_grams", "rate_per_gram", "making_charges", "total_amount", "payment_mode", "created_at"} {
			if !conn.Migrator().HasColumn(&models.BillingRecord{}, col) {
				t.Errorf("missing column %s", col)
			}
		}
		if !conn.Migrator().HasIndex(&models.BillingRecord{}, "idx_billing_records_bill_no") {
			t.Errorf("missing unique index on bill_no")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("schema check: %v", err)
	}
}
