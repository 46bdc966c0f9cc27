// Package config provides the operator settings persisted between sessions.
//
// Settings live in a versioned YAML file (settings.yaml by default). Values can
// be overridden through JEWELBILL_* environment variables, e.g.
// JEWELBILL_DATABASE_HOST, which is also how a .env file feeds in.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/jewelry-billing/validation"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const (
	// SettingsVersion is the newest settings layout this binary understands.
	SettingsVersion = 1
	DefaultPath     = "settings.yaml"
	EnvPrefix       = "JEWELBILL"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedVersion = errors.New("unsupported_settings_version")

var dbNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Settings holds everything the operator configures.
type Settings struct {
	Version    int            `mapstructure:"version"`
	FolderPath string         `mapstructure:"folder_path"`
	Database   DatabaseConfig `mapstructure:"database"`
	App        AppConfig      `mapstructure:"app"`

	origin *loaded
}

// DatabaseConfig holds relational store connection settings.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite only
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Lang  string `mapstructure:"lang"`
	Debug bool   `mapstructure:"debug"`
}

// Default returns the settings used when no file exists yet.
func Default() *Settings {
	return &Settings{
		Version: SettingsVersion,
		Database: DatabaseConfig{
			Driver:  DriverMySQL,
			Host:    "localhost",
			Port:    3306,
			User:    "root",
			Name:    "jewelry_shop",
			SSLMode: "disable",
			Path:    "jewelry_shop.db",
		},
	}
}

// setting binds one YAML key to its Settings field.
type setting struct {
	key string
	get func(*Settings) any
}

var settingKeys = []setting{
	{"version", func(s *Settings) any { return s.Version }},
	{"folder_path", func(s *Settings) any { return s.FolderPath }},
	{"database.driver", func(s *Settings) any { return s.Database.Driver }},
	{"database.host", func(s *Settings) any { return s.Database.Host }},
	{"database.port", func(s *Settings) any { return s.Database.Port }},
	{"database.user", func(s *Settings) any { return s.Database.User }},
	{"database.password", func(s *Settings) any { return s.Database.Password }},
	{"database.name", func(s *Settings) any { return s.Database.Name }},
	{"database.sslmode", func(s *Settings) any { return s.Database.SSLMode }},
	{"database.path", func(s *Settings) any { return s.Database.Path }},
	{"app.lang", func(s *Settings) any { return s.App.Lang }},
	{"app.debug", func(s *Settings) any { return s.App.Debug }},
}

// loaded remembers what Load saw, so Save does not write environment
// overrides back to the file.
type loaded struct {
	file      Settings
	effective Settings
}

func setDefaults(v *viper.Viper) {
	d := Default()
	for _, k := range settingKeys {
		v.SetDefault(k.key, k.get(d))
	}
}

// Load reads settings from path. A missing file yields the defaults.
// Environment variables take precedence over the file.
func Load(path string) (*Settings, error) {
	file, err := read(path, false)
	if err != nil {
		return nil, err
	}
	s, err := read(path, true)
	if err != nil {
		return nil, err
	}
	s.origin = &loaded{file: *file, effective: *s}
	return s, nil
}

func read(path string, withEnv bool) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read settings %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// first run
		default:
			return nil, fmt.Errorf("stat settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if s.Version > SettingsVersion {
		return nil, fmt.Errorf("%w: file has version %d, supported %d", ErrUnsupportedVersion, s.Version, SettingsVersion)
	}
	if s.Version <= 0 {
		s.Version = SettingsVersion
	}
	return &s, nil
}

// Save overwrites path with the current settings. A value still equal to what
// Load got from the environment is written with its file value instead, so
// secrets passed through JEWELBILL_* never land on disk.
func (s *Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	s.Version = SettingsVersion

	v := viper.New()
	v.SetConfigType("yaml")
	for _, k := range settingKeys {
		val := k.get(s)
		if s.origin != nil && val == k.get(&s.origin.effective) {
			val = k.get(&s.origin.file)
		}
		v.Set(k.key, val)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// Validate checks the connection settings before any connection attempt.
// The returned error is a validation.Violations.
func (d DatabaseConfig) Validate() error {
	v := validation.Violations{}
	validation.OneOf("driver", d.Driver == DriverMySQL || d.Driver == DriverPostgres || d.Driver == DriverSQLite, v)
	switch d.Driver {
	case DriverSQLite:
		validation.Required("path", d.Path, v)
	case DriverMySQL, DriverPostgres:
		validation.Required("host", d.Host, v)
		validation.Required("user", d.User, v)
		validation.Required("name", d.Name, v)
		if d.Name != "" && !dbNamePattern.MatchString(d.Name) {
			v["name"] = "invalid_characters"
		}
		if d.Port <= 0 || d.Port > 65535 {
			v["port"] = "out_of_range"
		}
	}
	if v.Empty() {
		return nil
	}
	return v
}

// DSN returns the driver specific connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	return d.dsn(d.Name)
}

// ServerDSN returns a connection string that does not select the application
// database, used to create it when absent. For sqlite it equals DSN.
func (d DatabaseConfig) ServerDSN() string {
	switch d.Driver {
	case DriverMySQL:
		return d.dsn("")
	case DriverPostgres:
		return d.dsn("postgres")
	default:
		return d.DSN()
	}
}

// MaskedDSN is DSN with the password redacted, for logs.
func (d DatabaseConfig) MaskedDSN() string {
	if d.Password != "" {
		d.Password = "***"
	}
	return d.DSN()
}

func (d DatabaseConfig) dsn(dbName string) string {
	switch d.Driver {
	case DriverMySQL:
		c := mysql.NewConfig()
		c.User = d.User
		c.Passwd = d.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
		c.DBName = dbName
		c.ParseTime = true
		c.Loc = time.UTC
		c.Params = map[string]string{"charset": "utf8mb4"}
		return c.FormatDSN()
	case DriverPostgres:
		sslmode := d.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, dbName, sslmode,
		)
	case DriverSQLite:
		return d.Path
	default:
		return ""
	}
}
