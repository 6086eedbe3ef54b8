package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Simulation holds all configuration for the simulation commands.
type Simulation struct {
	LogLevel  string `yaml:"log_level" toml:"log_level"`
	ModuleDir string `yaml:"module_dir" toml:"module_dir"`
	StartArea string `yaml:"start_area" toml:"start_area"`
	SaveID    string `yaml:"save_id" toml:"save_id"`

	// Party members placed at the start area's party_start
	Party []string `yaml:"party" toml:"party"`

	// Database
	Database DatabaseConfig `yaml:"database" toml:"database"`

	PathFinder  PathFinderConfig  `yaml:"path_finder" toml:"path_finder"`
	Visibility  VisibilityConfig  `yaml:"visibility" toml:"visibility"`
	Overlap     OverlapConfig     `yaml:"overlap" toml:"overlap"`
	Persistence PersistenceConfig `yaml:"persistence" toml:"persistence"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	DBName   string `yaml:"dbname" toml:"dbname"`
	SSLMode  string `yaml:"sslmode" toml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// PathFinderConfig bounds path searches.
type PathFinderConfig struct {
	MaxIterations int `yaml:"max_iterations" toml:"max_iterations"`
}

// VisibilityConfig sets the sight radius for areas without their own.
type VisibilityConfig struct {
	DefaultRadius int32 `yaml:"default_radius" toml:"default_radius"`
}

// OverlapConfig limits how far a party member is bumped at combat start.
type OverlapConfig struct {
	MaxRadius int32 `yaml:"max_radius" toml:"max_radius"`
}

// PersistenceConfig toggles saving area state to the database.
type PersistenceConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:  "info",
		ModuleDir: "data/module",
		StartArea: "village",
		SaveID:    "default",
		Party:     []string{"fighter", "ranger"},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "tacgrid",
			Password: "tacgrid",
			DBName:   "tacgrid",
			SSLMode:  "disable",
		},
		PathFinder: PathFinderConfig{MaxIterations: 2000},
		Visibility: VisibilityConfig{DefaultRadius: 12},
		Overlap:    OverlapConfig{MaxRadius: 3},
	}
}

// LoadSimulation loads config from a YAML or TOML file, picked by
// extension. If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects unknown log levels and non-positive limits.
func (c Simulation) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ModuleDir == "" {
		return fmt.Errorf("%w: module_dir is empty", ErrInvalid)
	}
	if c.StartArea == "" {
		return fmt.Errorf("%w: start_area is empty", ErrInvalid)
	}
	if c.PathFinder.MaxIterations <= 0 {
		return fmt.Errorf("%w: path_finder.max_iterations must be positive", ErrInvalid)
	}
	if c.Visibility.DefaultRadius <= 0 {
		return fmt.Errorf("%w: visibility.default_radius must be positive", ErrInvalid)
	}
	if c.Overlap.MaxRadius <= 0 {
		return fmt.Errorf("%w: overlap.max_radius must be positive", ErrInvalid)
	}
	if c.Persistence.Enabled && c.SaveID == "" {
		return fmt.Errorf("%w: save_id is required with persistence", ErrInvalid)
	}
	return nil
}

// SlogLevel returns the configured log level. Unknown values fall back to info.
func (c Simulation) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalid, s)
}
