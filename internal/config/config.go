package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/reshuffle"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

type Config struct {
	Database  DatabaseConfig       `toml:"database"`
	Logging   LoggingConfig        `toml:"logging"`
	Planner   domain.PlannerConfig `toml:"planner"`
	Reshuffle reshuffle.Config     `toml:"reshuffle"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // debug | info | warn | error
	File  string `toml:"file"`
	// Rotation settings for File.
	MaxSizeMB  int `toml:"max_size_mb"`
	MaxBackups int `toml:"max_backups"`
	MaxAgeDays int `toml:"max_age_days"`
}

// DefaultDir is ~/.itinera, or the working directory when no home is known.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".itinera"
	}
	return filepath.Join(home, ".itinera")
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{Path: dbPath},
		Logging: LoggingConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Planner:   domain.DefaultPlannerConfig(),
		Reshuffle: reshuffle.DefaultConfig(),
	}
}

// Load decodes the TOML file at path over defaults. A missing or empty
// file yields the defaults. The result is not yet validated so that
// environment overrides can be applied first.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from ITINERA_* variables. Unparseable
// numeric values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("ITINERA_DB"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("ITINERA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("ITINERA_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := getenv("ITINERA_PACE"); v != "" {
		c.Planner.Pace = domain.PaceMode(strings.ToLower(v))
	}
	if v := getenv("ITINERA_TRIP_MODE"); v != "" {
		c.Planner.TripMode = domain.TripMode(strings.ToLower(v))
	}
	if v := getenv("ITINERA_SILENT_BUFFER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Reshuffle.SilentBufferMin = n
		}
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if err := ValidatePlanner(c.Planner); err != nil {
		return err
	}

	return c.Reshuffle.Validate()
}

// ValidatePlanner checks planner settings on their own, for per-trip
// overrides that bypass the file.
func ValidatePlanner(p domain.PlannerConfig) error {
	if !domain.ValidPaceModes[p.Pace] {
		return fmt.Errorf("invalid planner.pace: %q", p.Pace)
	}
	if !domain.ValidTripModes[p.TripMode] {
		return fmt.Errorf("invalid planner.trip_mode: %q", p.TripMode)
	}
	if !domain.ValidCommutePreferences[p.CommutePreference] {
		return fmt.Errorf("invalid planner.commute_preference: %q", p.CommutePreference)
	}
	if p.DayStart < 0 || p.DayEnd > timeutil.MinutesPerDay {
		return errors.New("planner.day_start and day_end must lie within 00:00-24:00")
	}
	if p.DayEnd <= p.DayStart {
		return fmt.Errorf("planner.day_end %s must be after day_start %s", p.DayEnd, p.DayStart)
	}
	if p.MaxWalkMinutes <= 0 {
		return fmt.Errorf("planner.max_walk_minutes must be > 0, got %d", p.MaxWalkMinutes)
	}
	return nil
}

// ReshuffleConfig returns the reshuffle settings bound to the planner
// preferences used when repaired days are re-finalized.
func (c Config) ReshuffleConfig() reshuffle.Config {
	r := c.Reshuffle
	r.Planner = c.Planner
	return r
}
