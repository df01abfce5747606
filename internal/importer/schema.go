package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PoolSchema is the top-level structure of a candidate pool file. The
// same shape is accepted as JSON or YAML.
type PoolSchema struct {
	Trip       TripImport       `json:"trip" yaml:"trip"`
	Planner    *PlannerImport   `json:"planner,omitempty" yaml:"planner,omitempty"`
	Activities []ActivityImport `json:"activities" yaml:"activities"`
	Weather    []WeatherImport  `json:"weather,omitempty" yaml:"weather,omitempty"`
}

// TripImport defines the trip-level fields in the pool file.
type TripImport struct {
	Name      string `json:"name" yaml:"name"`
	StartDate string `json:"start_date" yaml:"start_date"`
	Days      int    `json:"days" yaml:"days"`
	// DayTypes lists the type of each day in order; missing entries are full days.
	DayTypes []string `json:"day_types,omitempty" yaml:"day_types,omitempty"`
}

// PlannerImport overrides the configured planner defaults for one trip.
type PlannerImport struct {
	Pace              string `json:"pace,omitempty" yaml:"pace,omitempty"`
	DayStart          string `json:"day_start,omitempty" yaml:"day_start,omitempty"`
	DayEnd            string `json:"day_end,omitempty" yaml:"day_end,omitempty"`
	TripMode          string `json:"trip_mode,omitempty" yaml:"trip_mode,omitempty"`
	CommutePreference string `json:"commute_preference,omitempty" yaml:"commute_preference,omitempty"`
	MaxWalkMinutes    *int   `json:"max_walk_minutes,omitempty" yaml:"max_walk_minutes,omitempty"`
}

// ActivityImport is one ranked candidate.
type ActivityImport struct {
	ID               string             `json:"id" yaml:"id"`
	Name             string             `json:"name" yaml:"name"`
	Category         string             `json:"category" yaml:"category"`
	Neighborhood     string             `json:"neighborhood,omitempty" yaml:"neighborhood,omitempty"`
	Lat              float64            `json:"lat" yaml:"lat"`
	Lng              float64            `json:"lng" yaml:"lng"`
	DurationMin      int                `json:"duration_min" yaml:"duration_min"`
	BestTimes        []string           `json:"best_times,omitempty" yaml:"best_times,omitempty"`
	Restaurant       bool               `json:"restaurant,omitempty" yaml:"restaurant,omitempty"`
	Meals            []string           `json:"meals,omitempty" yaml:"meals,omitempty"`
	Booking          *BookingImport     `json:"booking,omitempty" yaml:"booking,omitempty"`
	Cost             float64            `json:"cost,omitempty" yaml:"cost,omitempty"`
	Outdoor          bool               `json:"outdoor,omitempty" yaml:"outdoor,omitempty"`
	WeatherSensitive bool               `json:"weather_sensitive,omitempty" yaml:"weather_sensitive,omitempty"`
	Score            float64            `json:"score" yaml:"score"`
	ScoreBreakdown   map[string]float64 `json:"score_breakdown,omitempty" yaml:"score_breakdown,omitempty"`
}

type BookingImport struct {
	Required  bool   `json:"required" yaml:"required"`
	Confirmed bool   `json:"confirmed" yaml:"confirmed"`
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// WeatherImport is the forecast for one date of the trip.
type WeatherImport struct {
	Date             string  `json:"date" yaml:"date"`
	Condition        string  `json:"condition" yaml:"condition"`
	PrecipitationPct int     `json:"precipitation_pct" yaml:"precipitation_pct"`
	TempLowC         float64 `json:"temp_low_c" yaml:"temp_low_c"`
	TempHighC        float64 `json:"temp_high_c" yaml:"temp_high_c"`
}

// LoadPool reads a pool file, picking the decoder from the extension.
// Files ending in .yaml or .yml are YAML; everything else is JSON.
func LoadPool(path string) (*PoolSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParsePoolYAML(data)
	default:
		return ParsePoolJSON(data)
	}
}

func ParsePoolJSON(data []byte) (*PoolSchema, error) {
	var schema PoolSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing pool file: %w", err)
	}
	return &schema, nil
}

func ParsePoolYAML(data []byte) (*PoolSchema, error) {
	var schema PoolSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing pool file: %w", err)
	}
	return &schema, nil
}
