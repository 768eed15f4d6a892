// Package config decodes and validates the planner's JSON configuration
// file, using goccy/go-json as the teacher's sibling repos do for faster
// drop-in encoding/json-compatible decoding.
package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Filenames names the artifact files the Map Builder produced and where
// the planner should write its output.
type Filenames struct {
	MapNodes  string `json:"map_nodes"`
	MapEdges  string `json:"map_edges"`
	MapTarns  string `json:"map_tarns"`
	OutputDir string `json:"output_dir"`
	GPX       string `json:"gpx"`
}

// PathCost holds the weights §3's Cost formula applies to an edge's
// physical attributes.
type PathCost struct {
	LengthWeight     float64 `json:"length_weight"`
	ElevationWeight  float64 `json:"elevation_weight"`
	DifficultyWeight float64 `json:"difficulty_weight"`
	CarsWeight       float64 `json:"cars_weight"`
}

// StartLocation is an optional fixed starting point for the tour.
type StartLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TarnConstraints filters which tarns are eligible POIs.
type TarnConstraints struct {
	MinElevation    float64  `json:"min_elevation"`
	MaxElevation    float64  `json:"max_elevation"`
	MinArea         float64  `json:"min_area"`
	MaxArea         float64  `json:"max_area"`
	Blacklist       []string `json:"blacklist,omitempty"`
	UseOrderedTarns bool     `json:"use_ordered_tarns,omitempty"`
}

// PathConstraints bounds an individual leg. The planner applies MaxLength
// as the pruning threshold on leg cost and MinLength as the short-leg
// threshold of the annealing objective; MaxElevation, MaxDifficulty and
// MaxCars are decoded and stored but are neither validated nor applied to
// the tour.
type PathConstraints struct {
	MinLength     float64        `json:"min_length"`
	MaxLength     float64        `json:"max_length"`
	MaxElevation  float64        `json:"max_elevation"`
	MaxDifficulty float64        `json:"max_difficulty"`
	MaxCars       float64        `json:"max_cars"`
	StartLocation *StartLocation `json:"start_location,omitempty"`
}

// MapConstraints bounds the region of interest.
type MapConstraints struct {
	MinLatitude  float64 `json:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude"`
}

// Config is the planner's top-level JSON configuration document.
type Config struct {
	Filenames       Filenames       `json:"filenames"`
	PathCost        PathCost        `json:"path_cost"`
	TarnConstraints TarnConstraints `json:"tarn_constraints"`
	PathConstraints PathConstraints `json:"path_constraints"`
	MapConstraints  MapConstraints  `json:"map_constraints"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required filenames are non-empty and that every paired
// range has min ≤ max, in the same order the original validator did.
func (c *Config) Validate() error {
	if c.Filenames.MapNodes == "" {
		return fmt.Errorf("config: filenames.map_nodes not specified")
	}
	if c.Filenames.MapEdges == "" {
		return fmt.Errorf("config: filenames.map_edges not specified")
	}
	if c.Filenames.MapTarns == "" {
		return fmt.Errorf("config: filenames.map_tarns not specified")
	}
	if c.Filenames.OutputDir == "" {
		return fmt.Errorf("config: filenames.output_dir not specified")
	}

	if c.TarnConstraints.MinElevation > c.TarnConstraints.MaxElevation {
		return fmt.Errorf("config: tarn_constraints.min_elevation must be <= max_elevation")
	}
	if c.TarnConstraints.MinArea > c.TarnConstraints.MaxArea {
		return fmt.Errorf("config: tarn_constraints.min_area must be <= max_area")
	}
	if c.PathConstraints.MinLength > c.PathConstraints.MaxLength {
		return fmt.Errorf("config: path_constraints.min_length must be <= max_length")
	}
	if c.MapConstraints.MinLatitude > c.MapConstraints.MaxLatitude {
		return fmt.Errorf("config: map_constraints.min_latitude must be <= max_latitude")
	}
	if c.MapConstraints.MinLongitude > c.MapConstraints.MaxLongitude {
		return fmt.Errorf("config: map_constraints.min_longitude must be <= max_longitude")
	}

	return nil
}
