package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validJSON() string {
	return `{
		"filenames": {"map_nodes": "nodes.csv", "map_edges": "edges.csv", "map_tarns": "tarns.csv", "output_dir": "out", "gpx": "tour.gpx"},
		"path_cost": {"length_weight": 1.0, "elevation_weight": 0.1, "difficulty_weight": 0.5, "cars_weight": 0.5},
		"tarn_constraints": {"min_elevation": 0, "max_elevation": 900, "min_area": 1000, "max_area": 5000000},
		"path_constraints": {"min_length": 0, "max_length": 20000, "max_elevation": 1.0, "max_difficulty": 3, "max_cars": 2},
		"map_constraints": {"min_latitude": 54.0, "max_latitude": 55.0, "min_longitude": -3.5, "max_longitude": -2.5}
	}`
}

func TestLoadValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(validJSON()), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Filenames.MapNodes != "nodes.csv" {
		t.Errorf("MapNodes = %q, want nodes.csv", cfg.Filenames.MapNodes)
	}
	if cfg.PathCost.LengthWeight != 1.0 {
		t.Errorf("LengthWeight = %f, want 1.0", cfg.PathCost.LengthWeight)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidateMissingFilename(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for empty filenames")
	}
}

func TestValidateInvertedRange(t *testing.T) {
	cfg := &Config{
		Filenames: Filenames{MapNodes: "a", MapEdges: "b", MapTarns: "c", OutputDir: "d"},
		TarnConstraints: TarnConstraints{
			MinElevation: 900,
			MaxElevation: 0,
		},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error for min_elevation > max_elevation")
	}
}

func TestValidateOrderedTarnsAndStartLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"filenames": {"map_nodes": "n", "map_edges": "e", "map_tarns": "t", "output_dir": "o"},
		"path_cost": {"length_weight": 1, "elevation_weight": 1, "difficulty_weight": 1, "cars_weight": 1},
		"tarn_constraints": {"min_elevation": 0, "max_elevation": 1, "min_area": 0, "max_area": 1, "use_ordered_tarns": true, "blacklist": ["Bad Tarn"]},
		"path_constraints": {"min_length": 0, "max_length": 1, "max_elevation": 1, "max_difficulty": 1, "max_cars": 1, "start_location": {"latitude": 54.45, "longitude": -3.08}},
		"map_constraints": {"min_latitude": 0, "max_latitude": 1, "min_longitude": 0, "max_longitude": 1}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.TarnConstraints.UseOrderedTarns {
		t.Error("UseOrderedTarns should be true")
	}
	if cfg.PathConstraints.StartLocation == nil || cfg.PathConstraints.StartLocation.Latitude != 54.45 {
		t.Error("StartLocation not decoded correctly")
	}
	if len(cfg.TarnConstraints.Blacklist) != 1 || cfg.TarnConstraints.Blacklist[0] != "Bad Tarn" {
		t.Error("Blacklist not decoded correctly")
	}
}
