// Package config holds the label run's settings, populated from CLI flags
// with environment-variable defaults for the ambient knobs.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all settings for a label run.
type Config struct {
	// BestTrackPath is the IBTrACS catalog CSV (--best-track, required).
	BestTrackPath string

	// ObservationsDir holds the gridded observation files and receives the
	// output table (--observations-dir, required).
	ObservationsDir string

	// LeadTimeHours shifts observation timestamps forward before the genesis
	// join (--leadtime, default 0).
	LeadTimeHours int

	// KeepPreExistingStorms disables the post-filter that drops non-genesis
	// rows with concurrent storm activity (--keep-pre-existing-storms).
	KeepPreExistingStorms bool

	// HTTPAddr enables the health/metrics endpoint when non-empty
	// (--http-addr or HTTP_ADDR; empty keeps the tool a plain one-shot CLI).
	HTTPAddr string

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load parses args (without the program name) and applies env defaults.
func Load(args []string) (*Config, error) {
	cfg := &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),
	}

	fs := flag.NewFlagSet("labels", flag.ContinueOnError)
	fs.StringVar(&cfg.BestTrackPath, "best-track", "", "path to the IBTrACS best-track CSV file")
	fs.StringVar(&cfg.ObservationsDir, "observations-dir", "", "directory containing observation .nc files; also receives the output CSV")
	fs.IntVar(&cfg.LeadTimeHours, "leadtime", 0, "hours to shift observation timestamps forward before alignment")
	fs.BoolVar(&cfg.KeepPreExistingStorms, "keep-pre-existing-storms", false, "keep non-genesis rows that have concurrent storm activity")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", envOrDefault("HTTP_ADDR", ""), "optional address for health and metrics endpoints, e.g. :8080")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = shutdownTimeout

	if cfg.BestTrackPath == "" {
		return nil, errors.New("--best-track is required")
	}
	if cfg.ObservationsDir == "" {
		return nil, errors.New("--observations-dir is required")
	}

	return cfg, nil
}

// LeadTime returns the lead time as a duration.
func (c *Config) LeadTime() time.Duration {
	return time.Duration(c.LeadTimeHours) * time.Hour
}

// OutputPath is where the label table lands: <observations-dir>/tc_<leadtime>h.csv.
func (c *Config) OutputPath() string {
	return filepath.Join(c.ObservationsDir, fmt.Sprintf("tc_%dh.csv", c.LeadTimeHours))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}
