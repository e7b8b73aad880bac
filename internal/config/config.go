// Package config defines pipeline configuration and loading.
//
// Conventions follow the rest of the repo: defaults come from New, and
// Load layers an optional YAML file and environment variables on top.
package config

import "runtime"

// Config contains process configuration for one pipeline run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Year, GrandPrix and SessionType select the session to process,
	// e.g. 2023 / "Bahrain" / "R".
	Year        int    `koanf:"year"`
	GrandPrix   string `koanf:"grand_prix"`
	SessionType string `koanf:"session_type"`

	// APIBaseURL points at the upstream telemetry provider.
	APIBaseURL string `koanf:"api_base_url"`

	// CacheDir holds cached upstream responses. Created if absent,
	// never cleared by the pipeline.
	CacheDir string `koanf:"cache_dir"`

	// OutputDir receives the exported dataset.
	OutputDir string `koanf:"output_dir"`

	// WorkerCount sets the number of extraction workers.
	WorkerCount int `koanf:"worker_count"`

	// TrackPathRule selects the reference path driver: first or longest.
	TrackPathRule string `koanf:"track_path_rule"`

	// PushGateway, when set, receives run metrics after completion.
	PushGateway string `koanf:"push_gateway"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Year:          2023,
		GrandPrix:     "Bahrain",
		SessionType:   "R",
		APIBaseURL:    "https://api.f1telemetry.example/v1",
		CacheDir:      "./cache",
		OutputDir:     "./public",
		WorkerCount:   runtime.NumCPU(),
		TrackPathRule: "first",
		PushGateway:   "",
	}
}
