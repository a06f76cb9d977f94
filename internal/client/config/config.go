package config

import "time"

// Config holds runtime settings for the MemoirVault CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the /api/v1 prefix.
//   - DatabasePath: path of the local SQLite catalog file.
//   - PollInterval: delay between consecutive task status polls.
//   - WatchDir: folder watched for new audio files; empty disables watching.
//
// Units: PollInterval is a time.Duration (e.g., 2*time.Second).
type Config struct {
	APIBaseURL   string
	DatabasePath string
	PollInterval time.Duration
	WatchDir     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1"
	c.DatabasePath = "memoirvault.db"
	c.PollInterval = 2 * time.Second
	c.WatchDir = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
