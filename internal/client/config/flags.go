package config

import (
	"flag"
	"os"
	"time"

	"memoirvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API (default from Config)
//	-f string   path of the local SQLite catalog (default from Config)
//	-i int      task status poll interval in seconds (default from Config)
//	-w string   folder watched for new audio files (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-i", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "path of the local catalog database")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "task status poll interval (in seconds)")
	fs.StringVar(&cfg.WatchDir, "w", cfg.WatchDir, "folder watched for new audio files")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
