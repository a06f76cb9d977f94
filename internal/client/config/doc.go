// Package config loads runtime configuration for the MemoirVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-f string   path of the local SQLite catalog
//	-i int      task status poll interval (seconds)
//	-w string   folder watched for new audio files
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "2s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000/api/v1",
//	  "database_path": "memoirvault.db",
//	  "poll_interval": "2s",
//	  "watch_dir": "/home/user/recordings"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
