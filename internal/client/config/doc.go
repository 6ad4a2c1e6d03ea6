// Package config loads runtime configuration for the Wirescope client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string    base URL of the identity service
//	-id string   OAuth client id
//	-d string    path of the local metadata database
//	-s string    path of the machine secret file
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10m" or integer nanoseconds:
//
//	{
//	  "identity_base_url": "https://id.wirescope.app",
//	  "client_id": "wirescope-desktop",
//	  "database_path": "wirescope.db",
//	  "secret_path": "wirescope.secret",
//	  "refresh_ahead": "10m",
//	  "block_window": "5s",
//	  "report_endpoint": "http://127.0.0.1:9000",
//	  "report_region": "us-east-1",
//	  "report_bucket": "wirescope-diagnostics",
//	  "report_access_key": "minioadmin",
//	  "report_secret_key": "minioadmin"
//	}
//
// Primary API
//
//   - type Config                     — runtime settings for the client
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
