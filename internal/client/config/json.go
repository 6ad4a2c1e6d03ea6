package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/wirescope/internal/flagx"
	"github.com/dmitrijs2005/wirescope/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "10m" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	IdentityBaseURL string `json:"identity_base_url"`
	ClientID        string `json:"client_id"`

	DatabasePath string `json:"database_path"`
	SecretPath   string `json:"secret_path"`

	RefreshAhead timex.Duration `json:"refresh_ahead"`
	BlockWindow  timex.Duration `json:"block_window"`

	ReportEndpoint  string `json:"report_endpoint"`
	ReportRegion    string `json:"report_region"`
	ReportBucket    string `json:"report_bucket"`
	ReportAccessKey string `json:"report_access_key"`
	ReportSecretKey string `json:"report_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; absent fields keep their
//     earlier values.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.IdentityBaseURL != "" {
		cfg.IdentityBaseURL = jc.IdentityBaseURL
	}
	if jc.ClientID != "" {
		cfg.ClientID = jc.ClientID
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SecretPath != "" {
		cfg.SecretPath = jc.SecretPath
	}
	if jc.RefreshAhead.Duration != 0 {
		cfg.RefreshAhead = time.Duration(jc.RefreshAhead.Duration)
	}
	if jc.BlockWindow.Duration != 0 {
		cfg.BlockWindow = time.Duration(jc.BlockWindow.Duration)
	}
	if jc.ReportEndpoint != "" {
		cfg.ReportEndpoint = jc.ReportEndpoint
	}
	if jc.ReportRegion != "" {
		cfg.ReportRegion = jc.ReportRegion
	}
	if jc.ReportBucket != "" {
		cfg.ReportBucket = jc.ReportBucket
	}
	if jc.ReportAccessKey != "" {
		cfg.ReportAccessKey = jc.ReportAccessKey
	}
	if jc.ReportSecretKey != "" {
		cfg.ReportSecretKey = jc.ReportSecretKey
	}
}
