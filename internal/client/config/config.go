package config

import "time"

// Config holds runtime settings for the Wirescope client.
//
// Fields:
//   - IdentityBaseURL: base URL of the hosted identity service.
//   - ClientID: OAuth client identifier issued to this application.
//   - DatabasePath: path of the local SQLite metadata database.
//   - SecretPath: path of the per-install machine secret file.
//   - RefreshAhead: how long before expiry a background refresh starts.
//   - BlockWindow: remaining lifetime below which callers wait for a refresh.
//   - Report*: coordinates of the S3-compatible diagnostics bucket; reporting
//     is disabled when ReportBucket is empty.
type Config struct {
	IdentityBaseURL string
	ClientID        string

	DatabasePath string
	SecretPath   string

	RefreshAhead time.Duration
	BlockWindow  time.Duration

	ReportEndpoint  string
	ReportRegion    string
	ReportBucket    string
	ReportAccessKey string
	ReportSecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.IdentityBaseURL = "https://id.wirescope.app"
	c.ClientID = "wirescope-desktop"
	c.DatabasePath = "wirescope.db"
	c.SecretPath = "wirescope.secret"
	c.RefreshAhead = 10 * time.Minute
	c.BlockWindow = 5 * time.Second
	c.ReportRegion = "us-east-1"
}

// TokenURL is the endpoint exchanging refresh tokens for access tokens.
func (c *Config) TokenURL() string {
	return c.IdentityBaseURL + "/oauth/token"
}

// UserDataURL is the endpoint serving the signed entitlement token.
func (c *Config) UserDataURL() string {
	return c.IdentityBaseURL + "/app_data"
}

// Audience is the expected aud claim of entitlement tokens.
func (c *Config) Audience() string {
	return c.IdentityBaseURL + "/app_data"
}

// Issuer is the expected iss claim of entitlement tokens.
func (c *Config) Issuer() string {
	return c.IdentityBaseURL + "/"
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
