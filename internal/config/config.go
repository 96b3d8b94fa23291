package config

import "time"

// Config holds runtime settings for the scanledger CLI.
//
// The endpoint and the database are both optional: with EndpointURL empty the
// station runs fully offline, and with DatabaseDSN empty no database tier is
// attached. The S3 tier is enabled by setting S3Bucket.
type Config struct {
	EndpointURL string
	SessionName string

	DataDir     string
	DatabaseDSN string

	GateMode     string
	Passcode     string
	PasscodeHash string
	PasscodeSalt string

	DebounceDelay  time.Duration
	RequestTimeout time.Duration

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.GateMode = "local"
	c.Passcode = "1234"
	c.DebounceDelay = 1500 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
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
