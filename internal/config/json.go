package config

import (
	"encoding/json"
	"os"
	"time"

	"scanledger/internal/flagx"
	"scanledger/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "1.5s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	EndpointURL    string         `json:"endpoint_url"`
	SessionName    string         `json:"session_name"`
	DataDir        string         `json:"data_dir"`
	DatabaseDSN    string         `json:"database_dsn"`
	GateMode       string         `json:"gate_mode"`
	Passcode       string         `json:"passcode"`
	PasscodeHash   string         `json:"passcode_hash"`
	PasscodeSalt   string         `json:"passcode_salt"`
	DebounceDelay  timex.Duration `json:"debounce_delay"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3Region       string         `json:"s3_region"`
	S3Bucket       string         `json:"s3_bucket"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Prefix       string         `json:"s3_prefix"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flag. Fields absent from the JSON keep their current
// values. Panics on read or unmarshal errors.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
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

	overlayString(&cfg.EndpointURL, jc.EndpointURL)
	overlayString(&cfg.SessionName, jc.SessionName)
	overlayString(&cfg.DataDir, jc.DataDir)
	overlayString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlayString(&cfg.GateMode, jc.GateMode)
	overlayString(&cfg.Passcode, jc.Passcode)
	overlayString(&cfg.PasscodeHash, jc.PasscodeHash)
	overlayString(&cfg.PasscodeSalt, jc.PasscodeSalt)
	overlayString(&cfg.S3Endpoint, jc.S3Endpoint)
	overlayString(&cfg.S3Region, jc.S3Region)
	overlayString(&cfg.S3Bucket, jc.S3Bucket)
	overlayString(&cfg.S3AccessKey, jc.S3AccessKey)
	overlayString(&cfg.S3SecretKey, jc.S3SecretKey)
	overlayString(&cfg.S3Prefix, jc.S3Prefix)

	if jc.DebounceDelay.Duration != 0 {
		cfg.DebounceDelay = time.Duration(jc.DebounceDelay.Duration)
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
