// Package config loads runtime configuration for the scanledger CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-e string   base URL of the remote logging endpoint
//	-n string   session name reported with batch uploads
//	-d string   directory for the file storage tier
//	-s string   database DSN for the database tier (sqlite path or postgres URL)
//	-w int      batch upload debounce delay (milliseconds)
//	-t int      remote request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "1.5s" or integer nanoseconds:
//
//	{
//	  "endpoint_url": "https://script.example.com/exec",
//	  "session_name": "dock-3",
//	  "data_dir": "data",
//	  "database_dsn": "scanledger.db",
//	  "gate_mode": "remote",
//	  "passcode_hash": "…hex…",
//	  "passcode_salt": "…hex…",
//	  "debounce_delay": "1.5s",
//	  "request_timeout": "10s",
//	  "s3_bucket": "scans",
//	  "s3_region": "us-east-1"
//	}
//
// Passcode and S3 credentials are configurable only through the JSON file so
// they never appear in shell history.
package config
