package config

import (
	"flag"
	"os"
	"time"

	"scanledger/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-n", "-d", "-s", "-w", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointURL, "e", cfg.EndpointURL, "base URL of the remote logging endpoint")
	fs.StringVar(&cfg.SessionName, "n", cfg.SessionName, "session name reported with batch uploads")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for the file storage tier")
	fs.StringVar(&cfg.DatabaseDSN, "s", cfg.DatabaseDSN, "database DSN for the database tier")
	debounceMs := fs.Int("w", int(cfg.DebounceDelay.Milliseconds()), "batch upload debounce delay (in milliseconds)")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DebounceDelay = time.Duration(*debounceMs) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
