// Package cli implements the interactive scanning station. A barcode scanner
// acts as a keyboard, so the REPL treats any line that is not a known command
// as a scanned code.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"scanledger/internal/config"
	"scanledger/internal/gate"
	"scanledger/internal/logging"
	"scanledger/internal/models"
	"scanledger/internal/remote"
	"scanledger/internal/session"
	"scanledger/internal/store"
)

type App struct {
	config  *config.Config
	store   *store.MultiTierStore
	client  *remote.Client
	gate    *gate.Gate
	session *session.Session
	sync    *remote.Sync
	log     logging.Logger
	reader  *bufio.Reader

	passcode string

	// last reporter status line, updated from the sync goroutine
	syncStatus atomic.Value
}

// NewApp assembles the storage tiers, the remote client and the passcode
// gate. The session itself is built in Unlock, once the passcode is known.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	file, err := store.NewFileTier("file", cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init file tier: %w", err)
	}
	tiers := []store.Tier{file, store.NewMemoryTier("memory")}

	if cfg.DatabaseDSN != "" {
		db, err := store.OpenDBTier(ctx, "db", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to init database tier: %w", err)
		}
		tiers = append(tiers, db)
	}

	if cfg.S3Bucket != "" {
		s3, err := store.NewS3Tier(ctx, "s3", store.S3Config{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3Endpoint,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Prefix:       cfg.S3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 tier: %w", err)
		}
		tiers = append(tiers, s3)
	}

	a := &App{
		config: cfg,
		store:  store.NewMultiTierStore(log, tiers...),
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}
	a.syncStatus.Store("")

	if cfg.EndpointURL != "" {
		a.client = remote.NewClient(cfg.EndpointURL, cfg.RequestTimeout)
	}

	switch cfg.GateMode {
	case "remote":
		if a.client == nil {
			return nil, fmt.Errorf("gate_mode is remote but no endpoint_url is configured")
		}
		a.gate = gate.NewRemote(a.client)
	case "local":
		if cfg.PasscodeHash != "" {
			g, err := gate.NewLocal(cfg.PasscodeHash, cfg.PasscodeSalt)
			if err != nil {
				return nil, err
			}
			a.gate = g
		} else {
			a.gate = gate.NewFixed(cfg.Passcode)
		}
	default:
		return nil, fmt.Errorf("unknown gate_mode %q", cfg.GateMode)
	}

	return a, nil
}

// Unlock checks the passcode and builds the session around it. On success the
// ledger is hydrated from the tiers and the batch reporter is started.
func (a *App) Unlock(ctx context.Context, passcode string) error {
	if err := a.gate.Unlock(ctx, passcode); err != nil {
		return err
	}

	var reporter session.Reporter
	var loader session.DateLoader
	if a.client != nil {
		name := a.config.SessionName
		if name == "" {
			name = "Session " + time.Now().Format(models.DateLayout)
		}
		a.sync = remote.NewSync(a.client, a.log, passcode, name,
			a.config.DebounceDelay, func(status string) { a.syncStatus.Store(status) })
		reporter = a.sync
		loader = a.client
	}

	a.passcode = passcode

	a.session = session.New(a.store, reporter, loader, passcode, a.log)
	a.session.Hydrate(ctx)
	return nil
}

// Run prompts for the passcode, then hands control to the REPL. The session
// is closed on the way out so the last pending batch is flushed.
func (a *App) Run(ctx context.Context) error {
	for {
		passcode, err := GetPasscode(os.Stdout)
		if err != nil {
			return err
		}
		if err := a.Unlock(ctx, string(passcode)); err != nil {
			fmt.Println("Access denied:", err)
			continue
		}
		break
	}
	defer a.session.Close()

	fmt.Printf("Unlocked. %d entries on file (type 'help' for commands)\n", a.session.TotalCount())

	// the confirmation prompts read from a.reader too, so the REPL must not
	// add a second buffered layer over stdin
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) getStatus() string {
	s := fmt.Sprintf("%d scanned", a.session.TotalCount())
	if status, _ := a.syncStatus.Load().(string); status != "" {
		s = s + ", " + status
	}
	if n := a.session.StoreErrCount(); n > 0 {
		s = fmt.Sprintf("%s, %d store errors", s, n)
	}
	return "(" + s + ")"
}
