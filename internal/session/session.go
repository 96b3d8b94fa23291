// Package session wires the ledger, the tiered store and the remote reporter
// into the controller the UI talks to. Every mutation runs synchronously
// against the ledger, is persisted to all tiers, and is then mirrored
// remotely best-effort; remote and storage failures never fail a mutation.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scanledger/internal/codec"
	"scanledger/internal/ledger"
	"scanledger/internal/logging"
	"scanledger/internal/models"
	"scanledger/internal/remote"
	"scanledger/internal/store"
)

// Reporter mirrors mutations to the remote endpoint. Satisfied by
// remote.Sync.
type Reporter interface {
	NotifyAdd(entry models.Entry)
	ScheduleBatch(codes []string)
	Flush()
	Close()
}

// DateLoader fetches the codes the endpoint logged for a past day.
// Satisfied by remote.Client.
type DateLoader interface {
	LoadDate(ctx context.Context, passcode, date string) ([]string, error)
}

// noopReporter keeps the session usable with no endpoint configured.
type noopReporter struct{}

func (noopReporter) NotifyAdd(models.Entry) {}
func (noopReporter) ScheduleBatch([]string) {}
func (noopReporter) Flush()                 {}
func (noopReporter) Close()                 {}

// viewMode is the rendering projection over the active list. It is purely
// presentational: clearing or filtering the view never touches persisted
// state.
type viewMode int

const (
	viewAll viewMode = iota
	viewDate
	viewSearch
	viewCleared
)

type Session struct {
	ledger   *ledger.Ledger
	store    *store.MultiTierStore
	reporter Reporter
	loader   DateLoader
	passcode string
	log      logging.Logger

	mode    viewMode
	viewArg string
	nowFn   func() time.Time
}

// New builds a session. reporter and loader may be nil when the station runs
// without an endpoint.
func New(st *store.MultiTierStore, reporter Reporter, loader DateLoader, passcode string, log logging.Logger) *Session {
	if reporter == nil {
		reporter = noopReporter{}
	}
	return &Session{
		ledger:   ledger.New(),
		store:    st,
		reporter: reporter,
		loader:   loader,
		passcode: passcode,
		log:      log,
		nowFn:    time.Now,
	}
}

// Hydrate rebuilds the ledger from the tiered store. Legacy blob shapes are
// upgraded here, once, and the normalized form is written straight back so
// later loads see only the current shape. Missing or unreadable data
// hydrates an empty ledger; that is not an error.
func (s *Session) Hydrate(ctx context.Context) {
	var active []models.Entry
	if data := s.store.Load(ctx, store.KeyScanned); data != nil {
		decoded, err := models.DecodeEntries(data, s.nowFn())
		if err != nil {
			s.log.Warn(ctx, "discarding unreadable scanned blob", "error", err)
		} else {
			active = decoded
		}
	}

	var removed []string
	if data := s.store.Load(ctx, store.KeyDeleted); data != nil {
		decoded, err := models.DecodeRemoved(data)
		if err != nil {
			s.log.Warn(ctx, "discarding unreadable removed blob", "error", err)
		} else {
			removed = decoded
		}
	}

	s.ledger = ledger.NewFromSnapshot(active, removed)
	s.ledger.SetNow(s.nowFn)
	s.persist(ctx)
}

func (s *Session) persist(ctx context.Context) {
	active := s.ledger.Active()
	if active == nil {
		active = []models.Entry{}
	}
	data, err := json.Marshal(active)
	if err != nil {
		s.log.Error(ctx, "failed to encode scanned blob", "error", err)
	} else {
		s.store.Save(ctx, store.KeyScanned, data)
	}

	removed := s.ledger.Removed()
	if removed == nil {
		removed = []string{}
	}
	data, err = json.Marshal(removed)
	if err != nil {
		s.log.Error(ctx, "failed to encode removed blob", "error", err)
	} else {
		s.store.Save(ctx, store.KeyDeleted, data)
	}
}

func (s *Session) codes() []string {
	active := s.ledger.Active()
	codes := make([]string, 0, len(active))
	for _, e := range active {
		codes = append(codes, e.Code)
	}
	return codes
}

// Scan adds a code, persists, and mirrors the scan remotely: the single scan
// fire-and-forget, plus a debounced snapshot upload so the remote session
// sheet converges on the full list.
func (s *Session) Scan(ctx context.Context, code string) (models.Entry, error) {
	e, err := s.ledger.Add(code)
	if err != nil {
		return models.Entry{}, err
	}

	s.persist(ctx)
	s.reporter.NotifyAdd(e)
	s.reporter.ScheduleBatch(s.codes())

	// a fresh scan always brings the full view back
	s.mode = viewAll
	return e, nil
}

// Remove deletes a code locally. The remote log is append-only audit
// history, so nothing is deleted remotely; only the debounced snapshot
// shrinks.
func (s *Session) Remove(ctx context.Context, code string) error {
	if err := s.ledger.Remove(code); err != nil {
		return err
	}
	s.persist(ctx)
	s.reporter.ScheduleBatch(s.codes())
	return nil
}

// ImportMergeFile parses an exported file and merges it in, returning the
// number of entries actually added.
func (s *Session) ImportMergeFile(ctx context.Context, name string, data []byte) (int, error) {
	res, err := codec.Import(name, data, s.nowFn())
	if err != nil {
		return 0, err
	}

	n := s.ledger.ImportMerge(res.Entries)
	if len(res.Removed) > 0 {
		s.ledger.AppendRemoved(res.Removed...)
	}

	s.persist(ctx)
	s.reporter.ScheduleBatch(s.codes())
	s.mode = viewAll
	return n, nil
}

// ClearAll wipes both collections locally and persists the empty state.
func (s *Session) ClearAll(ctx context.Context) {
	s.ledger.ClearAll()
	s.persist(ctx)
	s.reporter.ScheduleBatch(s.codes())
	s.mode = viewAll
}

// ExportCSV serializes the current view.
func (s *Session) ExportCSV() []byte {
	return codec.ExportCSV(s.View())
}

// ExportJSON serializes the current view as a pretty-printed array.
func (s *Session) ExportJSON() ([]byte, error) {
	return codec.ExportJSON(s.View())
}

// ExportEnvelope serializes the whole ledger for cross-device transfer.
func (s *Session) ExportEnvelope() ([]byte, error) {
	return codec.ExportEnvelope(s.ledger.Active(), s.ledger.Removed(), s.nowFn())
}

// LoadRemoteDate fetches the endpoint's log for a past day. Read-only: the
// result is displayed, never merged into the ledger.
func (s *Session) LoadRemoteDate(ctx context.Context, date string) ([]string, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("no endpoint configured")
	}
	return s.loader.LoadDate(ctx, s.passcode, date)
}

// View returns the active entries under the current projection.
func (s *Session) View() []models.Entry {
	switch s.mode {
	case viewDate:
		return s.ledger.FilterByDate(s.viewArg)
	case viewSearch:
		return s.ledger.Search(s.viewArg)
	case viewCleared:
		return nil
	default:
		return s.ledger.Active()
	}
}

// FilterDate narrows the view to one calendar day.
func (s *Session) FilterDate(date string) {
	s.mode, s.viewArg = viewDate, date
}

// FilterSearch narrows the view to codes containing query.
func (s *Session) FilterSearch(query string) {
	s.mode, s.viewArg = viewSearch, query
}

// ClearView empties the displayed list only. Persisted state is untouched
// and ResetView brings everything back.
func (s *Session) ClearView() { s.mode = viewCleared }

// ResetView shows the full active list again.
func (s *Session) ResetView() { s.mode = viewAll }

// Removed returns the removal history, oldest first.
func (s *Session) Removed() []string { return s.ledger.Removed() }

// TotalCount is the number of active entries.
func (s *Session) TotalCount() int { return s.ledger.Len() }

// TodayCount is the number of active entries scanned today.
func (s *Session) TodayCount() int {
	return s.ledger.CountForDate(s.nowFn().Format(models.DateLayout))
}

// RemovedCount is the number of removal events.
func (s *Session) RemovedCount() int { return len(s.ledger.Removed()) }

// StoreErrCount exposes the tier failure counter for the status line.
func (s *Session) StoreErrCount() int { return s.store.ErrCount() }

// Flush uploads the pending batch immediately instead of waiting out the
// debounce delay.
func (s *Session) Flush() { s.reporter.Flush() }

// Close flushes any pending batch upload and shuts the reporter down.
func (s *Session) Close() {
	s.reporter.Flush()
	s.reporter.Close()
}

var _ Reporter = (*remote.Sync)(nil)
var _ DateLoader = (*remote.Client)(nil)
