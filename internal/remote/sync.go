package remote

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"scanledger/internal/logging"
	"scanledger/internal/models"
)

// Status values passed to the status callback. The UI shows them verbatim.
const (
	StatusSaving = "Saving..."
	StatusSaved  = "Saved"
	StatusFailed = "Save failed"
)

// API is the slice of the endpoint client the reporter needs.
type API interface {
	LogBarcode(ctx context.Context, passcode, code, timestamp string) error
	SaveBatch(ctx context.Context, passcode, sessionID, sessionName string, codes []string) error
}

// Sync mirrors ledger mutations to the remote endpoint. All calls are
// best-effort: a failure is surfaced through the status callback and then
// forgotten. There is no automatic retry; the next mutation is the natural
// retry trigger via the next debounce window.
type Sync struct {
	api         API
	passcode    string
	sessionID   string
	sessionName string
	delay       time.Duration
	timeout     time.Duration
	onStatus    func(status string)
	log         logging.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending []string
	closed  bool
}

// NewSync creates a reporter with a fresh session id. onStatus may be nil.
func NewSync(api API, log logging.Logger, passcode, sessionName string, delay time.Duration, onStatus func(string)) *Sync {
	if onStatus == nil {
		onStatus = func(string) {}
	}
	return &Sync{
		api:         api,
		passcode:    passcode,
		sessionID:   uuid.NewString(),
		sessionName: sessionName,
		delay:       delay,
		timeout:     10 * time.Second,
		onStatus:    onStatus,
		log:         log,
	}
}

// SessionID identifies this session's batch uploads on the endpoint.
func (s *Sync) SessionID() string { return s.sessionID }

// NotifyAdd reports a single scan fire-and-forget. The caller's mutation has
// already happened and is never rolled back.
func (s *Sync) NotifyAdd(entry models.Entry) {
	s.onStatus(StatusSaving)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.api.LogBarcode(ctx, s.passcode, entry.Code, entry.Timestamp); err != nil {
			s.log.Warn(ctx, "remote log failed", "code", entry.Code, "error", err)
			s.onStatus(StatusFailed)
			return
		}
		s.onStatus(StatusSaved)
	}()
}

// ScheduleBatch (re)arms the debounce timer with the given snapshot. Repeated
// calls within the window collapse into one upload carrying the latest
// snapshot; the timer resets on every call.
func (s *Sync) ScheduleBatch(codes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.pending = codes
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Sync) fire() {
	s.mu.Lock()
	codes := s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	if codes == nil {
		return
	}
	s.upload(codes)
}

func (s *Sync) upload(codes []string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.onStatus(StatusSaving)
	if err := s.api.SaveBatch(ctx, s.passcode, s.sessionID, s.sessionName, codes); err != nil {
		s.log.Warn(ctx, "batch upload failed", "session", s.sessionID, "error", err)
		s.onStatus(StatusFailed)
		return
	}
	s.onStatus(StatusSaved)
}

// Flush sends a pending snapshot immediately instead of waiting for the
// timer. No-op when nothing is pending.
func (s *Sync) Flush() {
	s.mu.Lock()
	codes := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if codes == nil {
		return
	}
	s.upload(codes)
}

// Close cancels any pending upload. Pending data is dropped, not sent: local
// storage is authoritative and the next session re-uploads from it.
func (s *Sync) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
