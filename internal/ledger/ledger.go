// Package ledger implements the in-memory collection of unique scanned
// entries plus the list of removed codes.
//
// Uniqueness is enforced here, at the collection boundary, so the storage
// tiers underneath stay plain blob stores with no query capability. The
// ledger itself never persists anything; callers save a snapshot through the
// store after every mutation.
package ledger

import (
	"strings"
	"time"

	"scanledger/internal/common"
	"scanledger/internal/models"
)

// Ledger holds the active entries (insertion order, newest first) and the
// codes removed from the active set. Removed codes are not deduplicated: the
// same code shows up once per removal.
//
// A Ledger is owned by a single session and is not safe for concurrent use.
type Ledger struct {
	active  []models.Entry
	removed []string
	index   map[string]struct{}

	// nowFn is a test seam for the wall clock.
	nowFn func() time.Time
}

func New() *Ledger {
	return &Ledger{index: make(map[string]struct{}), nowFn: time.Now}
}

// SetNow overrides the wall clock used for new entries. Test seam.
func (l *Ledger) SetNow(fn func() time.Time) { l.nowFn = fn }

// NewFromSnapshot rebuilds a ledger from persisted state. Duplicate codes in
// the snapshot (possible after a legacy upgrade) are dropped, first
// occurrence wins.
func NewFromSnapshot(active []models.Entry, removed []string) *Ledger {
	l := New()
	for _, e := range active {
		if _, ok := l.index[e.Code]; ok {
			continue
		}
		l.active = append(l.active, e)
		l.index[e.Code] = struct{}{}
	}
	l.removed = append(l.removed, removed...)
	return l
}

// Add trims code and inserts a new entry at the head of the active list.
// Returns common.ErrBadFormat for an empty code and common.ErrDuplicateCode
// when the exact code is already active; in both cases the ledger is
// unchanged.
func (l *Ledger) Add(code string) (models.Entry, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Entry{}, common.ErrBadFormat
	}
	if _, ok := l.index[code]; ok {
		return models.Entry{}, common.ErrDuplicateCode
	}

	e := models.NewEntry(code, l.nowFn())
	l.active = append([]models.Entry{e}, l.active...)
	l.index[code] = struct{}{}
	return e, nil
}

// Remove deletes the entry for code from the active list and appends code to
// the removed list. Returns common.ErrNotFound if the code is not active.
func (l *Ledger) Remove(code string) error {
	if _, ok := l.index[code]; !ok {
		return common.ErrNotFound
	}
	for i, e := range l.active {
		if e.Code == code {
			l.active = append(l.active[:i], l.active[i+1:]...)
			break
		}
	}
	delete(l.index, code)
	l.removed = append(l.removed, code)
	return nil
}

// FilterByDate returns the active entries created on the given calendar day,
// preserving active order.
func (l *Ledger) FilterByDate(date string) []models.Entry {
	var result []models.Entry
	for _, e := range l.active {
		if e.Date == date {
			result = append(result, e)
		}
	}
	return result
}

// Search returns active entries whose code contains query, compared
// case-insensitively, preserving active order.
func (l *Ledger) Search(query string) []models.Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	var result []models.Entry
	for _, e := range l.active {
		if strings.Contains(strings.ToLower(e.Code), q) {
			result = append(result, e)
		}
	}
	return result
}

// ImportMerge inserts the incoming entries that are not already active at the
// head of the list, preserving their relative order, and returns how many
// were inserted. Duplicates inside the incoming batch itself are skipped the
// same way, first occurrence wins.
func (l *Ledger) ImportMerge(entries []models.Entry) int {
	var fresh []models.Entry
	for _, e := range entries {
		if _, ok := l.index[e.Code]; ok {
			continue
		}
		fresh = append(fresh, e)
		l.index[e.Code] = struct{}{}
	}
	if len(fresh) == 0 {
		return 0
	}
	l.active = append(fresh, l.active...)
	return len(fresh)
}

// AppendRemoved appends imported removed codes as-is. No deduplication: the
// removed list keeps one entry per removal event.
func (l *Ledger) AppendRemoved(codes ...string) {
	l.removed = append(l.removed, codes...)
}

// ClearAll empties both the active and removed collections.
func (l *Ledger) ClearAll() {
	l.active = nil
	l.removed = nil
	l.index = make(map[string]struct{})
}

// Active returns a copy of the active entries, newest first.
func (l *Ledger) Active() []models.Entry {
	out := make([]models.Entry, len(l.active))
	copy(out, l.active)
	return out
}

// Removed returns a copy of the removed codes in removal order.
func (l *Ledger) Removed() []string {
	out := make([]string, len(l.removed))
	copy(out, l.removed)
	return out
}

func (l *Ledger) Len() int { return len(l.active) }

// CountForDate returns how many active entries were created on the given day.
func (l *Ledger) CountForDate(date string) int {
	n := 0
	for _, e := range l.active {
		if e.Date == date {
			n++
		}
	}
	return n
}
