// Package models defines the scanned-entry value type and the decode helpers
// that upgrade legacy storage shapes.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used in Entry.Date and in the
// remote endpoint's date filters.
const DateLayout = "2006-01-02"

// Entry is one logged barcode. Code is stored case-sensitively; searching is
// case-insensitive at the ledger level. The JSON field names are the wire
// names used by the persisted blobs and the export envelope.
type Entry struct {
	Code      string `json:"code"`
	Date      string `json:"date"`
	Timestamp string `json:"ts"`
}

// NewEntry derives both the calendar day and the full timestamp from a single
// instant so the two fields can never disagree.
func NewEntry(code string, now time.Time) Entry {
	return Entry{
		Code:      code,
		Date:      now.Format(DateLayout),
		Timestamp: now.Format(time.RFC3339),
	}
}

// DecodeEntries parses a stored entry list. Older blobs held bare code
// strings instead of objects; those are upgraded in place with the given
// instant, matching what the legacy loader did on every page load.
func DecodeEntries(data []byte, now time.Time) ([]Entry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode entry list: %w", err)
	}

	result := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			result = append(result, NewEntry(s, now))
			continue
		}
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil {
			return nil, fmt.Errorf("failed to decode entry: %w", err)
		}
		result = append(result, e)
	}
	return result, nil
}

// DecodeRemoved parses a stored removed-code list. Some variants persisted
// Entry-like objects here; everything is normalized down to the bare code.
func DecodeRemoved(data []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode removed list: %w", err)
	}

	result := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			result = append(result, s)
			continue
		}
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil {
			return nil, fmt.Errorf("failed to decode removed code: %w", err)
		}
		result = append(result, e.Code)
	}
	return result, nil
}
