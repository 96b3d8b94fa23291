package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"scanledger/internal/common"
	"scanledger/internal/models"
)

// getSimpleText is an indirection used to facilitate testing.
var getSimpleText = GetSimpleText

func printEntries(entries []models.Entry) {
	if len(entries) == 0 {
		printlnFn("(empty)")
		return
	}
	for i, e := range entries {
		printlnFn(fmt.Sprintf("%3d. %s  %s", i+1, e.Date, e.Code))
	}
}

// Scan adds a code to the ledger. The whole trimmed line is the code, since
// barcodes may contain spaces.
func (a *App) Scan(ctx context.Context, code string) error {
	e, err := a.session.Scan(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateCode):
			printlnFn("Duplicate:", code, "is already on the list")
		case errors.Is(err, common.ErrBadFormat):
			printlnFn("Nothing to scan")
		default:
			printlnFn("Scan failed:", err)
		}
		return err
	}
	printlnFn("+", e.Code)
	return nil
}

func (a *App) List(ctx context.Context) error {
	printEntries(a.session.View())
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	a.session.FilterSearch(query)
	printEntries(a.session.View())
	return nil
}

func (a *App) Date(ctx context.Context, date string) error {
	a.session.FilterDate(date)
	printEntries(a.session.View())
	return nil
}

func (a *App) Today(ctx context.Context) error {
	return a.Date(ctx, time.Now().Format(models.DateLayout))
}

func (a *App) All(ctx context.Context) error {
	a.session.ResetView()
	printEntries(a.session.View())
	return nil
}

func (a *App) Remove(ctx context.Context, code string) error {
	if err := a.session.Remove(ctx, code); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("Not on the list:", code)
		} else {
			printlnFn("Remove failed:", err)
		}
		return err
	}
	printlnFn("-", code)
	return nil
}

func (a *App) Deleted(ctx context.Context) error {
	removed := a.session.Removed()
	if len(removed) == 0 {
		printlnFn("(no removals)")
		return nil
	}
	for i, code := range removed {
		printlnFn(fmt.Sprintf("%3d. %s", i+1, code))
	}
	return nil
}

func (a *App) Count(ctx context.Context) error {
	printlnFn(fmt.Sprintf("total %d, today %d, removed %d",
		a.session.TotalCount(), a.session.TodayCount(), a.session.RemovedCount()))
	return nil
}

// Export writes the current view (csv, json) or the whole ledger (transfer)
// to a file.
func (a *App) Export(ctx context.Context, format, path string) error {
	var data []byte
	var err error
	switch format {
	case "csv":
		data = a.session.ExportCSV()
	case "json":
		data, err = a.session.ExportJSON()
	case "transfer", "envelope":
		data, err = a.session.ExportEnvelope()
	default:
		printlnFn("Unknown export format:", format)
		return common.ErrBadFormat
	}
	if err != nil {
		printlnFn("Export failed:", err)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		printlnFn("Export failed:", err)
		return err
	}
	printlnFn("Exported to", path)
	return nil
}

func (a *App) Import(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Import failed:", err)
		return err
	}
	n, err := a.session.ImportMergeFile(ctx, path, data)
	if err != nil {
		if errors.Is(err, common.ErrBadFormat) {
			printlnFn("Unsupported file format:", path)
		} else {
			printlnFn("Import failed:", err)
		}
		return err
	}
	printlnFn(fmt.Sprintf("Imported %d new entries", n))
	return nil
}

// Load shows the endpoint's log for a past day. Read-only: nothing is merged.
func (a *App) Load(ctx context.Context, date string) error {
	codes, err := a.session.LoadRemoteDate(ctx, date)
	if err != nil {
		printlnFn("Load failed:", err)
		return err
	}
	if len(codes) == 0 {
		printlnFn("(nothing logged on " + date + ")")
		return nil
	}
	for i, code := range codes {
		printlnFn(fmt.Sprintf("%3d. %s", i+1, code))
	}
	return nil
}

func (a *App) SyncNow(ctx context.Context) error {
	a.session.Flush()
	printlnFn("Sync requested")
	return nil
}

// Clear wipes all local data after an explicit confirmation.
func (a *App) Clear(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to wipe all local data", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Aborted")
		return nil
	}
	a.session.ClearAll(ctx)

	// the remote day log is append-only audit history and stays, but the
	// session sheet mirrors this station and goes with the data
	if a.client != nil && a.sync != nil {
		if err := a.client.DeleteSession(ctx, a.passcode, a.sync.SessionID()); err != nil {
			printlnFn("Remote session sheet not deleted:", err)
		}
	}

	printlnFn("All local data cleared")
	return nil
}

func (a *App) ClearView(ctx context.Context) error {
	a.session.ClearView()
	printlnFn("Display cleared (data kept, 'all' brings it back)")
	return nil
}
