package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Scan(ctx context.Context, code string) error
	List(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Date(ctx context.Context, date string) error
	Today(ctx context.Context) error
	All(ctx context.Context) error
	Remove(ctx context.Context, code string) error
	Deleted(ctx context.Context) error
	Count(ctx context.Context) error
	Export(ctx context.Context, format, path string) error
	Import(ctx context.Context, path string) error
	Load(ctx context.Context, date string) error
	SyncNow(ctx context.Context) error
	Clear(ctx context.Context) error
	ClearView(ctx context.Context) error
}

const helpText = `Available commands:
  <code>                        scan a barcode (any line that is not a command)
  list | l                      show the current list
  search <text>                 filter the list by code substring
  date <yyyy-mm-dd>             filter the list by scan day
  today                         filter the list to today
  all                           show the full list again
  remove <code>                 remove a code from the list
  deleted                       show removal history
  count                         show totals
  export csv|json|transfer <f>  write the list (or a transfer file) to f
  import <f>                    merge a previously exported file
  load <yyyy-mm-dd>             show what the endpoint logged for a day
  sync                          upload the pending batch now
  clearview                     empty the display without touching data
  clear                         wipe all local data
  exit | quit                   leave the program`

// runREPL reads a line, parses the first token as the command, and dispatches
// to methods on 'a'. Any line whose first token is not a known command is
// treated as a scanned barcode, which is what a scanner wired as a keyboard
// produces. The loop exits on reader EOF or when the user types "exit" or
// "quit".
//
// The reader must be the same one interactive confirmations read from.
// A second buffered layer over os.Stdin would read ahead and swallow the
// confirmation line.
//
// Errors returned by command handlers are ignored here; handlers report their
// own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("scan %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" && !dispatch(ctx, a, line) {
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one REPL line. Returns false when the loop should exit.
func dispatch(ctx context.Context, a execIface, line string) bool {
	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "help":
		printlnFn(helpText)

	case "l", "list":
		_ = a.List(ctx)

	case "search":
		if len(args) == 0 {
			printlnFn("Usage: search <text>")
			return true
		}
		_ = a.Search(ctx, strings.Join(args, " "))

	case "date":
		if len(args) == 0 {
			printlnFn("Usage: date <yyyy-mm-dd>")
			return true
		}
		_ = a.Date(ctx, args[0])

	case "today":
		_ = a.Today(ctx)

	case "all":
		_ = a.All(ctx)

	case "remove":
		if len(args) == 0 {
			printlnFn("Usage: remove <code>")
			return true
		}
		_ = a.Remove(ctx, args[0])

	case "deleted":
		_ = a.Deleted(ctx)

	case "count":
		_ = a.Count(ctx)

	case "export":
		if len(args) < 2 {
			printlnFn("Usage: export csv|json|transfer <file>")
			return true
		}
		_ = a.Export(ctx, args[0], args[1])

	case "import":
		if len(args) == 0 {
			printlnFn("Usage: import <file>")
			return true
		}
		_ = a.Import(ctx, args[0])

	case "load":
		if len(args) == 0 {
			printlnFn("Usage: load <yyyy-mm-dd>")
			return true
		}
		_ = a.Load(ctx, args[0])

	case "sync":
		_ = a.SyncNow(ctx)

	case "clearview":
		_ = a.ClearView(ctx)

	case "clear":
		_ = a.Clear(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return false

	default:
		_ = a.Scan(ctx, line)
	}
	return true
}
