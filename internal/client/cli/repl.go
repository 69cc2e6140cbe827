package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context, nature models.Nature, args []string) error
	List(ctx context.Context) error
	Assets(ctx context.Context) error
	Liabilities(ctx context.Context) error
	Totals(ctx context.Context) error
	Settle(ctx context.Context, args []string) error
	Unmark(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Sync(ctx context.Context, force bool) error
	Link(ctx context.Context) error
	Pair(ctx context.Context) error
	Unlink(ctx context.Context) error
}

const helpText = `Available commands:
  add <amount> <description>        record a cash entry
  asset <amount> <description>      record money lent out
  liability <amount> <description>  record money owed
  (l)ist                            list all entries
  assets | liabilities              list open obligations
  total                             show balance and obligation totals
  settle <timestamp>                settle an obligation
  unmark <timestamp>                reclassify an obligation as normal
  (del)ete <timestamp>              delete an entry
  search <text>                     search descriptions
  sync | syncf                      sync now (syncf force-pushes)
  link | pair | unlink              manage device pairing
  exit | quit                       leave the program`

// runREPL starts a simple read-eval-print loop for the MoneyLog CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ml %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "add":
			_ = a.Add(ctx, models.NatureNormal, args)

		case "asset":
			_ = a.Add(ctx, models.NatureAsset, args)

		case "liability", "liab":
			_ = a.Add(ctx, models.NatureLiability, args)

		case "l", "list":
			_ = a.List(ctx)

		case "assets":
			_ = a.Assets(ctx)

		case "liabilities":
			_ = a.Liabilities(ctx)

		case "total", "balance":
			_ = a.Totals(ctx)

		case "settle":
			_ = a.Settle(ctx, args)

		case "unmark":
			_ = a.Unmark(ctx, args)

		case "del", "delete":
			_ = a.Delete(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "sync":
			_ = a.Sync(ctx, false)

		case "syncf":
			_ = a.Sync(ctx, true)

		case "link":
			_ = a.Link(ctx)

		case "pair":
			_ = a.Pair(ctx)

		case "unlink":
			_ = a.Unlink(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
