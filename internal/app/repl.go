package app

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the prompt loop needs.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Year(ctx context.Context, args []string) error
	Paint(ctx context.Context, args []string) error
	Erase(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
}

// runREPL starts the interactive read-eval-print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts:
//
//	help                            — show available commands
//	login                           — paste a session token and enable sync
//	logout                          — drop the session, sync goes dormant
//	status                          — identity, year, phase, device, last sync
//	year <yyyy>                     — switch the active year
//	paint <date|mm-dd> <color> [note...] — annotate a day
//	erase <date|mm-dd>              — clear a day
//	show [month]                    — render the year, or one month
//	sync                            — manual pull followed by push
//	exit | quit                     — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own feedback. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("px %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: paint, erase, (s)how, year, status, sync, logout, exit")
			} else {
				printlnFn("Available commands: paint, erase, (s)how, year, status, login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "year":
			if len(args) == 0 {
				printlnFn("Usage: year <yyyy>")
				continue
			}
			_ = a.Year(ctx, args)

		case "paint", "p":
			if len(args) < 2 {
				printlnFn("Usage: paint <date|mm-dd> <color> [note...]")
				continue
			}
			_ = a.Paint(ctx, args)

		case "erase", "e":
			if len(args) == 0 {
				printlnFn("Usage: erase <date|mm-dd>")
				continue
			}
			_ = a.Erase(ctx, args)

		case "s", "show":
			_ = a.Show(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
