package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Google(ctx context.Context) error
	Callback(ctx context.Context, callbackURL string) error
	Open(ctx context.Context, address string) error
	Routes()
	Whoami()
	Refresh(ctx context.Context)
	Logout(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits at end of input or on "exit" / "quit".
//
//	Always:
//	  - help               show available commands
//	  - open <path>        open a view (alias: go)
//	  - routes             list known views
//	  - whoami             show the signed-in user
//	  - refresh            re-check the session with the backend
//	  - exit | quit        leave the program
//
//	Signed out:
//	  - register           create an account
//	  - login              sign in with email and password
//	  - google             sign in through the identity provider
//	  - callback <url>     finish a provider sign-in from a pasted redirect URL
//
//	Signed in:
//	  - logout             sign out
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("padho %s> ", statusFn()))
		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: open <path>, routes, whoami, refresh, logout, exit")
			} else {
				printlnFn("Available commands: register, login, google, callback <url>, open <path>, routes, whoami, refresh, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.Google(ctx)

		case "callback":
			if len(args) == 0 {
				printlnFn("Usage: callback <url>")
				continue
			}
			_ = a.Callback(ctx, args[0])

		case "open", "go":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "routes":
			a.Routes()

		case "whoami":
			a.Whoami()

		case "refresh":
			a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// readLine returns the next line without its terminator. A final line with
// no newline is still returned; ok is false only when nothing was read.
func readLine(reader *bufio.Reader) (string, bool) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), true
		}
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}
