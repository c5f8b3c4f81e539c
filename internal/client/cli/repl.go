package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Home(ctx context.Context) error
	Refresh(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error
	Stats(ctx context.Context) error
}

// guarded lists the commands that need a signed-in user.
var guarded = map[string]bool{
	"home":    true,
	"refresh": true,
	"edit":    true,
	"delete":  true,
}

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit"/"quit" or ctx cancellation.
//
//	Signed out:
//	  - help             show available commands
//	  - login            sign in
//	  - signup|register  create an account
//	  - stats            API call counters
//	  - exit|quit        leave the program
//
//	Signed in, additionally:
//	  - home             refresh and show the profile card
//	  - refresh          re-fetch the profile
//	  - edit             change username, email, status or password
//	  - delete           remove the account
//	  - logout           sign out
//
// A guarded command while signed out opens the login view instead. Handler
// errors are ignored here; handlers report to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("usuarios%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		if guarded[cmd] && !a.isLoggedIn() {
			printlnFn("Please sign in first.")
			_ = a.Login(ctx)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: home, refresh, edit, delete, logout, stats, exit")
			} else {
				printlnFn("Available commands: login, signup, stats, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "home":
			_ = a.Home(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
