package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	List(ctx context.Context) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	GoToPage(ctx context.Context, arg string) error
	Find(ctx context.Context, text string) error
	FilterStatus(ctx context.Context, arg string) error
	FilterCategory(ctx context.Context, arg string) error

	AddTask(ctx context.Context) error
	EditTask(ctx context.Context, arg string) error
	ToggleDone(ctx context.Context, arg string) error
	DeleteTask(ctx context.Context, arg string) error
	ShareTask(ctx context.Context, arg string) error

	AddCategory(ctx context.Context) error
	EditCategory(ctx context.Context, arg string) error
	DeleteCategory(ctx context.Context, arg string) error
}

const loggedOutHelp = "Available commands: register, login, exit"

const loggedInHelp = `Available commands:
  list (l)          show the current task page
  next (n), prev (p), page N
  find [TEXT]       text filter (empty clears)
  status [all|done|pending]
  cat [N|-]         category filter (- clears)
  add               create a task
  edit N            edit a task
  done N            toggle completion
  del N             delete a task (asks for confirmation)
  share N           share a task with another user
  addcat, editcat N, delcat N
  logout, exit`

// runREPL starts a read-eval-print loop for the TaskMaster CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, context cancellation, or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "tm %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, loggedInHelp)
			} else {
				fmt.Fprintln(w, loggedOutHelp)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "n", "next":
			_ = a.NextPage(ctx)

		case "p", "prev":
			_ = a.PrevPage(ctx)

		case "page":
			_ = a.GoToPage(ctx, arg)

		case "find":
			_ = a.Find(ctx, arg)

		case "status":
			_ = a.FilterStatus(ctx, arg)

		case "cat":
			_ = a.FilterCategory(ctx, arg)

		case "add":
			_ = a.AddTask(ctx)

		case "edit":
			_ = a.EditTask(ctx, arg)

		case "done":
			_ = a.ToggleDone(ctx, arg)

		case "del":
			_ = a.DeleteTask(ctx, arg)

		case "share":
			_ = a.ShareTask(ctx, arg)

		case "addcat":
			_ = a.AddCategory(ctx)

		case "editcat":
			_ = a.EditCategory(ctx, arg)

		case "delcat":
			_ = a.DeleteCategory(ctx, arg)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
