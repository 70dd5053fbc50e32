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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Verify(ctx context.Context) error
	Logout(ctx context.Context) error
	Categories(ctx context.Context) error
	AddCategory(ctx context.Context) error
	EditCategory(ctx context.Context, id string) error
	DeleteCategory(ctx context.Context, id string) error
	Comments(ctx context.Context, newsID string) error
	AddComment(ctx context.Context, newsID string) error
	EPaper(ctx context.Context, date string) error
}

const (
	helpLoggedOut = "Available commands: login, categories, comments <newsID>, epaper [date], exit"
	helpLoggedIn  = "Available commands: whoami, verify, logout, categories, category-add, " +
		"category-edit <id>, category-delete <id>, comments <newsID>, comment <newsID>, epaper [date], exit"
)

// readCommand reads one line and splits it into fields. ok is false at EOF.
func readCommand(r *bufio.Reader) (fields []string, ok bool) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return nil, false
	}
	return strings.Fields(line), true
}

// runREPL reads commands from r and dispatches them to a until EOF or
// "exit"/"quit". Handlers report their own failures; errors returned here
// only concern terminal I/O and are dropped.
//
// Commands:
//
//	help                   show available commands
//	login                  request and enter a one-time code
//	whoami                 show the stored user
//	verify                 re-validate the stored token
//	logout                 clear the session
//	categories             list categories (all of them for admins)
//	category-add           create a category (admin)
//	category-edit <id>     update a category (admin)
//	category-delete <id>   delete a category (admin)
//	comments <newsID>      list comments of an article
//	comment <newsID>       post a comment
//	epaper [date]          open the e-paper viewer
//	exit | quit            leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("news %s> ", statusFn()))
		parts, ok := readCommand(r)
		if !ok {
			return
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "categories":
			_ = a.Categories(ctx)

		case "category-add":
			_ = a.AddCategory(ctx)

		case "category-edit":
			if len(args) == 0 {
				printlnFn("Usage: category-edit <id>")
				continue
			}
			_ = a.EditCategory(ctx, args[0])

		case "category-delete":
			if len(args) == 0 {
				printlnFn("Usage: category-delete <id>")
				continue
			}
			_ = a.DeleteCategory(ctx, args[0])

		case "comments":
			if len(args) == 0 {
				printlnFn("Usage: comments <newsID>")
				continue
			}
			_ = a.Comments(ctx, args[0])

		case "comment":
			if len(args) == 0 {
				printlnFn("Usage: comment <newsID>")
				continue
			}
			_ = a.AddComment(ctx, args[0])

		case "epaper":
			date := ""
			if len(args) > 0 {
				date = args[0]
			}
			_ = a.EPaper(ctx, date)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
