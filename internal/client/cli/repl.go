package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Files(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Download(ctx context.Context, id string) error
	DeleteFile(ctx context.Context, id string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	AddAddress(ctx context.Context) error
	EditAddress(ctx context.Context, id string) error
	DeleteAddress(ctx context.Context, id string) error
}

const helpLoggedOut = "Available commands: register, login, exit"

const helpLoggedIn = "Available commands: dashboard, files, upload <path>, download <id>, rm <id>, " +
	"profile, edit-profile, add-address, edit-address <id>, rm-address <id>, whoami, logout, exit"

// runREPL starts a simple read–eval–print loop for the filedesk CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a; the rest of the line is the argument. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the signed-in username (from statusFn) and accepts:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - dashboard      — file statistics
//	  - files | ls     — list files
//	  - upload <path>  — upload a local file
//	  - download <id>  — save a file to the download directory
//	  - rm <id>        — delete a file
//	  - profile        — show profile and addresses
//	  - edit-profile   — change profile fields
//	  - add-address, edit-address <id>, rm-address <id>
//	  - whoami         — show the signed-in user
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Protected commands typed while logged out are sent through the route
// guard, which redirects to login. Errors returned by command handlers are
// ignored here; handlers print their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printFn(fmt.Sprintf("filedesk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "dashboard", "dash":
			_ = a.Dashboard(ctx)

		case "files", "ls", "l":
			_ = a.Files(ctx)

		case "upload":
			_ = a.Upload(ctx, arg)

		case "download", "get":
			if arg == "" {
				printlnFn("Usage: download <id>")
				continue
			}
			_ = a.Download(ctx, arg)

		case "rm", "delete":
			if arg == "" {
				printlnFn("Usage: rm <id>")
				continue
			}
			_ = a.DeleteFile(ctx, arg)

		case "profile":
			_ = a.Profile(ctx)

		case "edit-profile":
			_ = a.EditProfile(ctx)

		case "add-address":
			_ = a.AddAddress(ctx)

		case "edit-address":
			if arg == "" {
				printlnFn("Usage: edit-address <id>")
				continue
			}
			_ = a.EditAddress(ctx, arg)

		case "rm-address":
			if arg == "" {
				printlnFn("Usage: rm-address <id>")
				continue
			}
			_ = a.DeleteAddress(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			// EOF after a final unterminated line
			return
		}
	}
}
