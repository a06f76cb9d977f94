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
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Health(ctx context.Context) error
	Upload(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Retitle(ctx context.Context) error
	Delete(ctx context.Context) error
	Chapters(ctx context.Context) error
	AddChapter(ctx context.Context) error
	DeleteChapter(ctx context.Context) error
	Compile(ctx context.Context) error
	Watch(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the MemoirVault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - health         — probe backend reachability
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - upload         — upload an audio recording
//	  - list           — list recordings in a chapter
//	  - show           — show a single recording (interactive ID prompt)
//	  - retitle        — rename a recording
//	  - delete         — delete a recording
//	  - chapters       — list chapters
//	  - addchapter     — add a chapter
//	  - delchapter     — delete a chapter
//	  - compile        — compile a chapter into a story
//	  - watch          — watch a folder for new audio files
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mv> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, (l)ist, show, retitle, delete, chapters, addchapter, delchapter, compile, watch, logout, exit")
			} else {
				printlnFn("Available commands: register, login, health, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "health":
			_ = a.Health(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "retitle":
			_ = a.Retitle(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "chapters":
			_ = a.Chapters(ctx)

		case "addchapter":
			_ = a.AddChapter(ctx)

		case "delchapter":
			_ = a.DeleteChapter(ctx)

		case "compile":
			_ = a.Compile(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
