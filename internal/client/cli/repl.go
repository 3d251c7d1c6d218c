package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Show(ctx context.Context)

	Go(ctx context.Context, where string) error
	Back(ctx context.Context) error
	Refresh(ctx context.Context) error

	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error

	AddHobby(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Filter(ctx context.Context, category string) error
	Open(ctx context.Context, n string) error

	AddGoal(ctx context.Context) error
	SetProgress(ctx context.Context, n, progress string) error
	DeleteGoal(ctx context.Context, n string) error
	AddNote(ctx context.Context) error
	AddResource(ctx context.Context) error

	SetName(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: go <home|login|signup|dashboard|profile>, back, login, signup, exit"
	helpSignedIn  = "Available commands: go <home|dashboard|profile|/hobby/ID>, back, refresh, " +
		"addhobby, search [text], filter [category], open <n>, " +
		"addgoal, progress <n> <0-100>, rmgoal <n>, addnote, addresource, " +
		"setname, logout, exit"
)

// runREPL starts a read–eval–print loop over the client's pages.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'; the current page is shown again after every
// command that ran. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Commands that act on a page (addhobby, addgoal, ...) fail when a different
// page is showing. Errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mpp %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "go":
			if len(args) != 1 {
				printlnFn("Usage: go <where>")
				continue
			}
			cmdErr = a.Go(ctx, args[0])
		case "back":
			cmdErr = a.Back(ctx)
		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "login":
			cmdErr = a.Login(ctx)
		case "signup", "register":
			cmdErr = a.Signup(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)

		case "addhobby":
			cmdErr = a.AddHobby(ctx)
		case "search":
			cmdErr = a.Search(ctx, strings.Join(args, " "))
		case "filter":
			cmdErr = a.Filter(ctx, strings.Join(args, " "))
		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <n>")
				continue
			}
			cmdErr = a.Open(ctx, args[0])

		case "addgoal":
			cmdErr = a.AddGoal(ctx)
		case "progress":
			if len(args) != 2 {
				printlnFn("Usage: progress <n> <0-100>")
				continue
			}
			cmdErr = a.SetProgress(ctx, args[0], args[1])
		case "rmgoal":
			if len(args) != 1 {
				printlnFn("Usage: rmgoal <n>")
				continue
			}
			cmdErr = a.DeleteGoal(ctx, args[0])
		case "addnote":
			cmdErr = a.AddNote(ctx)
		case "addresource":
			cmdErr = a.AddResource(ctx)

		case "setname":
			cmdErr = a.SetName(ctx)

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		a.Show(ctx)
	}
}
