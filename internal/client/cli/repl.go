package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL dispatches to. App
// satisfies it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Today(ctx context.Context) error
	Show(ctx context.Context, date string) error
	All(ctx context.Context) error
	Add(ctx context.Context, text string) error
	Edit(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	DeleteDay(ctx context.Context, date string) error
	Streak(ctx context.Context) error
	Avatar(ctx context.Context) error
}

// runREPL reads a line, takes the first token as the command and dispatches
// to a. Errors from handlers are ignored here; handlers report their own
// failures. The loop ends on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("yeser> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: today, show <date>, (a)ll, add <text>, edit <i> <text>, rm <i>, delete <date>, streak, avatar, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "today":
			_ = a.Today(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <YYYY-MM-DD>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "a", "all":
			_ = a.All(ctx)

		case "add":
			_ = a.Add(ctx, strings.Join(args, " "))

		case "edit":
			_ = a.Edit(ctx, args)

		case "rm":
			_ = a.Remove(ctx, args)

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <YYYY-MM-DD>")
				continue
			}
			_ = a.DeleteDay(ctx, args[0])

		case "streak":
			_ = a.Streak(ctx)

		case "avatar":
			_ = a.Avatar(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
