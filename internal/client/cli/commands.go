package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arthlor/yeser/internal/client/models"
)

// reportStoreErr prints the store's translated message, never raw errors.
func (a *App) reportStoreErr() {
	if err := a.entries.Err(); err != nil {
		fmt.Fprintln(a.out, err.Message)
	}
}

func (a *App) Login(ctx context.Context) error {
	token, err := GetSecret("Paste access token", a.out)
	if err != nil {
		return err
	}

	if err := a.sess.SetToken(token); err != nil {
		a.log.Warn(ctx, "rejected token at login", "err", err)
		fmt.Fprintln(a.out, "That token does not look valid. Please sign in again.")
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", a.sess.UserID())

	if a.entries.FetchAll(ctx) {
		fmt.Fprintf(a.out, "Loaded %d days\n", len(a.entries.Entries()))
	} else {
		a.reportStoreErr()
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.sess.Clear()
	fmt.Fprintln(a.out, "Signed out. Local cache cleared.")
	return nil
}

func (a *App) printEntry(date string, entry *models.Entry) {
	if entry == nil {
		fmt.Fprintf(a.out, "%s: no entry\n", date)
		return
	}
	fmt.Fprintf(a.out, "%s:\n", date)
	for i, s := range entry.Statements {
		fmt.Fprintf(a.out, "  %d. %s\n", i, s)
	}
}

func (a *App) showDate(ctx context.Context, date string) error {
	if !a.entries.FetchByDate(ctx, date) {
		a.reportStoreErr()
		return nil
	}
	entry, _ := a.entries.Entry(date)
	a.printEntry(date, entry)
	return nil
}

func (a *App) Today(ctx context.Context) error {
	return a.showDate(ctx, models.Today())
}

func (a *App) Show(ctx context.Context, date string) error {
	return a.showDate(ctx, date)
}

func (a *App) All(ctx context.Context) error {
	if !a.entries.FetchAll(ctx) {
		a.reportStoreErr()
		return nil
	}
	for date, entry := range a.entries.Entries() {
		if entry != nil {
			fmt.Fprintf(a.out, "%s  (%d statements)\n", date, len(entry.Statements))
		}
	}
	return nil
}

func (a *App) Add(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		var err error
		text, err = GetSimpleText(a.reader, "What are you grateful for today?", a.out)
		if err != nil {
			return err
		}
	}

	entry, ok := a.entries.AppendStatement(ctx, models.Today(), text)
	if !ok {
		a.reportStoreErr()
		return nil
	}
	a.printEntry(entry.Date, entry)
	return nil
}

func parseIndex(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("missing index")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("bad index %q", args[0])
	}
	return i, args[1:], nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	i, rest, err := parseIndex(args)
	if err != nil || len(rest) == 0 {
		fmt.Fprintln(a.out, "Usage: edit <index> <new text>")
		return nil
	}

	entry, ok := a.entries.EditStatementAt(ctx, models.Today(), i, strings.Join(rest, " "))
	if !ok {
		a.reportStoreErr()
		return nil
	}
	a.printEntry(models.Today(), entry)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	i, _, err := parseIndex(args)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: rm <index>")
		return nil
	}

	entry, ok := a.entries.RemoveStatementAt(ctx, models.Today(), i)
	if !ok {
		a.reportStoreErr()
		return nil
	}
	a.printEntry(models.Today(), entry)
	return nil
}

func (a *App) DeleteDay(ctx context.Context, date string) error {
	if !a.entries.DeleteEntry(ctx, date) {
		a.reportStoreErr()
		return nil
	}
	fmt.Fprintf(a.out, "Deleted %s\n", date)
	return nil
}

func (a *App) Streak(ctx context.Context) error {
	streak, ok := a.streak.Refresh(ctx)
	if !ok {
		if err := a.streak.Err(); err != nil {
			fmt.Fprintln(a.out, err.Message)
		}
		return nil
	}
	fmt.Fprintf(a.out, "Current streak: %d days (best: %d)\n", streak.CurrentStreak, streak.LongestStreak)
	return nil
}

func (a *App) Avatar(ctx context.Context) error {
	profile, err := a.gw.FetchProfile(ctx)
	if err != nil {
		a.log.Warn(ctx, "profile fetch failed", "err", err)
		fmt.Fprintln(a.out, "Could not load your profile. Please try again.")
		return nil
	}
	if profile.AvatarPath == "" {
		fmt.Fprintln(a.out, "No avatar set.")
		return nil
	}

	url, err := a.avatars.AvatarURL(ctx, profile.AvatarPath, 128)
	if err != nil {
		fmt.Fprintln(a.out, "Could not sign the avatar URL. Please try again.")
		return nil
	}
	fmt.Fprintln(a.out, url)
	return nil
}
