// Package cli wires the data layer together and drives it from an
// interactive prompt.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/arthlor/yeser/internal/client/assets"
	"github.com/arthlor/yeser/internal/client/config"
	"github.com/arthlor/yeser/internal/client/gateway"
	"github.com/arthlor/yeser/internal/client/localdb"
	"github.com/arthlor/yeser/internal/client/repositories/entries"
	"github.com/arthlor/yeser/internal/client/session"
	"github.com/arthlor/yeser/internal/client/store"
	"github.com/arthlor/yeser/internal/client/urlcache"
	"github.com/arthlor/yeser/internal/client/validation"
	"github.com/arthlor/yeser/internal/logging"
)

// App is the composition root: every store is constructed here once and
// passed its collaborators explicitly.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	sess    *session.Session
	gw      gateway.Gateway
	entries *store.EntryStore
	streak  *store.StreakStore
	avatars *assets.AvatarService
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	va := validation.New(log)
	gw := gateway.NewHTTPGateway(cfg.BackendURL, cfg.BackendAPIKey, cfg.RequestTimeout, sess, va, log)

	repo := entries.NewSQLiteRepository(db)
	entryStore := store.NewEntryStore(ctx, gw, repo, va, sess, log)
	streakStore := store.NewStreakStore(gw, sess, log)

	signer := assets.NewSigner(cfg.Storage)
	avatars := assets.NewAvatarService(signer, urlcache.New(), log)

	return &App{
		config:  cfg,
		log:     log,
		db:      db,
		sess:    sess,
		gw:      gw,
		entries: entryStore,
		streak:  streakStore,
		avatars: avatars,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.sess.Active()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.sess.UserID()
	}
	return "signed out"
}
