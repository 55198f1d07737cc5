// Package cli implements the spliteasy command line tool.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/amount"
	"github.com/mmynk/spliteasy/internal/config"
	"github.com/mmynk/spliteasy/internal/ledger"
	"github.com/mmynk/spliteasy/internal/storage"
	"github.com/mmynk/spliteasy/internal/storage/gist"
)

// App is the state shared by all commands.
type App struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer

	// Ledger options, e.g. a fixed clock in tests.
	LedgerOptions []ledger.Option
}

// NewApp returns an App writing to stdout and stderr.
func NewApp(cfg *config.Config) *App {
	return &App{Config: cfg, Out: os.Stdout, Err: os.Stderr}
}

// BindFlags adds the global flags that override configuration.
func (a *App) BindFlags(f *flag.FlagSet) {
	f.StringVar(&a.Config.Store, "store", a.Config.Store, "primary store: json, sqlite or redis")
	f.StringVar(&a.Config.DataFile, "data-file", a.Config.DataFile, "path of the JSON document (json store)")
	f.StringVar(&a.Config.DBPath, "db", a.Config.DBPath, "path of the SQLite database (sqlite store)")
	f.StringVar(&a.Config.RedisURL, "redis", a.Config.RedisURL, "redis URL (redis store)")
	f.StringVar(&a.Config.Currency, "currency", a.Config.Currency, "currency code used to print amounts")
	f.StringVar(&a.Config.GistID, "gist", a.Config.GistID, "GitHub gist id used for sync")
}

// Register adds every command to c.
func Register(c *subcommands.Commander, a *App) {
	c.Register(&usersCmd{app: a}, "users")
	c.Register(&addUserCmd{app: a}, "users")
	c.Register(&rmUserCmd{app: a}, "users")

	c.Register(&expensesCmd{app: a}, "expenses")
	c.Register(&addExpenseCmd{app: a}, "expenses")
	c.Register(&rmExpenseCmd{app: a}, "expenses")
	c.Register(&editExpenseCmd{app: a}, "expenses")

	c.Register(&balancesCmd{app: a}, "settlements")
	c.Register(&settleCmd{app: a}, "settlements")
	c.Register(&confirmCmd{app: a}, "settlements")
	c.Register(&historyCmd{app: a}, "settlements")

	c.Register(&createGistCmd{app: a}, "sync")
	c.Register(&pullCmd{app: a}, "sync")
	c.Register(&pushCmd{app: a}, "sync")
}

// session is an open ledger and the store it came from.
type session struct {
	app    *App
	ledger *ledger.Ledger
	store  storage.Store
}

// open loads the ledger from the configured store.
func (a *App) open(ctx context.Context) (*session, error) {
	store, err := config.OpenStore(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	l := ledger.New(a.LedgerOptions...)
	if err := l.Load(ctx, store); err != nil {
		store.Close()
		return nil, err
	}
	return &session{app: a, ledger: l, store: store}, nil
}

// commit saves the ledger and pushes it to the gist when sync is configured.
// A failed push is reported but does not fail the command.
func (s *session) commit(ctx context.Context) error {
	if err := s.ledger.Save(ctx, s.store); err != nil {
		return err
	}
	if mirror := config.OpenMirror(s.app.Config); mirror != nil {
		defer mirror.Close()
		if err := s.ledger.Save(ctx, mirror); err != nil {
			slog.Warn("Gist sync failed", "error", err)
		}
	}
	return nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close store", "error", err)
	}
}

// gist returns a gist store for the configured token and gist id.
func (a *App) gist() (*gist.Store, error) {
	if a.Config.GitHubToken == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is not set")
	}
	return config.Gist(a.Config), nil
}

// resolveUser accepts a user id or a user name (ignoring case).
func (s *session) resolveUser(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	users := s.ledger.Users()
	for _, u := range users {
		if u.ID == ref {
			return u.ID, nil
		}
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, ref) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ledger.ErrUserNotFound, ref)
}

// names maps user ids to display names.
func (s *session) names() map[string]string {
	users := s.ledger.Users()
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

// name returns the display name of id, or the id for unknown users.
func name(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}

// format prints an amount in the configured currency.
func (a *App) format(d decimal.Decimal) string {
	return amount.Format(d, a.Config.Currency)
}

func (a *App) failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, format+"\n", args...)
	return subcommands.ExitFailure
}

func (a *App) usagef(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, format+"\n", args...)
	return subcommands.ExitUsageError
}
