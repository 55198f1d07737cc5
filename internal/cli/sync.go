package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type createGistCmd struct {
	app *App
}

func (*createGistCmd) Name() string     { return "create-gist" }
func (*createGistCmd) Synopsis() string { return "upload the ledger to a new private gist" }
func (*createGistCmd) Usage() string {
	return `create-gist

  Creates a private GitHub gist holding the current ledger and prints its id.
  Set GIST_ID to that id to keep the gist in sync. Needs GITHUB_TOKEN.
`
}
func (*createGistCmd) SetFlags(*flag.FlagSet) {}

func (c *createGistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := c.app.gist()
	if err != nil {
		return c.app.failf("Error: %v", err)
	}
	defer g.Close()

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	id, err := g.Create(ctx, s.ledger.Snapshot())
	if err != nil {
		return c.app.failf("Error: %v", err)
	}

	fmt.Fprintf(c.app.Out, "created gist %s\n", id)
	return subcommands.ExitSuccess
}

type pullCmd struct {
	app *App
}

func (*pullCmd) Name() string     { return "pull" }
func (*pullCmd) Synopsis() string { return "replace the local ledger with the gist" }
func (*pullCmd) Usage() string {
	return `pull

  Downloads the ledger from the gist named by GIST_ID and replaces the
  local copy.
`
}
func (*pullCmd) SetFlags(*flag.FlagSet) {}

func (c *pullCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.Config.SyncEnabled() {
		return c.app.failf("Error: GITHUB_TOKEN and GIST_ID must be set")
	}
	g, err := c.app.gist()
	if err != nil {
		return c.app.failf("Error: %v", err)
	}
	defer g.Close()

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	if err := s.ledger.Load(ctx, g); err != nil {
		return c.app.failf("Error: %v", err)
	}
	// Save locally only; the gist already has this data.
	if err := s.ledger.Save(ctx, s.store); err != nil {
		return c.app.failf("Error saving ledger: %v", err)
	}

	fmt.Fprintf(c.app.Out, "pulled %d users, %d expenses, %d settlements\n",
		len(s.ledger.Users()), len(s.ledger.Expenses()), len(s.ledger.Settlements()))
	return subcommands.ExitSuccess
}

type pushCmd struct {
	app *App
}

func (*pushCmd) Name() string     { return "push" }
func (*pushCmd) Synopsis() string { return "upload the local ledger to the gist" }
func (*pushCmd) Usage() string {
	return `push

  Overwrites the gist named by GIST_ID with the local ledger.
`
}
func (*pushCmd) SetFlags(*flag.FlagSet) {}

func (c *pushCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.Config.SyncEnabled() {
		return c.app.failf("Error: GITHUB_TOKEN and GIST_ID must be set")
	}
	g, err := c.app.gist()
	if err != nil {
		return c.app.failf("Error: %v", err)
	}
	defer g.Close()

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	if err := s.ledger.Save(ctx, g); err != nil {
		return c.app.failf("Error: %v", err)
	}

	fmt.Fprintln(c.app.Out, "pushed")
	return subcommands.ExitSuccess
}
