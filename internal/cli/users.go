package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type usersCmd struct {
	app *App
}

func (*usersCmd) Name() string     { return "users" }
func (*usersCmd) Synopsis() string { return "list users" }
func (*usersCmd) Usage() string {
	return `users

  Lists users in registration order.
`
}
func (*usersCmd) SetFlags(*flag.FlagSet) {}

func (c *usersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	w := tabwriter.NewWriter(c.app.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR")
	for _, u := range s.ledger.Users() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Name, u.Color)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type addUserCmd struct {
	app *App
}

func (*addUserCmd) Name() string     { return "add-user" }
func (*addUserCmd) Synopsis() string { return "register a user" }
func (*addUserCmd) Usage() string {
	return `add-user <name>...

  Registers one user per argument. Names are unique, ignoring case.
`
}
func (*addUserCmd) SetFlags(*flag.FlagSet) {}

func (c *addUserCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.app.usagef("add-user needs at least one name")
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	for _, n := range f.Args() {
		u, err := s.ledger.AddUser(n)
		if err != nil {
			return c.app.failf("Error adding %q: %v", n, err)
		}
		fmt.Fprintf(c.app.Out, "added %s (%s)\n", u.Name, u.ID)
	}

	if err := s.commit(ctx); err != nil {
		return c.app.failf("Error saving ledger: %v", err)
	}
	return subcommands.ExitSuccess
}

type rmUserCmd struct {
	app *App
}

func (*rmUserCmd) Name() string     { return "rm-user" }
func (*rmUserCmd) Synopsis() string { return "remove a user without expenses" }
func (*rmUserCmd) Usage() string {
	return `rm-user <user>

  Removes a user, given by id or name. Users who paid for or share an
  expense cannot be removed.
`
}
func (*rmUserCmd) SetFlags(*flag.FlagSet) {}

func (c *rmUserCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usagef("rm-user needs exactly one user")
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	id, err := s.resolveUser(f.Arg(0))
	if err != nil {
		return c.app.failf("Error: %v", err)
	}
	if err := s.ledger.RemoveUser(id); err != nil {
		return c.app.failf("Error removing user: %v", err)
	}
	if err := s.commit(ctx); err != nil {
		return c.app.failf("Error saving ledger: %v", err)
	}

	fmt.Fprintf(c.app.Out, "removed %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}
