package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/ledger"
	"github.com/mmynk/spliteasy/internal/models"
)

type expensesCmd struct {
	app *App
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "list expenses" }
func (*expensesCmd) Usage() string {
	return `expenses

  Lists expenses in the order they were recorded.
`
}
func (*expensesCmd) SetFlags(*flag.FlagSet) {}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	names := s.names()
	w := tabwriter.NewWriter(c.app.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tPAID BY\tSPLIT\tID")
	for _, e := range s.ledger.Expenses() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Date, e.Description, c.app.format(e.Amount), name(names, e.Payer),
			formatShares(names, e.Participants), e.ID)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

// expenseFlags are the flags shared by add-expense and edit-expense.
type expenseFlags struct {
	description string
	amount      string
	payer       string
	with        string
	date        string
}

func (e *expenseFlags) set(f *flag.FlagSet) {
	f.StringVar(&e.description, "d", "", "description")
	f.StringVar(&e.amount, "a", "", "total amount")
	f.StringVar(&e.payer, "p", "", "user who paid (id or name)")
	f.StringVar(&e.with, "with", "", "participants: user[:amount],... (no amount means an equal share)")
	f.StringVar(&e.date, "date", "", "date as YYYY-MM-DD (default today)")
}

// apply overwrites in with every flag that was given.
func (e *expenseFlags) apply(s *session, in *ledger.ExpenseInput) error {
	if e.description != "" {
		in.Description = e.description
	}
	if e.amount != "" {
		d, err := decimal.NewFromString(e.amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", e.amount, err)
		}
		in.Amount = d
	}
	if e.payer != "" {
		id, err := s.resolveUser(e.payer)
		if err != nil {
			return err
		}
		in.Payer = id
	}
	if e.with != "" {
		specs, err := parseShareSpecs(e.with)
		if err != nil {
			return err
		}
		if in.Participants, err = s.shares(specs); err != nil {
			return err
		}
	}
	if e.date != "" {
		d, err := models.ParseDate(e.date)
		if err != nil {
			return err
		}
		in.Date = d
	}
	return nil
}

type addExpenseCmd struct {
	app   *App
	flags expenseFlags
}

func (*addExpenseCmd) Name() string     { return "add-expense" }
func (*addExpenseCmd) Synopsis() string { return "record an expense" }
func (*addExpenseCmd) Usage() string {
	return `add-expense -d <description> -a <amount> -p <payer> -with <user[:amount],...> [-date YYYY-MM-DD]

  Records an expense paid by one user and shared by the listed participants.
  Participants without an amount split whatever the fixed amounts leave over.
  Example: add-expense -d Dinner -a 120 -p asha -with asha,bilal,chen:30
`
}

func (c *addExpenseCmd) SetFlags(f *flag.FlagSet) {
	c.flags.set(f)
}

func (c *addExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.flags.amount == "" {
		return c.app.usagef("add-expense needs -a")
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	var in ledger.ExpenseInput
	if err := c.flags.apply(s, &in); err != nil {
		return c.app.failf("Error: %v", err)
	}

	e, err := s.ledger.AddExpense(in)
	if err != nil {
		return c.app.failf("Error adding expense: %v", err)
	}
	if err := s.commit(ctx); err != nil {
		return c.app.failf("Error saving ledger: %v", err)
	}

	fmt.Fprintf(c.app.Out, "added %s %s (%s)\n", e.Description, c.app.format(e.Amount), e.ID)
	return subcommands.ExitSuccess
}

type rmExpenseCmd struct {
	app *App
}

func (*rmExpenseCmd) Name() string     { return "rm-expense" }
func (*rmExpenseCmd) Synopsis() string { return "delete an expense" }
func (*rmExpenseCmd) Usage() string {
	return `rm-expense <id>

  Deletes an expense.
`
}
func (*rmExpenseCmd) SetFlags(*flag.FlagSet) {}

func (c *rmExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usagef("rm-expense needs exactly one expense id")
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	if err := s.ledger.RemoveExpense(f.Arg(0)); err != nil {
		return c.app.failf("Error removing expense: %v", err)
	}
	if err := s.commit(ctx); err != nil {
		return c.app.failf("Error saving ledger: %v", err)
	}

	fmt.Fprintf(c.app.Out, "removed %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}

type editExpenseCmd struct {
	app   *App
	flags expenseFlags
}

func (*editExpenseCmd) Name() string     { return "edit-expense" }
func (*editExpenseCmd) Synopsis() string { return "change an expense" }
func (*editExpenseCmd) Usage() string {
	return `edit-expense [-d ...] [-a ...] [-p ...] [-with ...] [-date ...] <id>

  Replaces an expense. Fields without a flag keep their current value.
  The edited expense gets a new id.
`
}

func (c *editExpenseCmd) SetFlags(f *flag.FlagSet) {
	c.flags.set(f)
}

func (c *editExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usagef("edit-expense needs exactly one expense id")
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	in, err := s.ledger.TakeExpense(f.Arg(0))
	if err != nil {
		return c.app.failf("Error: %v", err)
	}
	if err := c.flags.apply(s, &in); err != nil {
		return c.app.failf("Error: %v", err)
	}

	// Nothing is saved on failure, so the stored expense is unchanged.
	e, err := s.ledger.AddExpense(in)
	if err != nil {
		return c.app.failf("Error updating expense: %v", err)
	}
	if err := s.commit(ctx); err != nil {
		return c.app.failf("Error saving ledger: %v", err)
	}

	fmt.Fprintf(c.app.Out, "updated %s %s (%s)\n", e.Description, c.app.format(e.Amount), e.ID)
	return subcommands.ExitSuccess
}
