package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/amount"
	"github.com/mmynk/spliteasy/internal/calculator"
	"github.com/mmynk/spliteasy/internal/ledger"
)

type balancesCmd struct {
	app *App
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "show what everyone owes or is owed" }
func (*balancesCmd) Usage() string {
	return `balances

  Shows each user's net position after confirmed settlements.
`
}
func (*balancesCmd) SetFlags(*flag.FlagSet) {}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	positions, err := s.ledger.Balances()
	if err != nil {
		return c.app.failf("Error computing balances: %v", err)
	}

	names := s.names()
	w := tabwriter.NewWriter(c.app.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for id, v := range positions.All() {
		status := "settled"
		switch {
		case amount.Positive(v):
			status = "owes"
		case amount.Positive(v.Neg()):
			status = "is owed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", name(names, id), c.app.format(v.Abs()), status)
	}
	w.Flush()

	if positions.Settled() {
		fmt.Fprintln(c.app.Out, "All settled up!")
	}
	return subcommands.ExitSuccess
}

type settleCmd struct {
	app      *App
	detailed bool
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "suggest payments that settle the group" }
func (*settleCmd) Usage() string {
	return `settle [-detailed]

  Suggests payments. The default nets everyone's balance and pairs debtors
  with creditors; -detailed settles each pair of users who shared expenses
  separately and ignores confirmed settlements.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.detailed, "detailed", false, "one payment per pair of users who shared expenses")
}

func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	strategy := calculator.Simplified
	if c.detailed {
		strategy = calculator.Detailed
	}
	proposals, err := s.ledger.ProposeSettlements(strategy)
	if err != nil {
		return c.app.failf("Error computing settlements: %v", err)
	}
	if len(proposals) == 0 {
		fmt.Fprintln(c.app.Out, "All settled up!")
		return subcommands.ExitSuccess
	}

	names := s.names()
	w := tabwriter.NewWriter(c.app.Out, 0, 4, 2, ' ', 0)
	for _, p := range proposals {
		fmt.Fprintf(w, "%s\tpays\t%s\t%s\n", name(names, p.From), name(names, p.To), c.app.format(p.Amount))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type confirmCmd struct {
	app    *App
	from   string
	to     string
	amount string
}

func (*confirmCmd) Name() string     { return "confirm" }
func (*confirmCmd) Synopsis() string { return "record a payment between two users" }
func (*confirmCmd) Usage() string {
	return `confirm -from <user> -to <user> -a <amount>

  Records that one user paid another. Confirmed payments cannot be edited.
`
}

func (c *confirmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "user who paid (id or name)")
	f.StringVar(&c.to, "to", "", "user who received the money (id or name)")
	f.StringVar(&c.amount, "a", "", "amount paid")
}

func (c *confirmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" || c.amount == "" {
		return c.app.usagef("confirm needs -from, -to and -a")
	}
	amt, err := decimal.NewFromString(c.amount)
	if err != nil {
		return c.app.usagef("invalid amount %q: %v", c.amount, err)
	}

	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	from, err := s.resolveUser(c.from)
	if err != nil {
		return c.app.failf("Error: %v", err)
	}
	to, err := s.resolveUser(c.to)
	if err != nil {
		return c.app.failf("Error: %v", err)
	}

	settlement, err := s.ledger.ConfirmSettlement(from, to, amt)
	if err != nil {
		return c.app.failf("Error confirming settlement: %v", err)
	}
	if err := s.commit(ctx); err != nil {
		return c.app.failf("Error saving ledger: %v", err)
	}

	names := s.names()
	fmt.Fprintf(c.app.Out, "%s paid %s %s\n", name(names, from), name(names, to), c.app.format(settlement.Amount))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	app   *App
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list expenses and payments, newest first" }
func (*historyCmd) Usage() string {
	return `history [-n <count>]

  Lists expenses and confirmed payments, newest first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "show at most this many entries (0 for all)")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.open(ctx)
	if err != nil {
		return c.app.failf("Error opening ledger: %v", err)
	}
	defer s.close()

	names := s.names()
	w := tabwriter.NewWriter(c.app.Out, 0, 4, 2, ' ', 0)
	n := 0
	for entry := range s.ledger.History() {
		if c.limit > 0 && n >= c.limit {
			break
		}
		n++
		switch entry.Kind {
		case ledger.KindExpense:
			e := entry.Expense
			fmt.Fprintf(w, "%s\t%s\t%s\tpaid by %s\n", entry.Date, e.Description, c.app.format(e.Amount), name(names, e.Payer))
		case ledger.KindSettlement:
			st := entry.Settlement
			fmt.Fprintf(w, "%s\tpayment\t%s\t%s → %s\n", entry.Date, c.app.format(st.Amount), name(names, st.From), name(names, st.To))
		}
	}
	w.Flush()
	return subcommands.ExitSuccess
}
