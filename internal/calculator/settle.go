package calculator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/amount"
	"github.com/mmynk/spliteasy/internal/models"
)

// Strategy selects how proposed settlements are generated.
type Strategy string

const (
	// Simplified settles net positions greedily, debtors against creditors.
	Simplified Strategy = "simplified"
	// Detailed proposes one net transfer per pair of users who share expenses.
	Detailed Strategy = "detailed"
)

// ErrUnknownStrategy is returned for a strategy name that is neither
// Simplified nor Detailed.
var ErrUnknownStrategy = errors.New("unknown settlement strategy")

// ParseStrategy converts user input into a Strategy. The empty string means
// Simplified.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Simplified:
		return Simplified, nil
	case Detailed:
		return Detailed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// ComputeSettlements proposes transfers using the given strategy. Proposed
// settlements are dated at and never marked completed.
//
// Simplified takes confirmed settlements into account through the balances.
// Detailed works on raw expenses only and ignores them.
func ComputeSettlements(strategy Strategy, users []models.User, expenses []models.Expense, settlements []models.Settlement, at time.Time) ([]models.Settlement, error) {
	switch strategy {
	case Simplified:
		positions, err := ComputeBalances(users, expenses, settlements)
		if err != nil {
			return nil, err
		}
		return Simplify(positions, at), nil
	case Detailed:
		return Detail(expenses, at)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// party is a debtor or creditor with the amount still to settle.
type party struct {
	id        string
	remaining decimal.Decimal
}

// Simplify turns net positions into transfers that bring every position back
// to ~0.
//
// Algorithm:
//   - Debtors (position > tolerance) and creditors (position < -tolerance)
//     keep the enumeration order of positions; they are not sorted by size
//   - Match the first open debtor with the first open creditor and settle
//     min(debtor, creditor) between them
//   - Advance past whoever is down to ~0 and repeat until one side runs out
//
// This does not always reach the minimum number of transfers.
func Simplify(positions *Positions, at time.Time) []models.Settlement {
	var debtors, creditors []party
	for id, v := range positions.All() {
		switch {
		case amount.Positive(v):
			debtors = append(debtors, party{id: id, remaining: v})
		case amount.Positive(v.Neg()):
			creditors = append(creditors, party{id: id, remaining: v.Neg()})
		}
	}

	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		settle := decimal.Min(debtor.remaining, creditor.remaining)
		if !amount.IsZero(settle) {
			settlements = append(settlements, proposed(debtor.id, creditor.id, settle, at))
		}

		debtor.remaining = debtor.remaining.Sub(settle)
		creditor.remaining = creditor.remaining.Sub(settle)

		if amount.IsZero(debtor.remaining) {
			i++
		}
		if amount.IsZero(creditor.remaining) {
			j++
		}
	}

	return settlements
}

// pairKey is an unordered pair of users, lo sorting before hi.
type pairKey struct {
	lo, hi string
}

// Detail proposes one net transfer per pair of users with a direct
// expense-sharing relationship.
//
// Algorithm:
//   - Each participant other than the payer owes the payer their resolved share
//   - Debts are netted per unordered pair; positive means lo owes hi
//   - Pairs whose net exceeds the tolerance produce one settlement in the
//     direction of the sign, in the order the pairs were first seen
func Detail(expenses []models.Expense, at time.Time) ([]models.Settlement, error) {
	return detail(expenses, at, func(a, b string) bool { return a < b })
}

func detail(expenses []models.Expense, at time.Time, less func(a, b string) bool) ([]models.Settlement, error) {
	var order []pairKey
	nets := make(map[pairKey]decimal.Decimal)

	for _, e := range expenses {
		resolved, err := resolveShares(e.Amount, e.Participants)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve split for expense %s: %w", e.ID, err)
		}

		for _, r := range resolved {
			if r.UserID == e.Payer {
				continue
			}

			// r.UserID owes e.Payer.
			key, delta := pairKey{lo: r.UserID, hi: e.Payer}, r.Amount
			if !less(r.UserID, e.Payer) {
				key, delta = pairKey{lo: e.Payer, hi: r.UserID}, r.Amount.Neg()
			}

			if _, seen := nets[key]; !seen {
				order = append(order, key)
			}
			nets[key] = nets[key].Add(delta)
		}
	}

	var settlements []models.Settlement
	for _, key := range order {
		net := nets[key]
		switch {
		case amount.Positive(net):
			settlements = append(settlements, proposed(key.lo, key.hi, net, at))
		case amount.Positive(net.Neg()):
			settlements = append(settlements, proposed(key.hi, key.lo, net.Neg(), at))
		}
	}
	return settlements, nil
}

func proposed(from, to string, amt decimal.Decimal, at time.Time) models.Settlement {
	return models.Settlement{
		ID:     models.SettlementID(from, to, at),
		From:   from,
		To:     to,
		Amount: amt,
		Date:   models.NewDate(at),
	}
}
