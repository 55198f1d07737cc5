package calculator

import (
	"fmt"

	"github.com/mmynk/spliteasy/internal/models"
)

// ComputeBalances folds expenses and confirmed settlements into net positions.
//
// Algorithm:
//   - Every known user starts at zero, in registration order
//   - For each expense: the payer fronted the money (-amount), each
//     participant owes their resolved share (+share)
//   - For each completed settlement: the payer's position goes down, the
//     receiver's goes up; proposed settlements are ignored
//
// IDs that are not in users (removed out of order) accumulate into their own
// entries instead of failing. The result sums to ~0 whenever every expense
// satisfies the split invariant; an expense that does not is reported as an
// error wrapping ErrSplitImbalance.
func ComputeBalances(users []models.User, expenses []models.Expense, settlements []models.Settlement) (*Positions, error) {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	positions := NewPositions(ids...)

	for _, e := range expenses {
		resolved, err := resolveShares(e.Amount, e.Participants)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve split for expense %s: %w", e.ID, err)
		}

		positions.Add(e.Payer, e.Amount.Neg())
		for _, r := range resolved {
			positions.Add(r.UserID, r.Amount)
		}
	}

	for _, s := range settlements {
		if !s.Completed {
			continue
		}
		positions.Apply(s)
	}

	return positions, nil
}
