package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/amount"
	"github.com/mmynk/spliteasy/internal/models"
)

// ErrSplitImbalance is returned when every share of an expense has a fixed
// amount and those amounts do not add up to the expense total.
var ErrSplitImbalance = errors.New("custom split amounts do not add up to the expense amount")

// resolvedShare is one participant's owed amount, in share order.
type resolvedShare struct {
	UserID string
	Amount decimal.Decimal
}

// ResolveSplit computes how much each participant owes for an expense of
// the given total.
//
// Algorithm:
//   - Shares with a fixed amount (custom) owe exactly that amount
//   - Shares without one (equal) divide total - sum(custom) evenly
//   - With no custom shares everyone owes total / len(shares)
//   - With only custom shares their sum must match total within tolerance
//
// The result does not depend on share order. A participant listed twice owes
// the sum of both entries. An empty share list resolves to an empty map.
func ResolveSplit(total decimal.Decimal, shares []models.Share) (map[string]decimal.Decimal, error) {
	resolved, err := resolveShares(total, shares)
	if err != nil {
		return nil, err
	}

	owed := make(map[string]decimal.Decimal, len(resolved))
	for _, r := range resolved {
		owed[r.UserID] = owed[r.UserID].Add(r.Amount)
	}
	return owed, nil
}

// ValidateSplit checks the all-custom invariant without allocating a result.
func ValidateSplit(total decimal.Decimal, shares []models.Share) error {
	_, err := resolveShares(total, shares)
	return err
}

func resolveShares(total decimal.Decimal, shares []models.Share) ([]resolvedShare, error) {
	if len(shares) == 0 {
		return nil, nil
	}

	customTotal := decimal.Zero
	equalCount := 0
	for _, s := range shares {
		if s.IsCustom() {
			customTotal = customTotal.Add(s.Amount.Decimal)
		} else {
			equalCount++
		}
	}

	remaining := total.Sub(customTotal)
	if equalCount == 0 && !amount.IsZero(remaining) {
		return nil, fmt.Errorf("%w: shares sum to %s, expense is %s",
			ErrSplitImbalance, customTotal.StringFixed(2), total.StringFixed(2))
	}

	var perEqual decimal.Decimal
	if equalCount > 0 {
		perEqual = remaining.Div(decimal.NewFromInt(int64(equalCount)))
	}

	resolved := make([]resolvedShare, len(shares))
	for i, s := range shares {
		owed := perEqual
		if s.IsCustom() {
			owed = s.Amount.Decimal
		}
		resolved[i] = resolvedShare{UserID: s.UserID, Amount: owed}
	}
	return resolved, nil
}
