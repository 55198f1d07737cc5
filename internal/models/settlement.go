package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Settlement represents a transfer from a debtor to a creditor.
//
// Proposed settlements are computed on demand and never persisted
// (Completed is false). Confirmed settlements are appended to the ledger
// once and never edited or removed.
type Settlement struct {
	// ID is derived from the parties and the creation time.
	ID string `json:"id"`

	// From is the user who pays (debtor settling up).
	From string `json:"from"`

	// To is the user who receives the payment (creditor).
	To string `json:"to"`

	// Amount is the transferred amount, always positive.
	Amount decimal.Decimal `json:"amount"`

	// Completed is true for confirmed settlements.
	Completed bool `json:"completed"`

	// Date is the day the settlement was proposed or confirmed.
	Date Date `json:"date"`
}

// SettlementID builds the identifier used for settlements between from and to
// created at t.
func SettlementID(from, to string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%d", from, to, t.UnixMilli())
}
