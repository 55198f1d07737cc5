package models

import (
	"github.com/shopspring/decimal"
)

// Share is one participant's portion of an expense.
type Share struct {
	// UserID is the participant.
	UserID string `json:"id"`

	// Amount is the fixed amount this participant owes (custom split).
	// A null amount means the participant takes an equal part of whatever
	// the custom shares leave over.
	Amount decimal.NullDecimal `json:"amount"`
}

// EqualShare returns a share without a fixed amount.
func EqualShare(userID string) Share {
	return Share{UserID: userID}
}

// CustomShare returns a share with a fixed amount.
func CustomShare(userID string, amount decimal.Decimal) Share {
	return Share{UserID: userID, Amount: decimal.NewNullDecimal(amount)}
}

// IsCustom reports whether the share carries a fixed amount.
func (s Share) IsCustom() bool {
	return s.Amount.Valid
}

// Expense represents money fronted by one user on behalf of participants.
// Expenses are stored by value and never mutated.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable label (e.g., "Dinner").
	Description string `json:"description"`

	// Amount is the total paid, always positive.
	Amount decimal.Decimal `json:"amount"`

	// Payer is the user ID of whoever paid.
	Payer string `json:"payer"`

	// Participants lists who shares the expense, in entry order.
	Participants []Share `json:"participants"`

	// Date is the day the expense was recorded.
	Date Date `json:"date"`
}

// HasCustomSplit reports whether any participant has a fixed amount.
func (e Expense) HasCustomSplit() bool {
	for _, p := range e.Participants {
		if p.IsCustom() {
			return true
		}
	}
	return false
}

// Involves reports whether userID paid for or participates in the expense.
func (e Expense) Involves(userID string) bool {
	if e.Payer == userID {
		return true
	}
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ParticipantIDs returns the participant user IDs in entry order.
func (e Expense) ParticipantIDs() []string {
	ids := make([]string, len(e.Participants))
	for i, p := range e.Participants {
		ids[i] = p.UserID
	}
	return ids
}
