package models

import "time"

// Document is the persisted snapshot of a ledger.
type Document struct {
	Users       []User       `json:"users"`
	Expenses    []Expense    `json:"expenses"`
	Settlements []Settlement `json:"settlements"`

	// LastUpdated is set by the store on every save.
	LastUpdated time.Time `json:"lastUpdated"`
}
