// Package api defines the request and response messages of the
// spliteasy.v1.LedgerService RPC service.
//
// Messages are plain structs encoded as JSON. Amounts travel as decimal
// numbers and dates as "YYYY-MM-DD".
package api

import "github.com/shopspring/decimal"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Share is one participant of an expense. A nil Amount means an equal part of
// what the custom shares leave over.
type Share struct {
	UserID string           `json:"userId"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

type Expense struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Payer        string          `json:"payer"`
	Participants []Share         `json:"participants"`
	Date         string          `json:"date"`
}

type Settlement struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Completed bool            `json:"completed"`
	Date      string          `json:"date"`
}

// Balance is a user's net position. Positive means the user owes money,
// negative means the user is owed.
type Balance struct {
	UserID    string          `json:"userId"`
	Name      string          `json:"name,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

// HistoryEntry is an expense or a confirmed settlement.
type HistoryEntry struct {
	Kind       string      `json:"kind"`
	Date       string      `json:"date"`
	Expense    *Expense    `json:"expense,omitempty"`
	Settlement *Settlement `json:"settlement,omitempty"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type AddUserRequest struct {
	Name string `json:"name"`
}

type AddUserResponse struct {
	User User `json:"user"`
}

type RemoveUserRequest struct {
	UserID string `json:"userId"`
}

type RemoveUserResponse struct{}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// AddExpenseRequest records an expense. Date defaults to today.
type AddExpenseRequest struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Payer        string          `json:"payer"`
	Participants []Share         `json:"participants"`
	Date         string          `json:"date,omitempty"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type RemoveExpenseResponse struct{}

// TakeExpenseRequest removes an expense so it can be edited and added again.
type TakeExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type TakeExpenseResponse struct {
	Draft AddExpenseRequest `json:"draft"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
	Settled  bool      `json:"settled"`
}

// ProposeSettlementsRequest asks for suggested transfers. Strategy is
// "simplified" (default) or "detailed".
type ProposeSettlementsRequest struct {
	Strategy string `json:"strategy,omitempty"`
}

type ProposeSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type ConfirmSettlementRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type ConfirmSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct{}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

// GetHistoryRequest lists history newest first. Limit <= 0 means all.
type GetHistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

type GetHistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// SyncRequest replaces the local ledger with the remote copy.
type SyncRequest struct{}

type SyncResponse struct {
	Users       int    `json:"users"`
	Expenses    int    `json:"expenses"`
	Settlements int    `json:"settlements"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}
