package ledger

import "errors"

var (
	ErrEmptyName          = errors.New("name is required")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserHasExpenses    = errors.New("user has existing expenses")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrMissingDescription = errors.New("description is required")
	ErrMissingPayer       = errors.New("payer is required")
	ErrNoParticipants     = errors.New("at least one participant is required")
	ErrMissingParty       = errors.New("settlement needs both parties")
	ErrSelfSettlement     = errors.New("cannot settle with yourself")
)
