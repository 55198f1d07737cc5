// Package ledger holds the users, expenses and confirmed settlements of one
// group and runs the settlement engine over them.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/calculator"
	"github.com/mmynk/spliteasy/internal/metrics"
	"github.com/mmynk/spliteasy/internal/models"
	"github.com/mmynk/spliteasy/internal/storage"
)

// Ledger is the in-memory state of a group. It is safe for concurrent use;
// every method takes the same lock.
type Ledger struct {
	mu          sync.Mutex
	users       []models.User
	expenses    []models.Expense
	settlements []models.Settlement

	now     func() time.Time
	palette []string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used for expense and settlement dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithPalette replaces the avatar colors assigned to new users.
func WithPalette(colors ...string) Option {
	return func(l *Ledger) {
		if len(colors) > 0 {
			l.palette = colors
		}
	}
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		now:     time.Now,
		palette: models.Palette,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ExpenseInput is the data needed to record an expense.
type ExpenseInput struct {
	Description  string
	Amount       decimal.Decimal
	Payer        string
	Participants []models.Share

	// Date defaults to today when zero.
	Date models.Date
}

// Users returns the registered users in registration order.
func (l *Ledger) Users() []models.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.users)
}

// User returns the user with the given id.
func (l *Ledger) User(id string) (models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.userIndex(id)
	if i < 0 {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return l.users[i], nil
}

// Expenses returns the recorded expenses in insertion order.
func (l *Ledger) Expenses() []models.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.expenses)
}

// Settlements returns the confirmed settlements in insertion order.
func (l *Ledger) Settlements() []models.Settlement {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.settlements)
}

// AddUser registers a new user. Names are trimmed and must be unique,
// ignoring case.
func (l *Ledger) AddUser(name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range l.users {
		if strings.EqualFold(u.Name, name) {
			return models.User{}, fmt.Errorf("%w: %s", ErrDuplicateUser, name)
		}
	}

	user := models.User{
		ID:    uuid.New().String(),
		Name:  name,
		Color: l.palette[len(l.users)%len(l.palette)],
	}
	l.users = append(l.users, user)
	metrics.UsersAdded.Inc()

	slog.Info("User added", "user_id", user.ID, "name", user.Name)
	return user, nil
}

// RemoveUser removes a user who neither paid for nor participates in any
// expense.
func (l *Ledger) RemoveUser(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.userIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	for _, e := range l.expenses {
		if e.Involves(id) {
			return fmt.Errorf("%w: %s", ErrUserHasExpenses, l.users[i].Name)
		}
	}

	slog.Info("User removed", "user_id", id, "name", l.users[i].Name)
	l.users = slices.Delete(l.users, i, i+1)
	l.observe()
	return nil
}

// AddExpense validates and records a new expense.
func (l *Ledger) AddExpense(in ExpenseInput) (models.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expense, err := l.newExpense(in)
	if err != nil {
		return models.Expense{}, err
	}
	l.expenses = append(l.expenses, expense)
	metrics.ExpensesAdded.Inc()
	l.observe()

	slog.Info("Expense added",
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"payer", expense.Payer,
		"participants_count", len(expense.Participants),
	)
	return expense, nil
}

// RemoveExpense deletes an expense.
func (l *Ledger) RemoveExpense(id string) error {
	_, err := l.TakeExpense(id)
	return err
}

// TakeExpense removes an expense and returns it as input for re-entry.
// Editing an expense is TakeExpense followed by AddExpense.
func (l *Ledger) TakeExpense(id string) (ExpenseInput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.expenses, func(e models.Expense) bool { return e.ID == id })
	if i < 0 {
		return ExpenseInput{}, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	e := l.expenses[i]
	l.expenses = slices.Delete(l.expenses, i, i+1)
	metrics.ExpensesRemoved.Inc()
	l.observe()

	slog.Info("Expense removed", "expense_id", id)
	return ExpenseInput{
		Description:  e.Description,
		Amount:       e.Amount,
		Payer:        e.Payer,
		Participants: slices.Clone(e.Participants),
		Date:         e.Date,
	}, nil
}

// ConfirmSettlement records a completed transfer. Confirmed settlements are
// append-only.
func (l *Ledger) ConfirmSettlement(from, to string, amount decimal.Decimal) (models.Settlement, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return models.Settlement{}, ErrMissingParty
	}
	if from == to {
		return models.Settlement{}, ErrSelfSettlement
	}
	if !amount.IsPositive() {
		return models.Settlement{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	s := models.Settlement{
		ID:        models.SettlementID(from, to, now),
		From:      from,
		To:        to,
		Amount:    amount,
		Completed: true,
		Date:      models.NewDate(now),
	}
	l.settlements = append(l.settlements, s)
	metrics.SettlementsConfirmed.Inc()
	l.observe()

	slog.Info("Settlement confirmed", "from", from, "to", to, "amount", amount.String())
	return s, nil
}

// Balances returns the net position of every user.
func (l *Ledger) Balances() (*calculator.Positions, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculator.ComputeBalances(l.users, l.expenses, l.settlements)
}

// ProposeSettlements suggests transfers that would settle the group.
func (l *Ledger) ProposeSettlements(strategy calculator.Strategy) ([]models.Settlement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculator.ComputeSettlements(strategy, l.users, l.expenses, l.settlements, l.now())
}

// History returns the expenses and confirmed settlements recorded so far,
// newest first. Later mutations do not show up in the returned sequence.
func (l *Ledger) History() iter.Seq[Entry] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return History(slices.Clone(l.expenses), slices.Clone(l.settlements))
}

// Snapshot returns a copy of the ledger as a document.
func (l *Ledger) Snapshot() *models.Document {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc := storage.NewDocument()
	doc.Users = append(doc.Users, l.users...)
	doc.Expenses = append(doc.Expenses, l.expenses...)
	doc.Settlements = append(doc.Settlements, l.settlements...)
	return doc
}

// Restore replaces the ledger state with doc. Every expense must have
// participants and a balanced split; on error the ledger is left unchanged.
func (l *Ledger) Restore(doc *models.Document) error {
	if doc == nil {
		doc = storage.NewDocument()
	}
	for _, e := range doc.Expenses {
		if len(e.Participants) == 0 {
			return fmt.Errorf("invalid expense %s: %w", e.ID, ErrNoParticipants)
		}
		if err := calculator.ValidateSplit(e.Amount, e.Participants); err != nil {
			return fmt.Errorf("invalid expense %s: %w", e.ID, err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.users = slices.Clone(doc.Users)
	l.expenses = slices.Clone(doc.Expenses)
	l.settlements = slices.Clone(doc.Settlements)
	l.observe()

	slog.Debug("Ledger restored",
		"users", len(l.users),
		"expenses", len(l.expenses),
		"settlements", len(l.settlements),
	)
	return nil
}

// Load replaces the ledger state with the document held by store.
func (l *Ledger) Load(ctx context.Context, store storage.Store) error {
	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	return l.Restore(doc)
}

// Save writes a snapshot of the ledger to store.
func (l *Ledger) Save(ctx context.Context, store storage.Store) error {
	if err := store.Save(ctx, l.Snapshot()); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func (l *Ledger) userIndex(id string) int {
	return slices.IndexFunc(l.users, func(u models.User) bool { return u.ID == id })
}

func (l *Ledger) newExpense(in ExpenseInput) (models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Expense{}, ErrMissingDescription
	}
	if !in.Amount.IsPositive() {
		return models.Expense{}, fmt.Errorf("%w: %s", ErrInvalidAmount, in.Amount)
	}
	if in.Payer == "" {
		return models.Expense{}, ErrMissingPayer
	}
	if l.userIndex(in.Payer) < 0 {
		return models.Expense{}, fmt.Errorf("%w: payer %s", ErrUserNotFound, in.Payer)
	}
	if len(in.Participants) == 0 {
		return models.Expense{}, ErrNoParticipants
	}
	for _, p := range in.Participants {
		if l.userIndex(p.UserID) < 0 {
			return models.Expense{}, fmt.Errorf("%w: participant %s", ErrUserNotFound, p.UserID)
		}
		if p.IsCustom() && p.Amount.Decimal.IsNegative() {
			return models.Expense{}, fmt.Errorf("%w: share of %s is %s", ErrInvalidAmount, p.UserID, p.Amount.Decimal)
		}
	}
	if err := calculator.ValidateSplit(in.Amount, in.Participants); err != nil {
		metrics.SplitErrors.Inc()
		return models.Expense{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = models.NewDate(l.now())
	}
	return models.Expense{
		ID:           uuid.New().String(),
		Description:  description,
		Amount:       in.Amount,
		Payer:        in.Payer,
		Participants: slices.Clone(in.Participants),
		Date:         date,
	}, nil
}

// observe refreshes the outstanding gauge. Callers hold l.mu.
func (l *Ledger) observe() {
	positions, err := calculator.ComputeBalances(l.users, l.expenses, l.settlements)
	if err != nil {
		slog.Warn("Failed to compute balances", "error", err)
		return
	}
	metrics.Outstanding.Set(positions.Outstanding().InexactFloat64())
}
