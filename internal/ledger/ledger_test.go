package ledger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/amount"
	"github.com/mmynk/spliteasy/internal/calculator"
	"github.com/mmynk/spliteasy/internal/models"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T, names ...string) (*Ledger, []models.User) {
	t.Helper()
	l := New(WithClock(func() time.Time { return testNow }))
	var users []models.User
	for _, name := range names {
		u, err := l.AddUser(name)
		if err != nil {
			t.Fatalf("AddUser(%q) failed: %v", name, err)
		}
		users = append(users, u)
	}
	return l, users
}

func equalShares(users ...models.User) []models.Share {
	shares := make([]models.Share, len(users))
	for i, u := range users {
		shares[i] = models.EqualShare(u.ID)
	}
	return shares
}

func TestAddUser(t *testing.T) {
	l, users := newTestLedger(t, "Asha", "Bilal")

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "new user", input: "  Chen  "},
		{name: "empty name", input: "   ", wantErr: ErrEmptyName},
		{name: "duplicate ignoring case", input: "asha", wantErr: ErrDuplicateUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := l.AddUser(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddUser() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddUser() unexpected error: %v", err)
			}
			if u.Name != "Chen" {
				t.Errorf("name = %q, want trimmed", u.Name)
			}
			if u.ID == "" {
				t.Error("expected an id")
			}
		})
	}

	if users[0].Color != models.Palette[0] || users[1].Color != models.Palette[1] {
		t.Errorf("colors = %s, %s; want palette order", users[0].Color, users[1].Color)
	}
	if got := len(l.Users()); got != 3 {
		t.Errorf("expected 3 users, got %d", got)
	}
}

func TestRemoveUser(t *testing.T) {
	l, users := newTestLedger(t, "Asha", "Bilal", "Chen")
	a, b, c := users[0], users[1], users[2]

	if _, err := l.AddExpense(ExpenseInput{
		Description:  "Lunch",
		Amount:       decimal.NewFromInt(20),
		Payer:        a.ID,
		Participants: equalShares(b),
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if err := l.RemoveUser(a.ID); !errors.Is(err, ErrUserHasExpenses) {
		t.Errorf("removing payer: error = %v, want ErrUserHasExpenses", err)
	}
	if err := l.RemoveUser(b.ID); !errors.Is(err, ErrUserHasExpenses) {
		t.Errorf("removing participant: error = %v, want ErrUserHasExpenses", err)
	}
	if err := l.RemoveUser("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("removing unknown: error = %v, want ErrUserNotFound", err)
	}
	if err := l.RemoveUser(c.ID); err != nil {
		t.Fatalf("RemoveUser failed: %v", err)
	}
	if _, err := l.User(c.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected removed user to be gone, got %v", err)
	}
}

func TestAddExpense(t *testing.T) {
	l, users := newTestLedger(t, "Asha", "Bilal", "Chen")
	a, b, c := users[0], users[1], users[2]

	tests := []struct {
		name         string
		input        ExpenseInput
		wantErr      error
		validateFunc func(t *testing.T, e models.Expense)
	}{
		{
			name: "equal split defaults to today",
			input: ExpenseInput{
				Description:  " Dinner ",
				Amount:       decimal.NewFromInt(120),
				Payer:        a.ID,
				Participants: equalShares(a, b, c),
			},
			validateFunc: func(t *testing.T, e models.Expense) {
				if e.Description != "Dinner" {
					t.Errorf("description = %q", e.Description)
				}
				if e.Date.String() != "2024-03-15" {
					t.Errorf("date = %s, want 2024-03-15", e.Date)
				}
			},
		},
		{
			name: "explicit date kept",
			input: ExpenseInput{
				Description:  "Taxi",
				Amount:       decimal.NewFromInt(30),
				Payer:        b.ID,
				Participants: equalShares(a, b),
				Date:         models.NewDate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
			},
			validateFunc: func(t *testing.T, e models.Expense) {
				if e.Date.String() != "2024-01-02" {
					t.Errorf("date = %s, want 2024-01-02", e.Date)
				}
			},
		},
		{
			name:    "missing description",
			input:   ExpenseInput{Amount: decimal.NewFromInt(1), Payer: a.ID, Participants: equalShares(a)},
			wantErr: ErrMissingDescription,
		},
		{
			name:    "zero amount",
			input:   ExpenseInput{Description: "x", Amount: decimal.Zero, Payer: a.ID, Participants: equalShares(a)},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing payer",
			input:   ExpenseInput{Description: "x", Amount: decimal.NewFromInt(1), Participants: equalShares(a)},
			wantErr: ErrMissingPayer,
		},
		{
			name:    "unknown payer",
			input:   ExpenseInput{Description: "x", Amount: decimal.NewFromInt(1), Payer: "ghost", Participants: equalShares(a)},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "no participants",
			input:   ExpenseInput{Description: "x", Amount: decimal.NewFromInt(1), Payer: a.ID},
			wantErr: ErrNoParticipants,
		},
		{
			name: "custom shares do not add up",
			input: ExpenseInput{
				Description: "Groceries",
				Amount:      decimal.NewFromInt(100),
				Payer:       a.ID,
				Participants: []models.Share{
					models.CustomShare(a.ID, decimal.NewFromInt(50)),
					models.CustomShare(b.ID, decimal.NewFromInt(49)),
				},
			},
			wantErr: calculator.ErrSplitImbalance,
		},
		{
			name: "negative custom share",
			input: ExpenseInput{
				Description:  "Refund",
				Amount:       decimal.NewFromInt(10),
				Payer:        a.ID,
				Participants: []models.Share{models.CustomShare(b.ID, decimal.NewFromInt(-5)), models.EqualShare(c.ID)},
			},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(l.Expenses())
			e, err := l.AddExpense(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddExpense() error = %v, want %v", err, tt.wantErr)
				}
				if got := len(l.Expenses()); got != before {
					t.Errorf("rejected expense was stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("AddExpense() unexpected error: %v", err)
			}
			if e.ID == "" {
				t.Error("expected an id")
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, e)
			}
		})
	}
}

func TestEditExpense(t *testing.T) {
	l, users := newTestLedger(t, "Asha", "Bilal")
	a, b := users[0], users[1]

	e, err := l.AddExpense(ExpenseInput{
		Description:  "Cinema",
		Amount:       decimal.NewFromInt(24),
		Payer:        a.ID,
		Participants: equalShares(a, b),
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	in, err := l.TakeExpense(e.ID)
	if err != nil {
		t.Fatalf("TakeExpense failed: %v", err)
	}
	if len(l.Expenses()) != 0 {
		t.Fatal("expected the expense to be removed")
	}
	if in.Description != "Cinema" || !in.Amount.Equal(e.Amount) || in.Payer != a.ID {
		t.Errorf("prefill = %+v", in)
	}

	in.Amount = decimal.NewFromInt(30)
	edited, err := l.AddExpense(in)
	if err != nil {
		t.Fatalf("AddExpense after edit failed: %v", err)
	}
	if edited.Date != e.Date {
		t.Errorf("date changed from %s to %s", e.Date, edited.Date)
	}

	p, err := l.Balances()
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !amount.ApproxEqual(p.Get(b.ID), decimal.NewFromInt(15)) {
		t.Errorf("B = %s, want 15", p.Get(b.ID))
	}

	if err := l.RemoveExpense("missing"); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("error = %v, want ErrExpenseNotFound", err)
	}
}

func TestConfirmSettlement(t *testing.T) {
	l, users := newTestLedger(t, "Asha", "Bilal", "Chen")
	a, b, c := users[0], users[1], users[2]

	if _, err := l.AddExpense(ExpenseInput{
		Description:  "Dinner",
		Amount:       decimal.NewFromInt(120),
		Payer:        a.ID,
		Participants: equalShares(a, b, c),
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	proposals, err := l.ProposeSettlements(calculator.Simplified)
	if err != nil {
		t.Fatalf("ProposeSettlements failed: %v", err)
	}
	if len(proposals) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(proposals))
	}

	for _, p := range proposals {
		s, err := l.ConfirmSettlement(p.From, p.To, p.Amount)
		if err != nil {
			t.Fatalf("ConfirmSettlement failed: %v", err)
		}
		if !s.Completed {
			t.Error("confirmed settlement not marked completed")
		}
		wantID := p.From + "-" + p.To + "-" + "1710504000000"
		if s.ID != wantID {
			t.Errorf("id = %s, want %s", s.ID, wantID)
		}
	}

	positions, err := l.Balances()
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !positions.Settled() {
		t.Error("expected everyone settled after confirming proposals")
	}
	if again, _ := l.ProposeSettlements(calculator.Simplified); len(again) != 0 {
		t.Errorf("expected no further proposals, got %v", again)
	}

	tests := []struct {
		name     string
		from, to string
		amount   decimal.Decimal
		wantErr  error
	}{
		{"self", a.ID, a.ID, decimal.NewFromInt(1), ErrSelfSettlement},
		{"zero", a.ID, b.ID, decimal.Zero, ErrInvalidAmount},
		{"negative", a.ID, b.ID, decimal.NewFromInt(-3), ErrInvalidAmount},
		{"missing payer", "", b.ID, decimal.NewFromInt(1), ErrMissingParty},
		{"missing payee", a.ID, " ", decimal.NewFromInt(1), ErrMissingParty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.ConfirmSettlement(tt.from, tt.to, tt.amount); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := len(l.Settlements()); got != 2 {
		t.Errorf("expected 2 settlements, got %d", got)
	}
}

func TestHistory(t *testing.T) {
	day := func(d int) models.Date {
		return models.NewDate(time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC))
	}
	expenses := []models.Expense{
		{ID: "e1", Date: day(1)},
		{ID: "e2", Date: day(3)},
		{ID: "e3", Date: day(2)},
		{ID: "e4", Date: day(3)},
	}
	settlements := []models.Settlement{
		{ID: "s1", Date: day(3), Completed: true},
		{ID: "proposed", Date: day(4)},
		{ID: "s2", Date: day(2), Completed: true},
	}

	seq := History(expenses, settlements)

	var got []string
	for entry := range seq {
		got = append(got, entry.ID())
	}
	want := []string{"e2", "e4", "s1", "e3", "s2", "e1"}
	if !slices.Equal(got, want) {
		t.Errorf("History = %v, want %v", got, want)
	}

	// Restartable.
	var again []string
	for entry := range seq {
		again = append(again, entry.ID())
	}
	if !slices.Equal(again, want) {
		t.Errorf("second iteration = %v, want %v", again, want)
	}

	// Early stop.
	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected to stop after 2 entries, got %d", n)
	}
}

type memStore struct {
	doc   *models.Document
	saves int
}

func (m *memStore) Load(ctx context.Context) (*models.Document, error) {
	if m.doc == nil {
		return &models.Document{}, nil
	}
	return m.doc, nil
}

func (m *memStore) Save(ctx context.Context, doc *models.Document) error {
	m.saves++
	m.doc = doc
	return nil
}

func (m *memStore) Close() error { return nil }

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	l, users := newTestLedger(t, "Asha", "Bilal")
	if _, err := l.AddExpense(ExpenseInput{
		Description:  "Snacks",
		Amount:       decimal.NewFromInt(10),
		Payer:        users[0].ID,
		Participants: equalShares(users...),
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if _, err := l.ConfirmSettlement(users[1].ID, users[0].ID, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("ConfirmSettlement failed: %v", err)
	}

	store := &memStore{}
	if err := l.Save(ctx, store); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restored := New()
	if err := restored.Load(ctx, store); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(restored.Users()) != 2 || len(restored.Expenses()) != 1 || len(restored.Settlements()) != 1 {
		t.Errorf("restored %d users, %d expenses, %d settlements",
			len(restored.Users()), len(restored.Expenses()), len(restored.Settlements()))
	}

	positions, err := restored.Balances()
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !positions.Settled() {
		t.Error("expected restored ledger to be settled")
	}
}

func TestRestoreRejectsInconsistentExpense(t *testing.T) {
	tests := []struct {
		name    string
		expense models.Expense
		wantErr error
	}{
		{
			name: "custom shares short of the total",
			expense: models.Expense{
				ID:           "bad",
				Amount:       decimal.NewFromInt(100),
				Payer:        "a",
				Participants: []models.Share{models.CustomShare("a", decimal.NewFromInt(10))},
			},
			wantErr: calculator.ErrSplitImbalance,
		},
		{
			name: "no participants",
			expense: models.Expense{
				ID:           "lonely",
				Amount:       decimal.NewFromInt(100),
				Payer:        "a",
				Participants: []models.Share{},
			},
			wantErr: ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLedger(t, "Asha")
			doc := &models.Document{Expenses: []models.Expense{tt.expense}}

			err := l.Restore(doc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Restore error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.expense.ID) {
				t.Errorf("error %q should name expense %s", err, tt.expense.ID)
			}
			if len(l.Users()) != 1 || len(l.Expenses()) != 0 {
				t.Error("failed restore must leave the ledger unchanged")
			}
		})
	}
}
