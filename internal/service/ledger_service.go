package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/spliteasy/internal/amount"
	"github.com/mmynk/spliteasy/internal/calculator"
	"github.com/mmynk/spliteasy/internal/ledger"
	"github.com/mmynk/spliteasy/internal/models"
	"github.com/mmynk/spliteasy/internal/storage"
	"github.com/mmynk/spliteasy/pkg/api"
	"github.com/mmynk/spliteasy/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler

	ledger   *ledger.Ledger
	store    storage.Store
	mirror   storage.Store
	currency string

	// persistMu serialises change-and-save so a failed save can be rolled
	// back without losing another request's change.
	persistMu sync.Mutex
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithMirror pushes every change to a secondary store, e.g. a GitHub gist.
// Mirror failures are logged and do not fail the request.
func WithMirror(mirror storage.Store) Option {
	return func(s *LedgerService) {
		s.mirror = mirror
	}
}

// WithCurrency sets the ISO currency code used for formatted amounts.
func WithCurrency(code string) Option {
	return func(s *LedgerService) {
		s.currency = code
	}
}

// NewLedgerService creates a LedgerService that persists l to store after
// every change.
func NewLedgerService(l *ledger.Ledger, store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{ledger: l, store: store, currency: "INR"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListUsers returns the registered users.
func (s *LedgerService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	users := s.ledger.Users()
	out := make([]api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// AddUser registers a user.
func (s *LedgerService) AddUser(ctx context.Context, req *connect.Request[api.AddUserRequest]) (*connect.Response[api.AddUserResponse], error) {
	slog.Info("AddUser request received", "name", req.Msg.Name)

	var user models.User
	err := s.mutate(ctx, func() (err error) {
		user, err = s.ledger.AddUser(req.Msg.Name)
		return err
	})
	if err != nil {
		slog.Error("AddUser failed", "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.AddUserResponse{User: toAPIUser(user)}), nil
}

// RemoveUser removes a user who has no expenses.
func (s *LedgerService) RemoveUser(ctx context.Context, req *connect.Request[api.RemoveUserRequest]) (*connect.Response[api.RemoveUserResponse], error) {
	slog.Info("RemoveUser request received", "user_id", req.Msg.UserID)

	err := s.mutate(ctx, func() error {
		return s.ledger.RemoveUser(req.Msg.UserID)
	})
	if err != nil {
		slog.Error("RemoveUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.RemoveUserResponse{}), nil
}

// ListExpenses returns all expenses.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	expenses := s.ledger.Expenses()
	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// AddExpense records an expense.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"description", req.Msg.Description,
		"amount", req.Msg.Amount.String(),
		"payer", req.Msg.Payer,
		"participants_count", len(req.Msg.Participants),
	)

	in, err := fromAPIExpense(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var expense models.Expense
	err = s.mutate(ctx, func() (err error) {
		expense, err = s.ledger.AddExpense(in)
		return err
	})
	if err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// RemoveExpense deletes an expense.
func (s *LedgerService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	slog.Info("RemoveExpense request received", "expense_id", req.Msg.ExpenseID)

	err := s.mutate(ctx, func() error {
		return s.ledger.RemoveExpense(req.Msg.ExpenseID)
	})
	if err != nil {
		slog.Error("RemoveExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

// TakeExpense removes an expense and returns it as a draft for AddExpense.
func (s *LedgerService) TakeExpense(ctx context.Context, req *connect.Request[api.TakeExpenseRequest]) (*connect.Response[api.TakeExpenseResponse], error) {
	slog.Info("TakeExpense request received", "expense_id", req.Msg.ExpenseID)

	var in ledger.ExpenseInput
	err := s.mutate(ctx, func() (err error) {
		in, err = s.ledger.TakeExpense(req.Msg.ExpenseID)
		return err
	})
	if err != nil {
		slog.Error("TakeExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.TakeExpenseResponse{
		Draft: api.AddExpenseRequest{
			Description:  in.Description,
			Amount:       in.Amount,
			Payer:        in.Payer,
			Participants: toAPIShares(in.Participants),
			Date:         in.Date.String(),
		},
	}), nil
}

// GetBalances returns every user's net position.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	positions, err := s.ledger.Balances()
	if err != nil {
		slog.Error("GetBalances failed", "error", err)
		return nil, toConnectError(err)
	}

	names := s.userNames()
	balances := make([]api.Balance, 0, positions.Len())
	for id, v := range positions.All() {
		balances = append(balances, api.Balance{
			UserID:    id,
			Name:      names[id],
			Amount:    amount.Round(v),
			Formatted: amount.Format(v, s.currency),
		})
	}

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: balances,
		Settled:  positions.Settled(),
	}), nil
}

// ProposeSettlements suggests transfers using the requested strategy.
func (s *LedgerService) ProposeSettlements(ctx context.Context, req *connect.Request[api.ProposeSettlementsRequest]) (*connect.Response[api.ProposeSettlementsResponse], error) {
	strategy, err := calculator.ParseStrategy(req.Msg.Strategy)
	if err != nil {
		return nil, toConnectError(err)
	}

	settlements, err := s.ledger.ProposeSettlements(strategy)
	if err != nil {
		slog.Error("ProposeSettlements failed", "strategy", strategy, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ProposeSettlements successful", "strategy", strategy, "count", len(settlements))
	return connect.NewResponse(&api.ProposeSettlementsResponse{Settlements: toAPISettlements(settlements)}), nil
}

// ConfirmSettlement records a completed transfer.
func (s *LedgerService) ConfirmSettlement(ctx context.Context, req *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	slog.Info("ConfirmSettlement request received",
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount.String(),
	)

	var settlement models.Settlement
	err := s.mutate(ctx, func() (err error) {
		settlement, err = s.ledger.ConfirmSettlement(req.Msg.From, req.Msg.To, req.Msg.Amount)
		return err
	})
	if err != nil {
		slog.Error("ConfirmSettlement failed", "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.ConfirmSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements returns the confirmed settlements.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return connect.NewResponse(&api.ListSettlementsResponse{
		Settlements: toAPISettlements(s.ledger.Settlements()),
	}), nil
}

// GetHistory returns expenses and settlements, newest first.
func (s *LedgerService) GetHistory(ctx context.Context, req *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error) {
	entries := []api.HistoryEntry{}
	for entry := range s.ledger.History() {
		if req.Msg.Limit > 0 && len(entries) >= req.Msg.Limit {
			break
		}
		out := api.HistoryEntry{Kind: string(entry.Kind), Date: entry.Date.String()}
		switch entry.Kind {
		case ledger.KindExpense:
			e := toAPIExpense(*entry.Expense)
			out.Expense = &e
		case ledger.KindSettlement:
			st := toAPISettlement(*entry.Settlement)
			out.Settlement = &st
		}
		entries = append(entries, out)
	}
	return connect.NewResponse(&api.GetHistoryResponse{Entries: entries}), nil
}

// Sync replaces the local ledger with the mirror's copy and saves it locally.
func (s *LedgerService) Sync(ctx context.Context, req *connect.Request[api.SyncRequest]) (*connect.Response[api.SyncResponse], error) {
	if s.mirror == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("sync is not configured"))
	}

	slog.Info("Sync request received")

	doc, err := s.mirror.Load(ctx)
	if err != nil {
		slog.Error("Sync failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	s.persistMu.Lock()
	before := s.ledger.Snapshot()
	if err := s.ledger.Restore(doc); err != nil {
		s.persistMu.Unlock()
		slog.Error("Sync failed", "error", err)
		return nil, connect.NewError(connect.CodeDataLoss, err)
	}
	err = s.ledger.Save(ctx, s.store)
	if err != nil {
		s.rollback(before)
	}
	s.persistMu.Unlock()
	if err != nil {
		slog.Error("Failed to save synced ledger", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &api.SyncResponse{
		Users:       len(doc.Users),
		Expenses:    len(doc.Expenses),
		Settlements: len(doc.Settlements),
	}
	if !doc.LastUpdated.IsZero() {
		resp.LastUpdated = doc.LastUpdated.Format(time.RFC3339)
	}
	slog.Info("Sync successful", "users", resp.Users, "expenses", resp.Expenses, "settlements", resp.Settlements)
	return connect.NewResponse(resp), nil
}

// PushMirror writes the current ledger to the mirror, if one is configured.
func (s *LedgerService) PushMirror(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.ledger.Save(ctx, s.mirror)
}

// mutate applies change to the ledger and saves the result to the primary
// store, then to the mirror. When the primary store fails the ledger is
// rolled back, so a retried request sees the state it started from.
func (s *LedgerService) mutate(ctx context.Context, change func() error) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	before := s.ledger.Snapshot()
	if err := change(); err != nil {
		return toConnectError(err)
	}

	if err := s.ledger.Save(ctx, s.store); err != nil {
		slog.Error("Failed to persist ledger", "error", err)
		s.rollback(before)
		return connect.NewError(connect.CodeInternal, err)
	}

	if s.mirror != nil {
		if err := s.ledger.Save(ctx, s.mirror); err != nil {
			slog.Warn("Mirror sync failed", "error", err)
		}
	}
	return nil
}

// rollback puts back a snapshot taken under persistMu.
func (s *LedgerService) rollback(doc *models.Document) {
	if err := s.ledger.Restore(doc); err != nil {
		slog.Error("Failed to roll back ledger", "error", err)
	}
}

func (s *LedgerService) userNames() map[string]string {
	users := s.ledger.Users()
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

// toConnectError maps ledger and engine errors to Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, ledger.ErrUserNotFound),
		errors.Is(err, ledger.ErrExpenseNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrDuplicateUser):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ledger.ErrUserHasExpenses):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, calculator.ErrSplitImbalance),
		errors.Is(err, calculator.ErrUnknownStrategy),
		errors.Is(err, ledger.ErrEmptyName),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrMissingDescription),
		errors.Is(err, ledger.ErrMissingPayer),
		errors.Is(err, ledger.ErrNoParticipants),
		errors.Is(err, ledger.ErrMissingParty),
		errors.Is(err, ledger.ErrSelfSettlement):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func toAPIUser(u models.User) api.User {
	return api.User{ID: u.ID, Name: u.Name, Color: u.Color}
}

func toAPIShares(shares []models.Share) []api.Share {
	out := make([]api.Share, len(shares))
	for i, sh := range shares {
		out[i] = api.Share{UserID: sh.UserID}
		if sh.IsCustom() {
			v := sh.Amount.Decimal
			out[i].Amount = &v
		}
	}
	return out
}

func toAPIExpense(e models.Expense) api.Expense {
	return api.Expense{
		ID:           e.ID,
		Description:  e.Description,
		Amount:       e.Amount,
		Payer:        e.Payer,
		Participants: toAPIShares(e.Participants),
		Date:         e.Date.String(),
	}
}

func toAPISettlement(st models.Settlement) api.Settlement {
	return api.Settlement{
		ID:        st.ID,
		From:      st.From,
		To:        st.To,
		Amount:    st.Amount,
		Completed: st.Completed,
		Date:      st.Date.String(),
	}
}

func toAPISettlements(settlements []models.Settlement) []api.Settlement {
	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return out
}

func fromAPIExpense(req *api.AddExpenseRequest) (ledger.ExpenseInput, error) {
	in := ledger.ExpenseInput{
		Description:  req.Description,
		Amount:       req.Amount,
		Payer:        req.Payer,
		Participants: make([]models.Share, len(req.Participants)),
	}
	for i, p := range req.Participants {
		if p.Amount != nil {
			in.Participants[i] = models.CustomShare(p.UserID, *p.Amount)
		} else {
			in.Participants[i] = models.EqualShare(p.UserID)
		}
	}
	if req.Date != "" {
		date, err := models.ParseDate(req.Date)
		if err != nil {
			return ledger.ExpenseInput{}, fmt.Errorf("invalid expense date: %w", err)
		}
		in.Date = date
	}
	return in, nil
}
