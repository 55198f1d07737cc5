// Package apiconnect wires the spliteasy.v1.LedgerService messages to Connect
// clients and handlers.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/spliteasy/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "spliteasy.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	// LedgerServiceListUsersProcedure is the fully-qualified name of the LedgerService's ListUsers RPC.
	LedgerServiceListUsersProcedure = "/spliteasy.v1.LedgerService/ListUsers"
	// LedgerServiceAddUserProcedure is the fully-qualified name of the LedgerService's AddUser RPC.
	LedgerServiceAddUserProcedure = "/spliteasy.v1.LedgerService/AddUser"
	// LedgerServiceRemoveUserProcedure is the fully-qualified name of the LedgerService's RemoveUser RPC.
	LedgerServiceRemoveUserProcedure = "/spliteasy.v1.LedgerService/RemoveUser"
	// LedgerServiceListExpensesProcedure is the fully-qualified name of the LedgerService's ListExpenses RPC.
	LedgerServiceListExpensesProcedure = "/spliteasy.v1.LedgerService/ListExpenses"
	// LedgerServiceAddExpenseProcedure is the fully-qualified name of the LedgerService's AddExpense RPC.
	LedgerServiceAddExpenseProcedure = "/spliteasy.v1.LedgerService/AddExpense"
	// LedgerServiceRemoveExpenseProcedure is the fully-qualified name of the LedgerService's RemoveExpense RPC.
	LedgerServiceRemoveExpenseProcedure = "/spliteasy.v1.LedgerService/RemoveExpense"
	// LedgerServiceTakeExpenseProcedure is the fully-qualified name of the LedgerService's TakeExpense RPC.
	LedgerServiceTakeExpenseProcedure = "/spliteasy.v1.LedgerService/TakeExpense"
	// LedgerServiceGetBalancesProcedure is the fully-qualified name of the LedgerService's GetBalances RPC.
	LedgerServiceGetBalancesProcedure = "/spliteasy.v1.LedgerService/GetBalances"
	// LedgerServiceProposeSettlementsProcedure is the fully-qualified name of the LedgerService's ProposeSettlements RPC.
	LedgerServiceProposeSettlementsProcedure = "/spliteasy.v1.LedgerService/ProposeSettlements"
	// LedgerServiceConfirmSettlementProcedure is the fully-qualified name of the LedgerService's ConfirmSettlement RPC.
	LedgerServiceConfirmSettlementProcedure = "/spliteasy.v1.LedgerService/ConfirmSettlement"
	// LedgerServiceListSettlementsProcedure is the fully-qualified name of the LedgerService's ListSettlements RPC.
	LedgerServiceListSettlementsProcedure = "/spliteasy.v1.LedgerService/ListSettlements"
	// LedgerServiceGetHistoryProcedure is the fully-qualified name of the LedgerService's GetHistory RPC.
	LedgerServiceGetHistoryProcedure = "/spliteasy.v1.LedgerService/GetHistory"
	// LedgerServiceSyncProcedure is the fully-qualified name of the LedgerService's Sync RPC.
	LedgerServiceSyncProcedure = "/spliteasy.v1.LedgerService/Sync"
)

// LedgerServiceClient is a client for the spliteasy.v1.LedgerService service.
type LedgerServiceClient interface {
	// ListUsers returns the registered users in registration order.
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	// AddUser registers a user.
	AddUser(context.Context, *connect.Request[api.AddUserRequest]) (*connect.Response[api.AddUserResponse], error)
	// RemoveUser removes a user without expenses.
	RemoveUser(context.Context, *connect.Request[api.RemoveUserRequest]) (*connect.Response[api.RemoveUserResponse], error)
	// ListExpenses returns all expenses in insertion order.
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	// AddExpense records an expense.
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	// RemoveExpense deletes an expense.
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	// TakeExpense removes an expense and returns it for editing.
	TakeExpense(context.Context, *connect.Request[api.TakeExpenseRequest]) (*connect.Response[api.TakeExpenseResponse], error)
	// GetBalances returns every user's net position.
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	// ProposeSettlements suggests transfers that settle the group.
	ProposeSettlements(context.Context, *connect.Request[api.ProposeSettlementsRequest]) (*connect.Response[api.ProposeSettlementsResponse], error)
	// ConfirmSettlement records a completed transfer.
	ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error)
	// ListSettlements returns the confirmed settlements.
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	// GetHistory returns expenses and settlements, newest first.
	GetHistory(context.Context, *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error)
	// Sync replaces the local ledger with the remote copy.
	Sync(context.Context, *connect.Request[api.SyncRequest]) (*connect.Response[api.SyncResponse], error)
}

// NewLedgerServiceClient constructs a client for the spliteasy.v1.LedgerService
// service. Messages are sent as JSON.
//
// The URL supplied here should be the base URL for the Connect server (for
// example, http://api.acme.com or https://acme.com/grpc).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		listUsers: connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](
			httpClient,
			baseURL+LedgerServiceListUsersProcedure,
			opts...,
		),
		addUser: connect.NewClient[api.AddUserRequest, api.AddUserResponse](
			httpClient,
			baseURL+LedgerServiceAddUserProcedure,
			opts...,
		),
		removeUser: connect.NewClient[api.RemoveUserRequest, api.RemoveUserResponse](
			httpClient,
			baseURL+LedgerServiceRemoveUserProcedure,
			opts...,
		),
		listExpenses: connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](
			httpClient,
			baseURL+LedgerServiceListExpensesProcedure,
			opts...,
		),
		addExpense: connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](
			httpClient,
			baseURL+LedgerServiceAddExpenseProcedure,
			opts...,
		),
		removeExpense: connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](
			httpClient,
			baseURL+LedgerServiceRemoveExpenseProcedure,
			opts...,
		),
		takeExpense: connect.NewClient[api.TakeExpenseRequest, api.TakeExpenseResponse](
			httpClient,
			baseURL+LedgerServiceTakeExpenseProcedure,
			opts...,
		),
		getBalances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](
			httpClient,
			baseURL+LedgerServiceGetBalancesProcedure,
			opts...,
		),
		proposeSettlements: connect.NewClient[api.ProposeSettlementsRequest, api.ProposeSettlementsResponse](
			httpClient,
			baseURL+LedgerServiceProposeSettlementsProcedure,
			opts...,
		),
		confirmSettlement: connect.NewClient[api.ConfirmSettlementRequest, api.ConfirmSettlementResponse](
			httpClient,
			baseURL+LedgerServiceConfirmSettlementProcedure,
			opts...,
		),
		listSettlements: connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](
			httpClient,
			baseURL+LedgerServiceListSettlementsProcedure,
			opts...,
		),
		getHistory: connect.NewClient[api.GetHistoryRequest, api.GetHistoryResponse](
			httpClient,
			baseURL+LedgerServiceGetHistoryProcedure,
			opts...,
		),
		sync: connect.NewClient[api.SyncRequest, api.SyncResponse](
			httpClient,
			baseURL+LedgerServiceSyncProcedure,
			opts...,
		),
	}
}

// ledgerServiceClient implements LedgerServiceClient.
type ledgerServiceClient struct {
	listUsers *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	addUser *connect.Client[api.AddUserRequest, api.AddUserResponse]
	removeUser *connect.Client[api.RemoveUserRequest, api.RemoveUserResponse]
	listExpenses *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	addExpense *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	removeExpense *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	takeExpense *connect.Client[api.TakeExpenseRequest, api.TakeExpenseResponse]
	getBalances *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	proposeSettlements *connect.Client[api.ProposeSettlementsRequest, api.ProposeSettlementsResponse]
	confirmSettlement *connect.Client[api.ConfirmSettlementRequest, api.ConfirmSettlementResponse]
	listSettlements *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	getHistory *connect.Client[api.GetHistoryRequest, api.GetHistoryResponse]
	sync *connect.Client[api.SyncRequest, api.SyncResponse]
}

// ListUsers calls spliteasy.v1.LedgerService.ListUsers.
func (c *ledgerServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// AddUser calls spliteasy.v1.LedgerService.AddUser.
func (c *ledgerServiceClient) AddUser(ctx context.Context, req *connect.Request[api.AddUserRequest]) (*connect.Response[api.AddUserResponse], error) {
	return c.addUser.CallUnary(ctx, req)
}

// RemoveUser calls spliteasy.v1.LedgerService.RemoveUser.
func (c *ledgerServiceClient) RemoveUser(ctx context.Context, req *connect.Request[api.RemoveUserRequest]) (*connect.Response[api.RemoveUserResponse], error) {
	return c.removeUser.CallUnary(ctx, req)
}

// ListExpenses calls spliteasy.v1.LedgerService.ListExpenses.
func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// AddExpense calls spliteasy.v1.LedgerService.AddExpense.
func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

// RemoveExpense calls spliteasy.v1.LedgerService.RemoveExpense.
func (c *ledgerServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

// TakeExpense calls spliteasy.v1.LedgerService.TakeExpense.
func (c *ledgerServiceClient) TakeExpense(ctx context.Context, req *connect.Request[api.TakeExpenseRequest]) (*connect.Response[api.TakeExpenseResponse], error) {
	return c.takeExpense.CallUnary(ctx, req)
}

// GetBalances calls spliteasy.v1.LedgerService.GetBalances.
func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

// ProposeSettlements calls spliteasy.v1.LedgerService.ProposeSettlements.
func (c *ledgerServiceClient) ProposeSettlements(ctx context.Context, req *connect.Request[api.ProposeSettlementsRequest]) (*connect.Response[api.ProposeSettlementsResponse], error) {
	return c.proposeSettlements.CallUnary(ctx, req)
}

// ConfirmSettlement calls spliteasy.v1.LedgerService.ConfirmSettlement.
func (c *ledgerServiceClient) ConfirmSettlement(ctx context.Context, req *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	return c.confirmSettlement.CallUnary(ctx, req)
}

// ListSettlements calls spliteasy.v1.LedgerService.ListSettlements.
func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

// GetHistory calls spliteasy.v1.LedgerService.GetHistory.
func (c *ledgerServiceClient) GetHistory(ctx context.Context, req *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error) {
	return c.getHistory.CallUnary(ctx, req)
}

// Sync calls spliteasy.v1.LedgerService.Sync.
func (c *ledgerServiceClient) Sync(ctx context.Context, req *connect.Request[api.SyncRequest]) (*connect.Response[api.SyncResponse], error) {
	return c.sync.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the spliteasy.v1.LedgerService service.
type LedgerServiceHandler interface {
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	AddUser(context.Context, *connect.Request[api.AddUserRequest]) (*connect.Response[api.AddUserResponse], error)
	RemoveUser(context.Context, *connect.Request[api.RemoveUserRequest]) (*connect.Response[api.RemoveUserResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	TakeExpense(context.Context, *connect.Request[api.TakeExpenseRequest]) (*connect.Response[api.TakeExpenseResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	ProposeSettlements(context.Context, *connect.Request[api.ProposeSettlementsRequest]) (*connect.Response[api.ProposeSettlementsResponse], error)
	ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	GetHistory(context.Context, *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error)
	Sync(context.Context, *connect.Request[api.SyncRequest]) (*connect.Response[api.SyncResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(Codec{}))

	listUsersHandler := connect.NewUnaryHandler(
		LedgerServiceListUsersProcedure,
		svc.ListUsers,
		opts...,
	)
	addUserHandler := connect.NewUnaryHandler(
		LedgerServiceAddUserProcedure,
		svc.AddUser,
		opts...,
	)
	removeUserHandler := connect.NewUnaryHandler(
		LedgerServiceRemoveUserProcedure,
		svc.RemoveUser,
		opts...,
	)
	listExpensesHandler := connect.NewUnaryHandler(
		LedgerServiceListExpensesProcedure,
		svc.ListExpenses,
		opts...,
	)
	addExpenseHandler := connect.NewUnaryHandler(
		LedgerServiceAddExpenseProcedure,
		svc.AddExpense,
		opts...,
	)
	removeExpenseHandler := connect.NewUnaryHandler(
		LedgerServiceRemoveExpenseProcedure,
		svc.RemoveExpense,
		opts...,
	)
	takeExpenseHandler := connect.NewUnaryHandler(
		LedgerServiceTakeExpenseProcedure,
		svc.TakeExpense,
		opts...,
	)
	getBalancesHandler := connect.NewUnaryHandler(
		LedgerServiceGetBalancesProcedure,
		svc.GetBalances,
		opts...,
	)
	proposeSettlementsHandler := connect.NewUnaryHandler(
		LedgerServiceProposeSettlementsProcedure,
		svc.ProposeSettlements,
		opts...,
	)
	confirmSettlementHandler := connect.NewUnaryHandler(
		LedgerServiceConfirmSettlementProcedure,
		svc.ConfirmSettlement,
		opts...,
	)
	listSettlementsHandler := connect.NewUnaryHandler(
		LedgerServiceListSettlementsProcedure,
		svc.ListSettlements,
		opts...,
	)
	getHistoryHandler := connect.NewUnaryHandler(
		LedgerServiceGetHistoryProcedure,
		svc.GetHistory,
		opts...,
	)
	syncHandler := connect.NewUnaryHandler(
		LedgerServiceSyncProcedure,
		svc.Sync,
		opts...,
	)
	return "/spliteasy.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceListUsersProcedure:
			listUsersHandler.ServeHTTP(w, r)
		case LedgerServiceAddUserProcedure:
			addUserHandler.ServeHTTP(w, r)
		case LedgerServiceRemoveUserProcedure:
			removeUserHandler.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpensesHandler.ServeHTTP(w, r)
		case LedgerServiceAddExpenseProcedure:
			addExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceRemoveExpenseProcedure:
			removeExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceTakeExpenseProcedure:
			takeExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalancesHandler.ServeHTTP(w, r)
		case LedgerServiceProposeSettlementsProcedure:
			proposeSettlementsHandler.ServeHTTP(w, r)
		case LedgerServiceConfirmSettlementProcedure:
			confirmSettlementHandler.ServeHTTP(w, r)
		case LedgerServiceListSettlementsProcedure:
			listSettlementsHandler.ServeHTTP(w, r)
		case LedgerServiceGetHistoryProcedure:
			getHistoryHandler.ServeHTTP(w, r)
		case LedgerServiceSyncProcedure:
			syncHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.ListUsers is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddUser(context.Context, *connect.Request[api.AddUserRequest]) (*connect.Response[api.AddUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.AddUser is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RemoveUser(context.Context, *connect.Request[api.RemoveUserRequest]) (*connect.Response[api.RemoveUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.RemoveUser is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.ListExpenses is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.AddExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.RemoveExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) TakeExpense(context.Context, *connect.Request[api.TakeExpenseRequest]) (*connect.Response[api.TakeExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.TakeExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.GetBalances is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ProposeSettlements(context.Context, *connect.Request[api.ProposeSettlementsRequest]) (*connect.Response[api.ProposeSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.ProposeSettlements is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.ConfirmSettlement is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.ListSettlements is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetHistory(context.Context, *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.GetHistory is not implemented"))
}

func (UnimplementedLedgerServiceHandler) Sync(context.Context, *connect.Request[api.SyncRequest]) (*connect.Response[api.SyncResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("spliteasy.v1.LedgerService.Sync is not implemented"))
}
