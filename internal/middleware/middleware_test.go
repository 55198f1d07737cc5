package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/spliteasy/pkg/api"
	"github.com/mmynk/spliteasy/pkg/api/apiconnect"
)

type usersOnly struct {
	apiconnect.UnimplementedLedgerServiceHandler
}

func (usersOnly) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return connect.NewResponse(&api.ListUsersResponse{Users: []api.User{{ID: "u1", Name: "Asha"}}}), nil
}

func TestInterceptors(t *testing.T) {
	path, handler := apiconnect.NewLedgerServiceHandler(usersOnly{},
		connect.WithInterceptors(LoggingInterceptor(), MetricsInterceptor()),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)
	ctx := context.Background()

	okBefore := rpcCount(t, apiconnect.LedgerServiceListUsersProcedure, "ok")
	failedBefore := rpcCount(t, apiconnect.LedgerServiceGetBalancesProcedure, "unimplemented")

	resp, err := client.ListUsers(ctx, connect.NewRequest(&api.ListUsersRequest{}))
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(resp.Msg.Users) != 1 {
		t.Errorf("expected 1 user, got %d", len(resp.Msg.Users))
	}

	_, err = client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	if connect.CodeOf(err) != connect.CodeUnimplemented {
		t.Errorf("code = %v, want Unimplemented", connect.CodeOf(err))
	}

	if got := rpcCount(t, apiconnect.LedgerServiceListUsersProcedure, "ok"); got != okBefore+1 {
		t.Errorf("ok observations = %d, want %d", got, okBefore+1)
	}
	if got := rpcCount(t, apiconnect.LedgerServiceGetBalancesProcedure, "unimplemented"); got != failedBefore+1 {
		t.Errorf("unimplemented observations = %d, want %d", got, failedBefore+1)
	}
}

// rpcCount returns how many RPCs were observed for procedure and code.
func rpcCount(t *testing.T, procedure, code string) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "spliteasy_rpc_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["procedure"] == procedure && labels["code"] == code {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name string
		code connect.Code
		want slog.Level
	}{
		{name: "imbalanced split", code: connect.CodeInvalidArgument, want: slog.LevelInfo},
		{name: "unknown user", code: connect.CodeNotFound, want: slog.LevelInfo},
		{name: "duplicate user", code: connect.CodeAlreadyExists, want: slog.LevelInfo},
		{name: "sync not configured", code: connect.CodeFailedPrecondition, want: slog.LevelInfo},
		{name: "unimplemented", code: connect.CodeUnimplemented, want: slog.LevelWarn},
		{name: "store failure", code: connect.CodeInternal, want: slog.LevelError},
		{name: "gist unreachable", code: connect.CodeUnavailable, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levelFor(tt.code); got != tt.want {
				t.Errorf("levelFor(%v) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
