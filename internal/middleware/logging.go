package middleware

import (
	"context"
	"log/slog"
	"path"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// LoggingInterceptor returns a Connect interceptor that logs every ledger RPC.
// Rejected input is logged at Info, store and sync failures at Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"method", path.Base(req.Spec().Procedure),
				"request_id", chimw.GetReqID(ctx), // empty outside the chi router
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				slog.Debug("RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code.String(), "error", err)
			slog.Log(ctx, levelFor(code), "RPC failed", attrs...)
			return resp, err
		}
	}
}

// levelFor separates caller mistakes from failures of the server or its stores.
func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodeFailedPrecondition, connect.CodeCanceled:
		return slog.LevelInfo
	case connect.CodeUnimplemented:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
