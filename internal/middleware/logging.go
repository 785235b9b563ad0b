package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"go-calc-auth/internal/model"
)

const requestIDHeader = "X-Request-ID"

// requestTrace carries what inner middleware learn about a request back out
// to the access log. RequireAuth may run on the timeout goroutine.
type requestTrace struct {
	accountID atomic.Int64
}

type traceKey struct{}

func traceAccount(ctx context.Context, accountID int64) {
	if trace, ok := ctx.Value(traceKey{}).(*requestTrace); ok {
		trace.accountID.Store(accountID)
	}
}

// Logging writes one access log line per request to logger (slog.Default
// when nil). It tags the request with an X-Request-ID, keeping a caller
// supplied one, and adds the matched route, the authenticated account and,
// for failures, the error envelope's code and message.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger
			if log == nil {
				log = slog.Default()
			}

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			trace := &requestTrace{}
			recorder := newStatusRecorder(w, true)
			started := time.Now()

			next.ServeHTTP(recorder, r.WithContext(context.WithValue(r.Context(), traceKey{}, trace)))

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.String("path", r.URL.Path),
				slog.Int("status", recorder.status),
				slog.Duration("duration", time.Since(started)),
			}
			if accountID := trace.accountID.Load(); accountID != 0 {
				attrs = append(attrs, slog.Int64("account_id", accountID))
			}
			if recorder.status >= http.StatusBadRequest {
				attrs = append(attrs, envelopeAttrs(recorder.errorBody.Bytes())...)
			}

			log.LogAttrs(r.Context(), accessLevel(recorder.status), "request", attrs...)
		})
	}
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// envelopeAttrs pulls the error code and message out of a failure response.
// Guard rejections are logged only through this path.
func envelopeAttrs(body []byte) []slog.Attr {
	if len(body) == 0 {
		return nil
	}

	var envelope model.APIResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return nil
	}

	attrs := []slog.Attr{
		slog.String("error_code", envelope.Error.Code),
		slog.String("error_message", envelope.Error.Message),
	}
	if envelope.Error.Details != "" {
		attrs = append(attrs, slog.String("error_details", envelope.Error.Details))
	}
	return attrs
}
