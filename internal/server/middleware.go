package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/matzehuels/scrapbook/pkg/errors"
	"github.com/matzehuels/scrapbook/pkg/observability"
)

// headerRequestID carries the request id in both directions.
const headerRequestID = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = 0

// requestID accepts a caller-supplied X-Request-ID or generates a uuid, and
// echoes it on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id set by the middleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// instrument logs each request and reports it to the HTTP hooks under its
// chi route pattern.
func instrument(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			d := time.Since(start)
			observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
			logger.Debug("request",
				"id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", d.Round(time.Microsecond))
		})
	}
}

// rateLimit limits requests per client IP per minute. A limit of 0 disables
// it. Rejections use the API's error body.
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			rl := &errors.RateLimitedError{RetryAfter: 60}
			writeError(w, r, errors.New(rl.Code(), "%s", rl.Error()))
		}),
	)
}
