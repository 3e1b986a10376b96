// internal/server/handlers/middleware.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"partypulse/internal/logger"
)

// Recoverer turns a handler panic into a logged 500 with a JSON body
func Recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				log.Error("panic recovered",
					logger.Any("panic", rvr),
					logger.String("request_id", middleware.GetReqID(r.Context())),
					logger.String("stack", string(debug.Stack())),
				)

				// Hijacked websocket connections cannot take a response
				if r.Header.Get("Connection") != "Upgrade" {
					respondWithError(w, log, http.StatusInternalServerError, "Internal server error", nil)
				}
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// Timeout cancels the request context after timeout. If the handler gave up
// without writing anything, the client gets a 504 with a JSON body.
func Timeout(timeout time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				respondWithError(w, log, http.StatusGatewayTimeout, "Request timed out", nil)
			}
		}
		return http.HandlerFunc(fn)
	}
}
