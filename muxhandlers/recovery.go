package muxhandlers

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/vitalvas/oasgen/mux"
)

// PanicHeader carries the recovered panic value on the 500 response, so an
// in-process caller can tell a crashed handler from an ordinary error.
const PanicHeader = "X-Handler-Panic"

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers, logs them with the stack at error level and answers
// 500 Internal Server Error.
func RecoveryMiddleware(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error().
					Str("method", r.Method).
					Str("uri", r.URL.RequestURI()).
					Str("request_id", RequestIDFromContext(r.Context())).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")

				w.Header().Set(PanicHeader, fmt.Sprint(rec))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
