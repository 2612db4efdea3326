package muxhandlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/vitalvas/oasgen/mux"
)

// ErrInvalidTimeout is returned when the timeout is not greater than zero.
var ErrInvalidTimeout = errors.New("timeout: duration must be greater than zero")

// TimeoutMiddleware limits handler execution time with http.TimeoutHandler,
// which answers 503 Service Unavailable once d elapses.
func TimeoutMiddleware(d time.Duration) (mux.MiddlewareFunc, error) {
	if d <= 0 {
		return nil, ErrInvalidTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "handler timed out")
	}, nil
}
