package capture

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vitalvas/oasgen/muxhandlers"
)

// Capturer records live example responses. Calls are sequential; a failed
// call is logged and yields no example.
type Capturer struct {
	router   Router
	bindings []APICallsBinding
	logger   zerolog.Logger
}

// NewCapturer returns a capturer calling router with the given bindings.
func NewCapturer(router Router, bindings []APICallsBinding, logger zerolog.Logger) *Capturer {
	return &Capturer{
		router:   router,
		bindings: bindings,
		logger:   logger,
	}
}

// URI returns the OpenAPI path template of route.
func (c *Capturer) URI(route Route) string {
	return c.router.RouteURI(route)
}

// Example calls route with method and returns the response body. HEAD is
// never called. A nil capturer never calls anything.
func (c *Capturer) Example(ctx context.Context, route Route, method string) ([]byte, bool) {
	if c == nil || strings.EqualFold(method, http.MethodHead) {
		return nil, false
	}

	uri := Resolve(c.router.RouteURI(route), route.Name, c.bindings)
	id := muxhandlers.NewRequestID()

	log := c.logger.With().
		Str("route", route.Name).
		Str("method", method).
		Str("uri", uri).
		Str("request_id", id).
		Logger()

	log.Debug().Msg("calling route")

	body, err := c.router.Invoke(muxhandlers.WithRequestID(ctx, id), strings.ToUpper(method), uri)
	if err != nil {
		log.Warn().Err(err).Msg("example capture failed")
		return nil, false
	}

	return body, true
}
