package capture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vitalvas/oasgen/mux"
)

var (
	// ErrUnknownRouter is returned by New for a router kind it does not know,
	// or for a target that does not fit the kind.
	ErrUnknownRouter = errors.New("unknown router kind")

	// ErrUnexpectedStatus is returned by Invoke for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrHandlerPanicked is returned by in-process Invoke when the handler
	// panicked.
	ErrHandlerPanicked = errors.New("handler panicked")

	// ErrInvalidBinding is returned by Validate for malformed bindings.
	ErrInvalidBinding = errors.New("invalid api call binding")
)

// Router kinds.
const (
	KindMux  = "mux"
	KindEcho = "echo"
	KindHTTP = "http"
)

// Route describes one entry of the host route table.
type Route struct {
	// Name is the symbolic route name, such as "widgets.show".
	Name string

	// Template is the path template as registered with the host router:
	// "/widgets/{id:int}" for mux, "/widgets/:id" for echo.
	Template string

	Methods []string

	// Handler is the runtime name of the function serving the route.
	Handler string
}

// Router reads request URIs of routes and calls them.
type Router interface {
	// RouteURI returns the OpenAPI path template of a route.
	RouteURI(route Route) string

	// Invoke calls method on url and returns the response body. Any
	// non-2xx response is an error.
	Invoke(ctx context.Context, method, url string) ([]byte, error)
}

// Options configure the router kinds.
type Options struct {
	// BaseURL is the server the http kind calls.
	BaseURL string

	// Headers are sent with every call, after Accept and Content-Type.
	Headers map[string]string

	// Timeout bounds a single call. Zero means no timeout.
	Timeout time.Duration

	// Client overrides the http kind's client.
	Client *http.Client

	Logger zerolog.Logger
}

// New returns the router of the given kind. The mux kind needs a
// *mux.Router target, the echo kind an *echo.Echo; the http kind ignores
// target.
func New(kind string, target http.Handler, opts Options) (Router, error) {
	switch kind {
	case KindMux:
		r, ok := target.(*mux.Router)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a *mux.Router, got %T", ErrUnknownRouter, kind, target)
		}
		return NewMuxRouter(r, opts)

	case KindEcho:
		e, ok := target.(*echo.Echo)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs an *echo.Echo, got %T", ErrUnknownRouter, kind, target)
		}
		return NewEchoRouter(e, opts)

	case KindHTTP:
		return NewHTTPRouter(opts)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownRouter, kind)
}

// muxURI strips the patterns from a mux path template.
func muxURI(route Route) string {
	uri, _, err := mux.ParseTemplate(route.Template)
	if err != nil {
		return route.Template
	}
	return uri
}

func checkStatus(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	const maxBody = 256
	if len(body) > maxBody {
		body = body[:maxBody]
	}

	return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, code, body)
}
