package capture

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/vitalvas/oasgen/mux"
	"github.com/vitalvas/oasgen/muxhandlers"
)

// inProcessHost is the authority of in-process requests.
const inProcessHost = "http://oasgen.local"

// inProcess dispatches calls straight into an http.Handler.
type inProcess struct {
	handler http.Handler
	headers map[string]string
}

func newInProcess(h http.Handler, opts Options) (inProcess, error) {
	mws := []mux.MiddlewareFunc{
		muxhandlers.RequestIDMiddleware(),
		muxhandlers.RecoveryMiddleware(opts.Logger),
	}

	if opts.Timeout > 0 {
		mw, err := muxhandlers.TimeoutMiddleware(opts.Timeout)
		if err != nil {
			return inProcess{}, err
		}
		mws = append(mws, mw)
	}

	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return inProcess{handler: h, headers: opts.Headers}, nil
}

func (p inProcess) Invoke(ctx context.Context, method, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, inProcessHost+url, nil)
	if err != nil {
		return nil, err
	}
	req.RequestURI = url
	setHeaders(req, p.headers)

	w := httptest.NewRecorder()
	p.handler.ServeHTTP(w, req)

	if v := w.Header().Get(muxhandlers.PanicHeader); v != "" {
		return nil, fmt.Errorf("%w: %s", ErrHandlerPanicked, v)
	}

	body := w.Body.Bytes()
	if err := checkStatus(w.Code, body); err != nil {
		return nil, err
	}

	return body, nil
}

// MuxRouter calls routes of a *mux.Router in-process.
type MuxRouter struct {
	inProcess
}

// NewMuxRouter wraps r. The router itself is not modified; recovery,
// request id and timeout handling wrap it from outside.
func NewMuxRouter(r *mux.Router, opts Options) (*MuxRouter, error) {
	p, err := newInProcess(r, opts)
	if err != nil {
		return nil, err
	}
	return &MuxRouter{inProcess: p}, nil
}

// RouteURI strips macros and patterns: /widgets/{id:int} -> /widgets/{id}.
func (m *MuxRouter) RouteURI(route Route) string {
	return muxURI(route)
}

// EchoRouter calls routes of an *echo.Echo in-process.
type EchoRouter struct {
	inProcess
}

// NewEchoRouter wraps e.
func NewEchoRouter(e *echo.Echo, opts Options) (*EchoRouter, error) {
	p, err := newInProcess(e, opts)
	if err != nil {
		return nil, err
	}
	return &EchoRouter{inProcess: p}, nil
}

var echoParam = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

// RouteURI rewrites echo parameters: /widgets/:id/* -> /widgets/{id}/{wildcard}.
func (e *EchoRouter) RouteURI(route Route) string {
	return EchoURI(route.Template)
}

// EchoURI converts an echo path to an OpenAPI path template.
func EchoURI(path string) string {
	uri := echoParam.ReplaceAllString(path, "{$1}")

	out := make([]byte, 0, len(uri))
	for i := 0; i < len(uri); i++ {
		if uri[i] == '*' {
			out = append(out, "{wildcard}"...)
			continue
		}
		out = append(out, uri[i])
	}

	return string(out)
}

func setHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if id := muxhandlers.RequestIDFromContext(req.Context()); id != "" {
		req.Header.Set(muxhandlers.RequestIDHeader, id)
	}
}
