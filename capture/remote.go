package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// errNoBaseURL is returned by NewHTTPRouter without a base URL.
var errNoBaseURL = errors.New("http router: base url is required")

// HTTPRouter calls routes over the network against a running server.
type HTTPRouter struct {
	baseURL string
	headers map[string]string
	client  *http.Client
}

// NewHTTPRouter returns a router calling opts.BaseURL.
func NewHTTPRouter(opts Options) (*HTTPRouter, error) {
	if opts.BaseURL == "" {
		return nil, errNoBaseURL
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("http router: %w", err)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &HTTPRouter{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		headers: opts.Headers,
		client:  client,
	}, nil
}

// RouteURI strips macros and patterns like the mux kind.
func (h *HTTPRouter) RouteURI(route Route) string {
	return muxURI(route)
}

// Invoke sends the request and reads the whole body.
func (h *HTTPRouter) Invoke(ctx context.Context, method, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+uri, nil)
	if err != nil {
		return nil, err
	}
	setHeaders(req, h.headers)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}
