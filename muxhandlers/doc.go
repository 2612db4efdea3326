// Package muxhandlers provides the middleware wrapped around handlers that
// are called in-process to capture example responses, and around the docs
// server.
//
// # Recovery
//
// RecoveryMiddleware turns a panicking handler into a logged 500 response.
// The panic value is echoed in the X-Handler-Panic header.
//
//	r.Use(muxhandlers.RecoveryMiddleware(logger))
//
// # Request ID
//
// RequestIDMiddleware stamps requests with an X-Request-ID (UUID v7 unless
// the caller sent one) and stores it in the request context:
//
//	id := muxhandlers.RequestIDFromContext(r.Context())
//
// # Timeout
//
// TimeoutMiddleware answers 503 Service Unavailable when the handler does
// not finish in time.
//
//	mw, err := muxhandlers.TimeoutMiddleware(5 * time.Second)
//
// # Access Log
//
// AccessLogMiddleware writes one debug event per request with method, uri,
// status, size and duration.
package muxhandlers
