// Package mirror serves read-only queries over the current domain model
// through any supported web framework.
package mirror

import (
	"context"
	"net/http"
)

// WebServer defines the contract for web server implementations
type WebServer interface {
	// Route registration
	RegisterRoute(method string, path Path, handler HandlerFunc, middlewares ...MiddlewareFunc)

	// Global middleware
	Use(middleware MiddlewareFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	// Handler exposes the server as a standard http.Handler
	Handler() http.Handler

	// Name returns the framework name
	Name() string
}

// RequestContext provides a framework-agnostic view of one request
type RequestContext interface {
	Method() string
	Path() string

	Param(key string) string
	QueryParam(key string) string
	QueryParams() map[string][]string

	Header(key string) string
	Context() context.Context

	Response() ResponseInterface
}

// ResponseInterface provides response writing capabilities
type ResponseInterface interface {
	Status() int
	Header(key string) string
	SetHeader(key, value string)

	JSON(code int, i interface{}) error
	Blob(code int, contentType string, b []byte) error
	NoContent(code int) error
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc
