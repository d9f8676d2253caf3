package adapters

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/toyz/mirror/pkg/mirror"
)

// EchoAdapter implements mirror.WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates an Echo adapter with panic recovery and no banner
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	return &EchoAdapter{engine: e}
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method string, path mirror.Path, handler mirror.HandlerFunc, middlewares ...mirror.MiddlewareFunc) {
	echoMiddlewares := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		echoMiddlewares[i] = ea.convertMiddleware(mw)
	}

	ea.engine.Add(method, path.ColonPath("*"), ea.convertHandler(handler), echoMiddlewares...)
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware mirror.MiddlewareFunc) {
	ea.engine.Use(ea.convertMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Handler returns the Echo instance as an http.Handler
func (ea *EchoAdapter) Handler() http.Handler {
	return ea.engine
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

func (ea *EchoAdapter) convertHandler(handler mirror.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := &EchoRequestContext{context: c}
		if err := handler(ctx); err != nil {
			return mirror.WriteError(ctx, err)
		}
		return nil
	}
}

func (ea *EchoAdapter) convertMiddleware(mw mirror.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wrapped := mw(func(mirror.RequestContext) error {
				return next(c)
			})
			return wrapped(&EchoRequestContext{context: c})
		}
	}
}

// EchoRequestContext implements mirror.RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

func (erc *EchoRequestContext) Param(key string) string {
	return erc.context.Param(key)
}

func (erc *EchoRequestContext) QueryParam(key string) string {
	return erc.context.QueryParam(key)
}

func (erc *EchoRequestContext) QueryParams() map[string][]string {
	return erc.context.QueryParams()
}

func (erc *EchoRequestContext) Header(key string) string {
	return erc.context.Request().Header.Get(key)
}

func (erc *EchoRequestContext) Context() context.Context {
	return erc.context.Request().Context()
}

func (erc *EchoRequestContext) Response() mirror.ResponseInterface {
	return &EchoResponse{context: erc.context}
}

// EchoResponse implements mirror.ResponseInterface for Echo responses
type EchoResponse struct {
	context echo.Context
}

func (er *EchoResponse) Status() int {
	return er.context.Response().Status
}

func (er *EchoResponse) Header(key string) string {
	return er.context.Response().Header().Get(key)
}

func (er *EchoResponse) SetHeader(key, value string) {
	er.context.Response().Header().Set(key, value)
}

func (er *EchoResponse) JSON(code int, i interface{}) error {
	return er.context.JSON(code, i)
}

func (er *EchoResponse) Blob(code int, contentType string, b []byte) error {
	return er.context.Blob(code, contentType, b)
}

func (er *EchoResponse) NoContent(code int) error {
	return er.context.NoContent(code)
}
