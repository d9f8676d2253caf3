package adapters

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/toyz/mirror/pkg/mirror"
)

// FiberAdapter wraps a Fiber app to implement mirror.WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a Fiber adapter whose unhandled errors render as JSON
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(mirror.NewHttpError(code, err.Error()))
		},
	})

	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter with panic recovery
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(recover.New())
	return adapter
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method string, path mirror.Path, handler mirror.HandlerFunc, middlewares ...mirror.MiddlewareFunc) {
	var handlers []fiber.Handler
	for _, mw := range middlewares {
		handlers = append(handlers, convertMiddlewareToFiber(mw))
	}
	handlers = append(handlers, convertHandlerToFiber(handler))

	fa.app.Add(method, path.ColonPath("*"), handlers...)
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware mirror.MiddlewareFunc) {
	fa.app.Use(convertMiddlewareToFiber(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Handler exposes the Fiber app through net/http
func (fa *FiberAdapter) Handler() http.Handler {
	return adaptor.FiberApp(fa.app)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

func convertHandlerToFiber(handler mirror.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := &FiberRequestContext{ctx: c}
		if err := handler(ctx); err != nil {
			return mirror.WriteError(ctx, err)
		}
		return nil
	}
}

func convertMiddlewareToFiber(mw mirror.MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := &FiberRequestContext{ctx: c}
		err := mw(func(mirror.RequestContext) error {
			return c.Next()
		})(ctx)
		if err != nil {
			return mirror.WriteError(ctx, err)
		}
		return nil
	}
}

// FiberRequestContext wraps fiber.Ctx to implement mirror.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

func (frc *FiberRequestContext) QueryParam(key string) string {
	return frc.ctx.Query(key)
}

func (frc *FiberRequestContext) QueryParams() map[string][]string {
	result := make(map[string][]string)
	frc.ctx.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		result[k] = append(result[k], string(value))
	})
	return result
}

func (frc *FiberRequestContext) Header(key string) string {
	return frc.ctx.Get(key)
}

func (frc *FiberRequestContext) Context() context.Context {
	return frc.ctx.UserContext()
}

func (frc *FiberRequestContext) Response() mirror.ResponseInterface {
	return &FiberResponse{ctx: frc.ctx}
}

// FiberResponse implements mirror.ResponseInterface for Fiber
type FiberResponse struct {
	ctx *fiber.Ctx
}

func (fr *FiberResponse) Status() int {
	return fr.ctx.Response().StatusCode()
}

func (fr *FiberResponse) Header(key string) string {
	return string(fr.ctx.Response().Header.Peek(key))
}

func (fr *FiberResponse) SetHeader(key, value string) {
	fr.ctx.Set(key, value)
}

func (fr *FiberResponse) JSON(code int, data interface{}) error {
	return fr.ctx.Status(code).JSON(data)
}

func (fr *FiberResponse) Blob(code int, contentType string, data []byte) error {
	fr.ctx.Set(fiber.HeaderContentType, contentType)
	return fr.ctx.Status(code).Send(data)
}

func (fr *FiberResponse) NoContent(code int) error {
	return fr.ctx.SendStatus(code)
}
