package adapters

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/toyz/mirror/pkg/mirror"
)

// GinAdapter implements mirror.WebServer for the Gin framework
type GinAdapter struct {
	engine *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a Gin adapter with panic recovery and no request log
func NewDefaultGinAdapter() *GinAdapter {
	g := gin.New()
	g.Use(gin.Recovery())
	return &GinAdapter{engine: g}
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method string, path mirror.Path, handler mirror.HandlerFunc, middlewares ...mirror.MiddlewareFunc) {
	var handlers []gin.HandlerFunc
	for _, mw := range middlewares {
		handlers = append(handlers, ga.convertMiddleware(mw))
	}
	handlers = append(handlers, ga.convertHandler(handler))

	ga.engine.Handle(method, path.ColonPath("*path"), handlers...)
}

// Use registers a global middleware with the Gin server
func (ga *GinAdapter) Use(middleware mirror.MiddlewareFunc) {
	ga.engine.Use(ga.convertMiddleware(middleware))
}

// Start serves the engine on addr until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	server := ga.server
	ga.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	server := ga.server
	ga.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Handler returns the Gin engine as an http.Handler
func (ga *GinAdapter) Handler() http.Handler {
	return ga.engine
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

func (ga *GinAdapter) convertHandler(handler mirror.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := &GinRequestContext{ctx: c}
		if err := handler(ctx); err != nil {
			_ = mirror.WriteError(ctx, err)
		}
	}
}

func (ga *GinAdapter) convertMiddleware(mw mirror.MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := &GinRequestContext{ctx: c}
		next := func(mirror.RequestContext) error {
			c.Next()
			return nil
		}
		if err := mw(next)(ctx); err != nil {
			_ = mirror.WriteError(ctx, err)
			c.Abort()
		}
	}
}

// GinRequestContext implements mirror.RequestContext for Gin
type GinRequestContext struct {
	ctx *gin.Context
}

func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

// Param returns a path parameter. Gin names the catch-all "path".
func (grc *GinRequestContext) Param(name string) string {
	if name == "*" {
		return grc.ctx.Param("path")
	}
	return grc.ctx.Param(name)
}

func (grc *GinRequestContext) QueryParam(name string) string {
	return grc.ctx.Query(name)
}

func (grc *GinRequestContext) QueryParams() map[string][]string {
	return grc.ctx.Request.URL.Query()
}

func (grc *GinRequestContext) Header(key string) string {
	return grc.ctx.GetHeader(key)
}

func (grc *GinRequestContext) Context() context.Context {
	return grc.ctx.Request.Context()
}

func (grc *GinRequestContext) Response() mirror.ResponseInterface {
	return &GinResponse{ctx: grc.ctx}
}

// GinResponse implements mirror.ResponseInterface for Gin
type GinResponse struct {
	ctx *gin.Context
}

func (gr *GinResponse) Status() int {
	return gr.ctx.Writer.Status()
}

func (gr *GinResponse) Header(key string) string {
	return gr.ctx.Writer.Header().Get(key)
}

func (gr *GinResponse) SetHeader(key, value string) {
	gr.ctx.Header(key, value)
}

func (gr *GinResponse) JSON(code int, i interface{}) error {
	gr.ctx.JSON(code, i)
	return nil
}

func (gr *GinResponse) Blob(code int, contentType string, b []byte) error {
	gr.ctx.Data(code, contentType, b)
	return nil
}

func (gr *GinResponse) NoContent(code int) error {
	gr.ctx.Status(code)
	gr.ctx.Writer.WriteHeaderNow()
	return nil
}
