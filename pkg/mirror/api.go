package mirror

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/toyz/mirror/internal/models"
	"github.com/toyz/mirror/internal/registry"
	"github.com/toyz/mirror/internal/utils"
)

const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Route is one registered endpoint
type Route struct {
	Method  string
	Path    Path
	Handler HandlerFunc
	Cached  bool
}

// API answers read-only queries against the model published by a Source.
// Responses are cached per model fingerprint, so a swapped model never
// serves stale bodies.
type API struct {
	source      registry.Source
	cache       *gocache.Cache
	diagnostics *utils.DiagnosticSystem
}

// APIOption configures an API
type APIOption func(*API)

// WithCacheTTL sets how long rendered responses are kept. Zero disables caching.
func WithCacheTTL(ttl time.Duration) APIOption {
	return func(a *API) {
		if ttl <= 0 {
			a.cache = nil
			return
		}
		a.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithDiagnostics routes request logging to d
func WithDiagnostics(d *utils.DiagnosticSystem) APIOption {
	return func(a *API) {
		a.diagnostics = d
	}
}

// NewAPI creates an API over source
func NewAPI(source registry.Source, opts ...APIOption) *API {
	a := &API{
		source: source,
		cache:  gocache.New(DefaultCacheTTL, DefaultCleanupInterval),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Routes lists every endpoint of the API
func (a *API) Routes() []Route {
	return []Route{
		{http.MethodGet, "/healthz", a.health, false},
		{http.MethodGet, "/types", a.cached(a.listTypes), true},
		{http.MethodGet, "/types/{name}", a.cached(a.getType), true},
		{http.MethodGet, "/types/{name}/relations", a.cached(a.relations), true},
		{http.MethodGet, "/events/{name}/publishers", a.cached(a.publishers), true},
		{http.MethodGet, "/events/{name}/listeners", a.cached(a.listeners), true},
		{http.MethodGet, "/commands/{name}/processors", a.cached(a.processors), true},
		{http.MethodGet, "/contexts", a.cached(a.contexts), true},
		{http.MethodGet, "/contexts/{package}/members", a.cached(a.members), true},
	}
}

// Register installs every route on server
func (a *API) Register(server WebServer) {
	if a.diagnostics != nil {
		server.Use(RequestLogger(a.diagnostics))
	}
	for _, r := range a.Routes() {
		server.RegisterRoute(r.Method, r.Path, r.Handler, ErrorHandler)
	}
}

// CacheSize returns the number of cached response bodies
func (a *API) CacheSize() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.ItemCount()
}

type queryFunc func(ctx RequestContext, m *registry.DomainModel) (interface{}, error)

// cached renders a query as JSON, keyed by model fingerprint and request
func (a *API) cached(query queryFunc) HandlerFunc {
	return func(ctx RequestContext) error {
		m := a.source.Current()
		etag := `"` + m.Fingerprint().String() + `"`
		ctx.Response().SetHeader("ETag", etag)
		if ctx.Header("If-None-Match") == etag {
			return ctx.Response().NoContent(http.StatusNotModified)
		}

		key := m.Fingerprint().String() + " " + ctx.Path() + "?" + url.Values(ctx.QueryParams()).Encode()
		if a.cache != nil {
			if body, ok := a.cache.Get(key); ok {
				ctx.Response().SetHeader("X-Mirror-Cache", "HIT")
				return ctx.Response().Blob(http.StatusOK, "application/json", body.([]byte))
			}
		}

		result, err := query(ctx, m)
		if err != nil {
			return err
		}
		body, err := json.Marshal(result)
		if err != nil {
			return ErrInternalServerError(err.Error())
		}
		if a.cache != nil {
			a.cache.SetDefault(key, body)
		}
		ctx.Response().SetHeader("X-Mirror-Cache", "MISS")
		return ctx.Response().Blob(http.StatusOK, "application/json", body)
	}
}

func (a *API) health(ctx RequestContext) error {
	m := a.source.Current()
	return ctx.Response().JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"fingerprint": m.Fingerprint().String(),
		"types":       m.Len(),
		"contexts":    len(m.BoundedContexts()),
	})
}

func (a *API) listTypes(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	kinds, err := parseKinds(ctx)
	if err != nil {
		return nil, err
	}
	return NewTypeSummaries(m, kinds...), nil
}

func (a *API) getType(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	name := ctx.Param("name")
	view, ok := NewTypeView(m, name)
	if !ok {
		return nil, NewHttpErrorWithDetails(http.StatusNotFound, "type not found", map[string]string{"type": name})
	}
	return view, nil
}

func (a *API) relations(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	return NewRelationsView(m, ctx.Param("name")), nil
}

func (a *API) publishers(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	return inverse(ctx, "publishes", m.Publishers)
}

func (a *API) listeners(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	return inverse(ctx, "listens", m.Listeners)
}

func (a *API) processors(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	return inverse(ctx, "processes", m.Processors)
}

func (a *API) contexts(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	return NewContextViews(m), nil
}

func (a *API) members(ctx RequestContext, m *registry.DomainModel) (interface{}, error) {
	pkg := ctx.Param("package")
	if pkg == "." {
		pkg = ""
	}
	if !m.HasBoundedContext(pkg) {
		return nil, NewHttpErrorWithDetails(http.StatusNotFound, "bounded context not found", map[string]string{"package": ctx.Param("package")})
	}
	return NamesView{Name: ctx.Param("package"), Relation: "member", Types: m.Members(pkg)}, nil
}

func inverse(ctx RequestContext, relation string, view func(string, ...models.Kind) []string) (interface{}, error) {
	kinds, err := parseKinds(ctx)
	if err != nil {
		return nil, err
	}
	name := ctx.Param("name")
	out := NamesView{Name: name, Relation: relation, Types: view(name, kinds...)}
	for _, k := range kinds {
		out.Kinds = append(out.Kinds, k.String())
	}
	return out, nil
}

// parseKinds reads ?kind= filters, repeated or comma separated
func parseKinds(ctx RequestContext) ([]models.Kind, error) {
	var kinds []models.Kind
	for _, raw := range ctx.QueryParams()["kind"] {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			k, err := models.ParseKind(s)
			if err != nil {
				return nil, ErrBadRequest(err.Error())
			}
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// RequestLogger logs every request at verbose level
func RequestLogger(d *utils.DiagnosticSystem) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx RequestContext) error {
			start := time.Now()
			err := next(ctx)
			d.Verbose("%s %s %d %s", ctx.Method(), ctx.Path(), ctx.Response().Status(), time.Since(start).Round(time.Microsecond))
			return err
		}
	}
}
