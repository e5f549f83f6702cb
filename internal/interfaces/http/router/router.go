// Package router assembles the versioned API from domain route groups.
package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar mounts its routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// EndpointLister is implemented by registrars that can list what they mount
type EndpointLister interface {
	Endpoints(base string) []Endpoint
}

// Endpoint is one registered route with its full path
type Endpoint struct {
	Group  string `json:"group"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (e Endpoint) String() string {
	return e.Method + " " + e.Path
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	endpoints  []Endpoint
	logger     *zap.Logger
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithLogger logs every route at debug level during Setup
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	base := "/api/" + r.apiVersion
	api := r.engine.Group(base)
	r.endpoints = r.endpoints[:0]
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
		if lister, ok := registrar.(EndpointLister); ok {
			r.endpoints = append(r.endpoints, lister.Endpoints(base)...)
		}
	}
	sort.Slice(r.endpoints, func(i, j int) bool {
		if r.endpoints[i].Path != r.endpoints[j].Path {
			return r.endpoints[i].Path < r.endpoints[j].Path
		}
		return r.endpoints[i].Method < r.endpoints[j].Method
	})
	for _, e := range r.endpoints {
		r.logger.Debug("Route registered",
			zap.String("group", e.Group),
			zap.String("method", e.Method),
			zap.String("path", e.Path))
	}
}

// Endpoints lists the routes registered by Setup, sorted by path
func (r *Router) Endpoints() []Endpoint {
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// DomainGroup collects the routes of one domain under a shared prefix
// and middleware chain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Endpoints lists the routes of the group and its subgroups under base
func (dg *DomainGroup) Endpoints(base string) []Endpoint {
	prefix := path.Join(base, dg.prefix)
	out := make([]Endpoint, 0, len(dg.routes))
	for _, route := range dg.routes {
		out = append(out, Endpoint{
			Group:  dg.name,
			Method: route.method,
			Path:   path.Join(prefix, route.path),
		})
	}
	for _, subgroup := range dg.subgroups {
		out = append(out, subgroup.Endpoints(prefix)...)
	}
	return out
}

var (
	_ RouteRegistrar = (*DomainGroup)(nil)
	_ EndpointLister = (*DomainGroup)(nil)
)
