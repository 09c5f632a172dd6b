package router

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrDuplicateRoute = errors.New("duplicate route")
	ErrNilHandler     = errors.New("nil handler")
)

var pathPattern = regexp.MustCompile(`^/[^\s{}*]*$`)

// Route binds one method and literal path to a handler. Name labels the
// route in metrics.
type Route struct {
	Method  string
	Path    string
	Name    string
	Handler http.HandlerFunc
}

func (r Route) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Method,
			validation.Required,
			validation.In(
				http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			),
		),
		validation.Field(&r.Path,
			validation.Required,
			validation.Match(pathPattern).Error("must be a literal path starting with /"),
		),
		validation.Field(&r.Name, validation.Required),
	); err != nil {
		return err
	}

	if r.Handler == nil {
		return ErrNilHandler
	}

	return nil
}

// Table is the compiled route table. It is safe for concurrent use and is
// never modified after New returns.
type Table struct {
	routes   []Route
	fallback http.HandlerFunc
	mux      *chi.Mux
}

// New validates routes and compiles them with the fallback and middleware.
// Requests with an unknown path or a known path but another method both reach
// the fallback.
func New(routes []Route, fallback http.HandlerFunc, middleware ...func(http.Handler) http.Handler) (*Table, error) {
	if fallback == nil {
		return nil, fmt.Errorf("fallback: %w", ErrNilHandler)
	}

	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		if err := route.Validate(); err != nil {
			return nil, fmt.Errorf("route %s %s: %w", route.Method, route.Path, err)
		}

		key := route.Method + " " + route.Path
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, key)
		}
		seen[key] = struct{}{}
	}

	mux := chi.NewRouter()
	mux.Use(middleware...)
	for _, route := range routes {
		mux.Method(route.Method, route.Path, route.Handler)
	}
	mux.NotFound(fallback)
	mux.MethodNotAllowed(fallback)

	table := &Table{
		routes:   make([]Route, len(routes)),
		fallback: fallback,
		mux:      mux,
	}
	copy(table.routes, routes)

	return table, nil
}

// Handler returns the http.Handler that dispatches through the table.
func (t *Table) Handler() http.Handler {
	return t.mux
}

// Routes returns a copy of the registered routes in registration order.
func (t *Table) Routes() []Route {
	routes := make([]Route, len(t.routes))
	copy(routes, t.routes)
	return routes
}

// Lookup reports which route serves method and path. ok is false when the
// request would reach the fallback.
func (t *Table) Lookup(method, path string) (route Route, ok bool) {
	if !t.mux.Match(chi.NewRouteContext(), method, path) {
		return Route{}, false
	}

	for _, r := range t.routes {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}

	return Route{}, false
}

// RouteName returns the name of the route that served r, or "fallback".
// It is only meaningful once the table has dispatched r.
func RouteName(r *http.Request, routes []Route) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return FallbackName
	}

	pattern := rctx.RoutePattern()
	for _, route := range routes {
		if route.Path == pattern && route.Method == r.Method {
			return route.Name
		}
	}

	return FallbackName
}

// FallbackName labels requests answered by the fallback handler.
const FallbackName = "fallback"
