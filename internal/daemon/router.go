package daemon

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Route binds a handler plus its own middleware to a method and path.
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler
}

// Router wraps httprouter with route-scoped middleware.
type Router struct {
	router *httprouter.Router
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRoutes registers routes on the router.
func WithRoutes(routes ...Route) RouterOption {
	return func(r *Router) {
		r.AddRoutes(routes...)
	}
}

// NewRouter builds a router. Unknown paths and methods answer with JSON errors.
func NewRouter(opts ...RouterOption) *Router {
	hr := httprouter.New()
	hr.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	hr.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r := &Router{router: hr}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes registers routes, applying each route's middleware so the first
// listed runs outermost.
func (r *Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := route.Handler
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}
		r.router.Handler(route.Method, route.Path, handler)
	}
}

// pathParam reads a named path parameter set by httprouter.
func pathParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
