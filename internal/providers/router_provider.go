package providers

import (
	"net/http"

	"guildcloner/internal/structures"
)

// UnmatchedRoute labels requests no status route claims.
const UnmatchedRoute = "unmatched"

type RouterProviderInterface interface {
	// Get registers a read-only route. HEAD is served by the same handler.
	Get(name, url string, handler http.Handler)
	GetRoutes() []structures.Route
	// Handler mounts every route on one mux with per-route metrics.
	Handler(metrics MetricsProviderInterface) http.Handler
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) Get(name, url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Name:    name,
		Url:     url,
		Handler: readOnly(handler),
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func (rp *RouterProvider) Handler(metrics MetricsProviderInterface) http.Handler {
	mux := http.NewServeMux()
	for _, route := range rp.routes {
		mux.Handle(route.Url, MetricsMiddleware(metrics, route.Name, route.Handler))
	}
	mux.Handle("/", MetricsMiddleware(metrics, UnmatchedRoute, http.NotFoundHandler()))
	return mux
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

// readOnly rejects anything but GET and HEAD; the status server never
// changes state.
func readOnly(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
