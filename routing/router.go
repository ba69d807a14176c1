// Package routing wires the API route table onto a mux.Router, adding the
// metrics, panic-recovery, and CORS middleware, and mounting the Prometheus
// scrape endpoint and the static dashboard.
package routing

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jazzy96/topo-planner/config"
	"github.com/Jazzy96/topo-planner/handlers"
	"github.com/Jazzy96/topo-planner/internalmetrics"
	"github.com/Jazzy96/topo-planner/log"
)

// NewRouter creates the router with all API routes, the Prometheus scrape
// endpoint, and the static files handler (§4.7).
func NewRouter(cfg *config.Config, h *handlers.Handlers) *mux.Router {
	webRoot := cfg.Server.WebRoot
	webRootWithSlash := webRoot + "/"

	rootRouter := mux.NewRouter().StrictSlash(false)
	appRouter := rootRouter

	// Due to PathPrefix matching behavior on sub-routers we need to
	// explicitly redirect /foo -> /foo/. See gorilla/mux#31.
	if webRoot != "/" {
		rootRouter.HandleFunc(webRoot, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, webRootWithSlash, http.StatusFound)
		})
		appRouter = rootRouter.PathPrefix(webRoot).Subrouter().StrictSlash(true)
	}

	// Build the API server routes and install them.
	apiRoutes := NewRoutes(h)
	for _, route := range apiRoutes.Routes {
		var handlerFunction http.Handler = route.HandlerFunc
		handlerFunction = metricHandler(handlerFunction, route)
		handlerFunction = recoverMiddleware(handlerFunction)
		handlerFunction = corsMiddleware(handlerFunction)
		appRouter.
			Methods(route.Method, http.MethodOptions).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handlerFunction)
	}

	// The Prometheus scrape endpoint - this reports our internal metrics.
	appRouter.PathPrefix("/metrics").Handler(promhttp.Handler())

	// The dashboard is a single-page app; forward its root to index.html.
	appRouter.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.Server.StaticContentRootDirectory+"/index.html")
	})

	// Build the static files routes: a file server for the dashboard's js
	// and other static assets.
	staticFileServer := http.FileServer(http.Dir(cfg.Server.StaticContentRootDirectory))
	if webRoot != "/" {
		staticFileServer = http.StripPrefix(webRootWithSlash, staticFileServer)
	}
	appRouter.PathPrefix("/").Handler(staticFileServer)

	return rootRouter
}

func metricHandler(next http.Handler, route Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		promtimer := internalmetrics.GetRequestTimer(route.Name)
		defer promtimer.ObserveDuration()
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware turns a panic anywhere below it into a logged 500
// instead of taking the process down.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic handling request", "path", r.URL.Path, "recover", rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware applies the permissive cross-origin policy the dashboard
// needs when served from a different origin than the API (§4.7).
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
