package routing

import (
	"net/http"

	"github.com/Jazzy96/topo-planner/handlers"
)

// Route is one entry in the API route table: a name (used as the metrics
// label), an HTTP method, a mux pattern, and the handler to invoke.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Routes is the ordered table of API routes.
type Routes struct {
	Routes []Route
}

// NewRoutes builds the API route table described in §4.7.
func NewRoutes(h *handlers.Handlers) *Routes {
	return &Routes{
		Routes: []Route{
			{Name: "GenerateTopology", Method: "POST", Pattern: "/api/generate_topology", HandlerFunc: h.GenerateTopology},
			{Name: "ListResults", Method: "GET", Pattern: "/api/results", HandlerFunc: h.ListResults},
			{Name: "GetResult", Method: "GET", Pattern: "/api/result/{filename}", HandlerFunc: h.GetResult},
			{Name: "MapsKey", Method: "GET", Pattern: "/api/maps/key", HandlerFunc: h.MapsKey},
			{Name: "Health", Method: "GET", Pattern: "/health", HandlerFunc: h.Health},
		},
	}
}
