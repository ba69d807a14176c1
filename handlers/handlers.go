// Package handlers implements the HTTP surface's request handlers (C9):
// topology generation, result listing/retrieval, the maps-key proxy, and
// the health check.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Jazzy96/topo-planner/config"
	"github.com/Jazzy96/topo-planner/internalmetrics"
	"github.com/Jazzy96/topo-planner/log"
	"github.com/Jazzy96/topo-planner/store"
	"github.com/Jazzy96/topo-planner/topology"
)

// Handlers bundles the collaborators the HTTP layer needs: the result
// store and the process configuration (for the maps key and planning
// defaults).
type Handlers struct {
	Store  *store.Store
	Config *config.Config
}

// New builds a Handlers bundle.
func New(resultStore *store.Store, cfg *config.Config) *Handlers {
	return &Handlers{Store: resultStore, Config: cfg}
}

// topologyRequest is the POST /api/generate_topology request body.
type topologyRequest struct {
	NodesJSON  string `json:"nodes_json"`
	EdgesJSON  string `json:"edges_json"`
	ConfigJSON string `json:"config_json"`
}

// GenerateTopology runs the planner facade over the request body and
// persists a successful result. Per §4.7, a MeshTopology-family planning
// error still yields HTTP 200 with status:"error" in the body; only a
// malformed request body yields 400.
func (h *Handlers) GenerateTopology(w http.ResponseWriter, r *http.Request) {
	var req topologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("malformed generate_topology request body", "error", err.Error())
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	// Layer config_json over the Planning defaults; a non-object passes through to be rejected.
	configJSON := req.ConfigJSON
	var overrides map[string]json.RawMessage
	if strings.TrimSpace(configJSON) == "" || json.Unmarshal([]byte(configJSON), &overrides) == nil {
		merged := map[string]json.RawMessage{}
		if defaults, err := json.Marshal(h.Config.Planning); err == nil {
			_ = json.Unmarshal(defaults, &merged)
		}
		for k, v := range overrides {
			merged[k] = v
		}
		if b, err := json.Marshal(merged); err == nil {
			configJSON = string(b)
		}
	}
	result := topology.Plan(req.NodesJSON, req.EdgesJSON, configJSON)
	internalmetrics.ObservePlanOutcome(planOutcomeLabel(result), len(result.Data))

	body, err := result.JSON()
	if err != nil {
		log.Error("failed to serialise planning result", "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if result.Status == "success" {
		if filename, err := h.Store.Save(len(result.Data), body); err != nil {
			log.Error("failed to persist planning result", "error", err.Error())
		} else {
			log.Info("persisted planning result", "filename", filename)
		}
	}

	writeJSON(w, http.StatusOK, body)
}

func planOutcomeLabel(r topology.Result) string {
	if r.Status == "success" {
		return "success"
	}
	return r.ErrorType
}

// ListResults returns every persisted planning result, newest first.
func (h *Handlers) ListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.Store.List()
	if err != nil {
		log.Error("failed to list results", "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	encodeJSON(w, http.StatusOK, results)
}

// GetResult returns one persisted planning result by filename.
func (h *Handlers) GetResult(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	data, err := h.Store.Get(filename)
	if err != nil {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// MapsKey proxies the configured Google Maps API key to the dashboard.
func (h *Handlers) MapsKey(w http.ResponseWriter, r *http.Request) {
	key := h.Config.Maps.GoogleMapsAPIKey
	if strings.TrimSpace(key) == "" {
		http.Error(w, "Google Maps API key not configured", http.StatusInternalServerError)
		return
	}
	encodeJSON(w, http.StatusOK, map[string]string{"key": key})
}

// Health is a liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	encodeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func encodeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
