package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jazzy96/topo-planner/config"
	"github.com/Jazzy96/topo-planner/store"
)

func setup(t *testing.T) (*Handlers, *mux.Router) {
	cfg := config.Default()
	cfg.Server.ResultsDirectory = t.TempDir()
	h := New(store.New(cfg.Server.ResultsDirectory, nil), cfg)

	r := mux.NewRouter()
	r.HandleFunc("/api/generate_topology", h.GenerateTopology).Methods("POST")
	r.HandleFunc("/api/results", h.ListResults).Methods("GET")
	r.HandleFunc("/api/result/{filename}", h.GetResult).Methods("GET")
	r.HandleFunc("/api/maps/key", h.MapsKey).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	return h, r
}

func TestHealth(t *testing.T) {
	_, r := setup(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateTopologyMalformedBodyReturns400(t *testing.T) {
	_, r := setup(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/generate_topology", "application/json", bytes.NewBufferString("not json"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateTopologyPlanningErrorStillReturns200(t *testing.T) {
	_, r := setup(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{
		"nodes_json":  `{"SN1": {}}`,
		"edges_json":  "{}",
		"config_json": "",
	})
	resp, err := http.Post(ts.URL+"/api/generate_topology", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "error", result["status"])
}

func TestGenerateTopologySuccessPersistsResult(t *testing.T) {
	_, r := setup(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{
		"nodes_json": `{"SN1": {"gps": [0,0], "load": 1, "channels": {"6GH": {"160M": [100]}}, "maxEirp": {"6GH": {"160M": [30]}}}}`,
		"edges_json": "{}",
	})
	resp, err := http.Post(ts.URL+"/api/generate_topology", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "success", result["status"])

	listResp, err := http.Get(ts.URL + "/api/results")
	require.NoError(t, err)
	var results []store.StoredResult
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&results))
	assert.Len(t, results, 1)
}

func TestGetResultNotFound(t *testing.T) {
	_, r := setup(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/result/nonexistent.json")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMapsKeyUnconfiguredReturns500(t *testing.T) {
	_, r := setup(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/maps/key")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestMapsKeyConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Maps.GoogleMapsAPIKey = "abc123"
	cfg.Server.ResultsDirectory = t.TempDir()
	h := New(store.New(cfg.Server.ResultsDirectory, nil), cfg)

	r := mux.NewRouter()
	r.HandleFunc("/api/maps/key", h.MapsKey).Methods("GET")
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/maps/key")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "abc123", body["key"])
}
