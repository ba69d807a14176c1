package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validNodesJSON = `{
	"SN1": {"gps": [37.0, -122.0], "load": 1.5, "channels": {"6GH": {"160M": [100]}, "6GL": {"160M": [1]}}, "maxEirp": {"6GH": {"160M": [30]}, "6GL": {"160M": [30]}}},
	"SN2": {"gps": [37.1, -122.1], "load": 2.0, "channels": {"6GH": {"160M": [116]}, "6GL": {"160M": [5]}}, "maxEirp": {"6GH": {"160M": [30]}, "6GL": {"160M": [30]}}}
}`

const validEdgesJSON = `{
	"SN1_SN2": {"rssi_6gh": [-60, -62], "rssi_6gl": [-55, -57]}
}`

func TestDecodeValidInput(t *testing.T) {
	nodes, edges, cfg, err := Decode(validNodesJSON, validEdgesJSON, "")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Len(t, edges, 1)
	assert.Equal(t, 3, cfg.MaxDegree)

	edge, ok := edges.Get("SN1", "SN2")
	require.True(t, ok)
	assert.Equal(t, -60, edge.RSSI6GH[0])
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, _, _, err := Decode("not json", validEdgesJSON, "")
	require.Error(t, err)
	mte, ok := err.(MeshTopologyError)
	require.True(t, ok)
	assert.Equal(t, "InvalidInput", mte.ErrorType())
}

func TestDecodeRejectsMissingNodeFields(t *testing.T) {
	_, _, _, err := Decode(`{"SN1": {"load": 1}}`, "{}", "")
	require.Error(t, err)
	mte := err.(MeshTopologyError)
	assert.Equal(t, "Validation", mte.ErrorType())
}

func TestDecodeRejectsInvalidBand(t *testing.T) {
	nodesJSON := `{"SN1": {"gps": [0,0], "load": 0, "channels": {"5G": {"160M": [1]}}, "maxEirp": {"5G": {"160M": [1]}}}}`
	_, _, _, err := Decode(nodesJSON, "{}", "")
	require.Error(t, err)
	assert.Equal(t, "Validation", err.(MeshTopologyError).ErrorType())
}

func TestDecodeRejectsEIRPLengthMismatch(t *testing.T) {
	nodesJSON := `{"SN1": {"gps": [0,0], "load": 0, "channels": {"6GH": {"160M": [100, 104]}}, "maxEirp": {"6GH": {"160M": [30]}}}}`
	_, _, _, err := Decode(nodesJSON, "{}", "")
	require.Error(t, err)
	assert.Equal(t, "Validation", err.(MeshTopologyError).ErrorType())
}

func TestDecodeRejectsUnknownEdgeEndpoint(t *testing.T) {
	_, _, _, err := Decode(validNodesJSON, `{"SN1_SN9": {"rssi_6gh": [-60,-60], "rssi_6gl": [-55,-55]}}`, "")
	require.Error(t, err)
	assert.Equal(t, "Validation", err.(MeshTopologyError).ErrorType())
}

func TestDecodeRejectsExcessiveBandDivergence(t *testing.T) {
	edgesJSON := `{"SN1_SN2": {"rssi_6gh": [-60, -60], "rssi_6gl": [-40, -40]}}`
	_, _, _, err := Decode(validNodesJSON, edgesJSON, "")
	require.Error(t, err)
	assert.Equal(t, "Validation", err.(MeshTopologyError).ErrorType())
}

func TestDecodeRejectsAllWeakRSSI(t *testing.T) {
	edgesJSON := `{"SN1_SN2": {"rssi_6gh": [-90, -90], "rssi_6gl": [-90, -90]}}`
	_, _, _, err := Decode(validNodesJSON, edgesJSON, "")
	require.Error(t, err)
	assert.Equal(t, "Validation", err.(MeshTopologyError).ErrorType())
}

func TestDecodeConfigRejectsUnknownField(t *testing.T) {
	_, _, _, err := Decode(validNodesJSON, validEdgesJSON, `{"MAX_DEGREE": 4, "BOGUS_FIELD": 1}`)
	require.Error(t, err)
	assert.Equal(t, "InvalidInput", err.(MeshTopologyError).ErrorType())
}

func TestDecodeConfigOverridesDefaults(t *testing.T) {
	_, _, cfg, err := Decode(validNodesJSON, validEdgesJSON, `{"MAX_DEGREE": 5}`)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxDegree)
	assert.Equal(t, -72, cfg.RSSIThreshold)
}
