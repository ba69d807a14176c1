package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jazzy96/topo-planner/models"
)

func twoLevelTree() (models.PlannedTopology, models.Nodes, models.Edges) {
	tree := models.PlannedTopology{
		"SN1": {Level: 0, Channel: []int{}, Bandwidth: []int{}, MaxEIRP: []float64{}},
		"SN2": {Level: 1, Parent: strPtr("SN1"), BackhaulBand: strPtr("H"), Channel: []int{}, Bandwidth: []int{}, MaxEIRP: []float64{}},
		"SN3": {Level: 1, Parent: strPtr("SN1"), BackhaulBand: strPtr("L"), Channel: []int{}, Bandwidth: []int{}, MaxEIRP: []float64{}},
	}
	nodes := models.Nodes{
		"SN1": {Channels: models.ChannelTable{
			models.Band6GH: {models.Bandwidth160M: {100}},
			models.Band6GL: {models.Bandwidth160M: {1}},
		}, MaxEIRP: models.EIRPTable{
			models.Band6GH: {models.Bandwidth160M: {30}},
			models.Band6GL: {models.Bandwidth160M: {30}},
		}},
		"SN2": {Load: 5, Channels: models.ChannelTable{
			models.Band6GH: {models.Bandwidth160M: {116}, models.Bandwidth80M: {100}},
		}, MaxEIRP: models.EIRPTable{
			models.Band6GH: {models.Bandwidth160M: {30}, models.Bandwidth80M: {30}},
		}},
		"SN3": {Load: 1, Channels: models.ChannelTable{
			models.Band6GL: {models.Bandwidth160M: {5}},
		}, MaxEIRP: models.EIRPTable{
			models.Band6GL: {models.Bandwidth160M: {30}},
		}},
	}
	edges := models.Edges{}
	return tree, nodes, edges
}

func TestAssignChannelsRootGetsBothBands(t *testing.T) {
	tree, nodes, edges := twoLevelTree()
	err := AssignChannels(tree, nodes, edges, models.DefaultTopologyConfig())
	require.NoError(t, err)

	root := tree["SN1"]
	require.Len(t, root.Channel, 2)
	assert.Contains(t, root.Channel, 100)
	assert.Contains(t, root.Channel, 1)
	assert.Contains(t, root.Bandwidth, 160)
}

func TestAssignChannelsLeafGetsDeclaredChannel(t *testing.T) {
	tree, nodes, edges := twoLevelTree()
	err := AssignChannels(tree, nodes, edges, models.DefaultTopologyConfig())
	require.NoError(t, err)

	sn2 := tree["SN2"]
	require.Len(t, sn2.Channel, 1)
	assert.Equal(t, 116, sn2.Channel[0])
	assert.Equal(t, 160, sn2.Bandwidth[0])
}

func TestAssignChannelsAvoidsConflictingChannel(t *testing.T) {
	tree, nodes, edges := twoLevelTree()
	// Put SN3 on the same band as SN2 and give it two declared channels, so
	// that once SN2 (heavier load, assigned first) claims 116, SN3 must
	// back off to its second declared channel instead of failing.
	nodes["SN3"].Channels[models.Band6GH] = map[models.Bandwidth][]int{models.Bandwidth160M: {116, 120}}
	nodes["SN3"].MaxEIRP[models.Band6GH] = map[models.Bandwidth][]float64{models.Bandwidth160M: {30, 30}}
	tree["SN3"].BackhaulBand = strPtr("H")
	edges[models.NewEdgeKey("SN2", "SN3")] = models.Edge{RSSI6GH: [2]int{-50, -50}, RSSI6GL: [2]int{-50, -50}}

	cfg := models.DefaultTopologyConfig()
	err := AssignChannels(tree, nodes, edges, cfg)
	require.NoError(t, err)

	assert.Equal(t, 116, tree["SN2"].Channel[0])
	assert.Equal(t, 120, tree["SN3"].Channel[0])
}

func TestAssignChannelsFailsWhenNoChannelSurvivesConflict(t *testing.T) {
	tree := models.PlannedTopology{
		"SN1": {Level: 0, Channel: []int{}, Bandwidth: []int{}, MaxEIRP: []float64{}},
		"SN2": {Level: 1, Parent: strPtr("SN1"), BackhaulBand: strPtr("H"), Channel: []int{}, Bandwidth: []int{}, MaxEIRP: []float64{}},
		"SN3": {Level: 1, Parent: strPtr("SN1"), BackhaulBand: strPtr("H"), Channel: []int{}, Bandwidth: []int{}, MaxEIRP: []float64{}},
	}
	nodes := models.Nodes{
		"SN1": {},
		"SN2": {Load: 5, Channels: models.ChannelTable{
			models.Band6GH: {models.Bandwidth160M: {116}},
		}, MaxEIRP: models.EIRPTable{
			models.Band6GH: {models.Bandwidth160M: {30}},
		}},
		"SN3": {Load: 1, Channels: models.ChannelTable{
			models.Band6GH: {models.Bandwidth160M: {116}},
		}, MaxEIRP: models.EIRPTable{
			models.Band6GH: {models.Bandwidth160M: {30}},
		}},
	}
	edges := models.Edges{
		models.NewEdgeKey("SN2", "SN3"): {RSSI6GH: [2]int{-50, -50}, RSSI6GL: [2]int{-50, -50}},
	}

	err := AssignChannels(tree, nodes, edges, models.DefaultTopologyConfig())
	require.Error(t, err)
	assert.Equal(t, "ChannelAssignment", err.(MeshTopologyError).ErrorType())
}

func TestAssignChannelsRejectsMissingRoot(t *testing.T) {
	tree := models.PlannedTopology{
		"SN1": {Level: 0, Parent: strPtr("SN2")},
		"SN2": {Level: 0, Parent: strPtr("SN1")},
	}
	err := AssignChannels(tree, models.Nodes{"SN1": {}, "SN2": {}}, models.Edges{}, models.DefaultTopologyConfig())
	require.Error(t, err)
	assert.Equal(t, "ChannelAssignment", err.(MeshTopologyError).ErrorType())
}
