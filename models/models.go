// Package models holds the data model shared by the validator, tree builder,
// channel assigner and planner facade: nodes, edges, the per-request planning
// config, and the planned-node result records.
package models

import "sort"

// Band identifies one of the two 6 GHz sub-bands a radio can operate in.
type Band string

const (
	Band6GH Band = "6GH"
	Band6GL Band = "6GL"
)

// Bandwidth identifies a channel width, as the key used in a Node's channel
// and EIRP tables.
type Bandwidth string

const (
	Bandwidth160M Bandwidth = "160M"
	Bandwidth80M  Bandwidth = "80M"
	Bandwidth40M  Bandwidth = "40M"
	Bandwidth20M  Bandwidth = "20M"
)

// BandwidthOrder is the backoff order the channel assigner tries, widest first.
var BandwidthOrder = []Bandwidth{Bandwidth160M, Bandwidth80M, Bandwidth40M, Bandwidth20M}

// MHz returns the numeric channel width in MHz for a Bandwidth tag.
func (bw Bandwidth) MHz() int {
	switch bw {
	case Bandwidth160M:
		return 160
	case Bandwidth80M:
		return 80
	case Bandwidth40M:
		return 40
	case Bandwidth20M:
		return 20
	default:
		return 0
	}
}

// ChannelTable maps band -> bandwidth -> ordered channel numbers. Order is
// significant: it is the index used to look up the matching EIRP value.
type ChannelTable map[Band]map[Bandwidth][]int

// EIRPTable mirrors ChannelTable's shape with the regulator-capped transmit
// power, in dBm, for each channel at the corresponding index.
type EIRPTable map[Band]map[Bandwidth][]float64

// Node is one candidate mesh radio.
type Node struct {
	GPS      [2]float64   `json:"gps"`
	Load     float64      `json:"load"`
	Channels ChannelTable `json:"channels"`
	MaxEIRP  EIRPTable    `json:"maxEirp"`
}

// Nodes maps node id (conventionally "SN<number>") to its Node record.
type Nodes map[string]Node

// SortedIDs returns the node ids in ascending lexicographic order.
func (n Nodes) SortedIDs() []string {
	ids := make([]string, 0, len(n))
	for id := range n {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edge is a measured link between two nodes: bidirectional RSSI per band.
type Edge struct {
	RSSI6GH [2]int `json:"rssi_6gh"`
	RSSI6GL [2]int `json:"rssi_6gl"`
}

// MaxRSSI returns the strongest of the four RSSI samples carried by the edge.
func (e Edge) MaxRSSI() int {
	max := e.RSSI6GH[0]
	for _, v := range []int{e.RSSI6GH[0], e.RSSI6GH[1], e.RSSI6GL[0], e.RSSI6GL[1]} {
		if v > max {
			max = v
		}
	}
	return max
}

// EdgeKey identifies an edge by its unordered endpoint pair. Use NewEdgeKey
// to build one so that both orientations hash to the same key.
type EdgeKey struct {
	A, B string
}

// NewEdgeKey builds a canonical (sorted) key for the unordered pair (a, b).
func NewEdgeKey(a, b string) EdgeKey {
	if a <= b {
		return EdgeKey{A: a, B: b}
	}
	return EdgeKey{A: b, B: a}
}

// Edges maps a canonical EdgeKey to the measured link between its endpoints.
type Edges map[EdgeKey]Edge

// Get looks up the edge between a and b regardless of declaration order.
func (e Edges) Get(a, b string) (Edge, bool) {
	edge, ok := e[NewEdgeKey(a, b)]
	return edge, ok
}

// PlannedNode is one node's entry in the output topology: its place in the
// tree plus its radio assignment. Created empty by the tree builder and
// filled in by the channel assigner.
type PlannedNode struct {
	Parent       *string  `json:"parent"`
	BackhaulBand *string  `json:"backhaulBand"`
	Level        int      `json:"level"`
	Channel      []int    `json:"channel"`
	Bandwidth    []int    `json:"bandwidth"`
	MaxEIRP      []float64 `json:"maxEirp"`
}

// PlannedTopology maps node id to its PlannedNode record.
type PlannedTopology map[string]*PlannedNode

// TopologyConfig is the fixed set of numeric knobs a planning run is
// constructed with. A request may override any subset via config_json; the
// rest default to DefaultTopologyConfig.
type TopologyConfig struct {
	MaxDegree             int     `json:"MAX_DEGREE" yaml:"MAX_DEGREE"`
	RSSIThreshold         int     `json:"RSSI_THRESHOLD" yaml:"RSSI_THRESHOLD"`
	MaxHop                int     `json:"MAX_HOP" yaml:"MAX_HOP"`
	ThroughputWeight      float64 `json:"THROUGHPUT_WEIGHT" yaml:"THROUGHPUT_WEIGHT"`
	LoadWeight            float64 `json:"LOAD_WEIGHT" yaml:"LOAD_WEIGHT"`
	HopWeight             float64 `json:"HOP_WEIGHT" yaml:"HOP_WEIGHT"`
	RSSIConflictThreshold int     `json:"RSSI_CONFLICT_THRESHOLD" yaml:"RSSI_CONFLICT_THRESHOLD"`
}

// DefaultTopologyConfig returns the default planning knobs from the spec.
func DefaultTopologyConfig() TopologyConfig {
	return TopologyConfig{
		MaxDegree:             3,
		RSSIThreshold:         -72,
		MaxHop:                5,
		ThroughputWeight:      1.0,
		LoadWeight:            0.5,
		HopWeight:             -80.0,
		RSSIConflictThreshold: -85,
	}
}
