package topology

import (
	"math"
	"sort"

	"github.com/Jazzy96/topo-planner/log"
	"github.com/Jazzy96/topo-planner/models"
)

// BuildTree runs the constrained maximum-weight spanning-tree construction
// (§4.2): a Prim-style greedy that attaches the highest-weight admissible
// edge on every iteration, alternating backhaul band by tree-level parity.
// The returned PlannedTopology carries only Parent/Level/BackhaulBand;
// channel assignment is a separate pass (AssignChannels).
func BuildTree(nodes models.Nodes, edges models.Edges, cfg models.TopologyConfig) (models.PlannedTopology, error) {
	if len(nodes) == 0 {
		return nil, NewTopologyGenerationError("build", "node set is empty")
	}

	root := nodes.SortedIDs()[0]
	tree := make(models.PlannedTopology, len(nodes))
	tree[root] = &models.PlannedNode{
		Level:     0,
		Channel:   []int{},
		Bandwidth: []int{},
		MaxEIRP:   []float64{},
	}

	selected := map[string]bool{root: true}
	unselected := make(map[string]bool, len(nodes)-1)
	for id := range nodes {
		if id != root {
			unselected[id] = true
		}
	}
	childCount := make(map[string]int)

	maxIterations := len(nodes) * 2
	iteration := 0
	for len(unselected) > 0 && iteration < maxIterations {
		parent, child, weight, found := findBestEdge(selected, unselected, nodes, edges, tree, cfg, childCount)
		if !found {
			log.Warn("no more admissible edges; leaving nodes unattached", "remaining", len(unselected))
			break
		}
		if math.IsInf(weight, -1) {
			return nil, NewTopologyGenerationError("build", "best candidate edge %s-%s has an invalid weight", parent, child)
		}

		parentLevel := tree[parent].Level
		band := "H"
		if parentLevel%2 != 0 {
			band = "L"
		}
		tree[child] = &models.PlannedNode{
			Parent:       strPtr(parent),
			BackhaulBand: strPtr(band),
			Level:        parentLevel + 1,
			Channel:      []int{},
			Bandwidth:    []int{},
			MaxEIRP:      []float64{},
		}
		childCount[parent]++
		selected[child] = true
		delete(unselected, child)
		iteration++
	}

	if iteration >= maxIterations && len(unselected) > 0 {
		return nil, NewTopologyGenerationError("build", "exceeded maximum iteration count building the tree")
	}
	if len(unselected) > 0 {
		remaining := make([]string, 0, len(unselected))
		for id := range unselected {
			remaining = append(remaining, id)
		}
		sort.Strings(remaining)
		log.Warn("topology has unattached nodes", "nodes", remaining)
	}

	return tree, nil
}

// findBestEdge scans every (parent in selected, child in unselected) pair in
// sorted order and returns the admissible candidate with the greatest
// weight. Sorted iteration plus a strict greater-than comparison gives a
// deterministic, lexicographically-smallest tie-break for free.
func findBestEdge(
	selected, unselected map[string]bool,
	nodes models.Nodes,
	edges models.Edges,
	tree models.PlannedTopology,
	cfg models.TopologyConfig,
	childCount map[string]int,
) (parent, child string, weight float64, found bool) {
	parents := make([]string, 0, len(selected))
	for id := range selected {
		parents = append(parents, id)
	}
	sort.Strings(parents)
	children := make([]string, 0, len(unselected))
	for id := range unselected {
		children = append(children, id)
	}
	sort.Strings(children)

	bestWeight := math.Inf(-1)
	bestFound := false
	var bestParent, bestChild string

	for _, p := range parents {
		if tree[p].Level >= cfg.MaxHop {
			continue
		}
		if childCount[p] >= cfg.MaxDegree {
			continue
		}
		for _, c := range children {
			edge, ok := edges.Get(p, c)
			if !ok {
				continue
			}
			if edge.MaxRSSI() < cfg.RSSIThreshold {
				continue
			}
			w := edgeWeight(edge, nodes[p], nodes[c], tree[p].Level, cfg)
			if w > bestWeight {
				bestWeight = w
				bestParent, bestChild = p, c
				bestFound = true
			}
		}
	}

	return bestParent, bestChild, bestWeight, bestFound
}

// edgeWeight computes the Prim selection weight for attaching child to
// parent, per §4.2: throughput (predicted from the best RSSI sample) plus
// combined endpoint load, minus a per-level depth penalty.
func edgeWeight(edge models.Edge, parent, child models.Node, parentLevel int, cfg models.TopologyConfig) float64 {
	throughput := predictThroughput(edge.MaxRSSI())
	return cfg.ThroughputWeight*throughput +
		cfg.LoadWeight*(parent.Load+child.Load) +
		cfg.HopWeight*float64(parentLevel)
}

// predictThroughput is the simple linear RSSI-to-throughput model from
// §4.2: 0 Mbps at -100 dBm and below, 10 Mbps per dB above that.
func predictThroughput(rssi int) float64 {
	v := float64(rssi+100) * 10
	if v < 0 {
		return 0
	}
	return v
}

func strPtr(s string) *string { return &s }
