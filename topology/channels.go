package topology

import (
	"sort"

	"github.com/Jazzy96/topo-planner/log"
	"github.com/Jazzy96/topo-planner/models"
)

// AssignChannels runs the per-level, load-ordered channel/bandwidth/EIRP
// assignment (§4.3) over a tree skeleton produced by BuildTree, mutating
// each PlannedNode in place.
func AssignChannels(tree models.PlannedTopology, nodes models.Nodes, edges models.Edges, cfg models.TopologyConfig) error {
	if len(tree) == 0 {
		return NewChannelAssignmentError("", "", nil, nil, "topology is empty")
	}

	rootID, err := findRoot(tree)
	if err != nil {
		return err
	}
	assignRootChannels(rootID, tree, nodes)

	levels := groupByLevel(tree)
	sortedLevels := make([]int, 0, len(levels))
	for level := range levels {
		if level == 0 {
			continue
		}
		sortedLevels = append(sortedLevels, level)
	}
	sort.Ints(sortedLevels)

	for _, level := range sortedLevels {
		ids := sortByLoadDescending(levels[level], nodes)
		for _, nodeID := range ids {
			planned := tree[nodeID]
			if planned.Parent == nil {
				return NewChannelAssignmentError(nodeID, "", nil, nil, "node %s has no parent assigned", nodeID)
			}
			if planned.BackhaulBand == nil || (*planned.BackhaulBand != "H" && *planned.BackhaulBand != "L") {
				return NewChannelAssignmentError(nodeID, "", nil, nil, "node %s has an invalid backhaul band", nodeID)
			}
			band := models.Band6GH
			if *planned.BackhaulBand == "L" {
				band = models.Band6GL
			}

			conflictNodes := conflictingNodes(nodeID, edges, cfg)
			if !tryAssignChannel(nodeID, band, tree, nodes, conflictNodes) {
				log.Warn("node could not get its preferred bandwidth, retrying minimum bandwidth", "node", nodeID)
				if !tryAssignChannel(nodeID, band, tree, nodes, conflictNodes) {
					return NewChannelAssignmentError(nodeID, string(band), attemptedChannels(nodeID, band, nodes), conflictNodes,
						"node %s could not be assigned any valid channel on band %s", nodeID, band)
				}
			}
		}
	}

	return nil
}

func findRoot(tree models.PlannedTopology) (string, error) {
	ids := make([]string, 0, len(tree))
	for id := range tree {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if tree[id].Parent == nil {
			return id, nil
		}
	}
	return "", NewChannelAssignmentError("", "", nil, nil, "no root node found in topology")
}

// assignRootChannels gives the root up to two radios, one per band, each at
// the widest (160M) channel available; a band with no 160M channel is
// skipped with no fallback (§4.3.1).
func assignRootChannels(rootID string, tree models.PlannedTopology, nodes models.Nodes) {
	root := tree[rootID]
	for _, band := range []models.Band{models.Band6GH, models.Band6GL} {
		channels := nodes[rootID].Channels[band][models.Bandwidth160M]
		if len(channels) == 0 {
			continue
		}
		root.Channel = append(root.Channel, channels[0])
		root.Bandwidth = append(root.Bandwidth, models.Bandwidth160M.MHz())
		root.MaxEIRP = append(root.MaxEIRP, nodes[rootID].MaxEIRP[band][models.Bandwidth160M][0])
	}
}

func groupByLevel(tree models.PlannedTopology) map[int][]string {
	levels := make(map[int][]string)
	for id, node := range tree {
		levels[node.Level] = append(levels[node.Level], id)
	}
	return levels
}

// sortByLoadDescending stable-sorts ids by (-load, id), the ordering
// required by §4.3.3.
func sortByLoadDescending(ids []string, nodes models.Nodes) []string {
	sorted := append([]string(nil), ids...)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := nodes[sorted[i]].Load, nodes[sorted[j]].Load
		if li != lj {
			return li > lj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// conflictingNodes returns, sorted, every node id with an edge to nodeID
// whose strongest RSSI sample is at or above RSSI_CONFLICT_THRESHOLD.
func conflictingNodes(nodeID string, edges models.Edges, cfg models.TopologyConfig) []string {
	var conflicts []string
	for key, edge := range edges {
		var other string
		switch nodeID {
		case key.A:
			other = key.B
		case key.B:
			other = key.A
		default:
			continue
		}
		if edge.MaxRSSI() >= cfg.RSSIConflictThreshold {
			conflicts = append(conflicts, other)
		}
	}
	sort.Strings(conflicts)
	return conflicts
}

// usedChannels is the union of every channel already assigned to a
// conflicting node, regardless of that assignment's band (§4.3.2).
func usedChannels(conflictNodes []string, tree models.PlannedTopology) map[int]bool {
	used := make(map[int]bool)
	for _, id := range conflictNodes {
		planned, ok := tree[id]
		if !ok {
			continue
		}
		for _, ch := range planned.Channel {
			used[ch] = true
		}
	}
	return used
}

// tryAssignChannel attempts the bandwidth-backoff loop of §4.3.2: widest to
// narrowest, taking the first declared channel not already used by a
// conflicting node. Appends channel/bandwidth/EIRP to the node's
// PlannedNode and returns true on success.
func tryAssignChannel(nodeID string, band models.Band, tree models.PlannedTopology, nodes models.Nodes, conflictNodes []string) bool {
	used := usedChannels(conflictNodes, tree)
	node := nodes[nodeID]

	for _, bw := range models.BandwidthOrder {
		declared := node.Channels[band][bw]
		for i, ch := range declared {
			if used[ch] {
				continue
			}
			planned := tree[nodeID]
			planned.Channel = append(planned.Channel, ch)
			planned.Bandwidth = append(planned.Bandwidth, bw.MHz())
			planned.MaxEIRP = append(planned.MaxEIRP, node.MaxEIRP[band][bw][i])
			return true
		}
	}
	return false
}

// attemptedChannels flattens every channel this node declared on band,
// across all bandwidths, for use in a ChannelAssignmentError.
func attemptedChannels(nodeID string, band models.Band, nodes models.Nodes) []int {
	var all []int
	for _, bw := range models.BandwidthOrder {
		all = append(all, nodes[nodeID].Channels[band][bw]...)
	}
	return all
}
