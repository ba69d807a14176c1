package topology

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Jazzy96/topo-planner/log"
	"github.com/Jazzy96/topo-planner/models"
)

var validBands = map[string]bool{"6GH": true, "6GL": true}
var validBandwidths = map[string]bool{"160M": true, "80M": true, "40M": true, "20M": true}

// Decode parses and validates the three request payloads, returning the
// typed Nodes/Edges maps and the effective TopologyConfig. Malformed JSON
// fails with InvalidInputError; domain rule violations fail with
// ValidationError.
func Decode(nodesJSON, edgesJSON, configJSON string) (models.Nodes, models.Edges, models.TopologyConfig, error) {
	var rawNodes map[string]map[string]interface{}
	if err := json.Unmarshal([]byte(nodesJSON), &rawNodes); err != nil {
		return nil, nil, models.TopologyConfig{}, NewInvalidInputError("invalid nodes JSON: %s", err.Error())
	}
	var rawEdges map[string]map[string]interface{}
	if err := json.Unmarshal([]byte(edgesJSON), &rawEdges); err != nil {
		return nil, nil, models.TopologyConfig{}, NewInvalidInputError("invalid edges JSON: %s", err.Error())
	}
	log.Debug("decoded request payload", "nodes", len(rawNodes), "edges", len(rawEdges))

	nodes := make(models.Nodes, len(rawNodes))
	for id, raw := range rawNodes {
		n, err := validateNodeData(id, raw)
		if err != nil {
			return nil, nil, models.TopologyConfig{}, err
		}
		nodes[id] = n
	}

	edges := make(models.Edges, len(rawEdges))
	for key, raw := range rawEdges {
		a, b, e, err := validateEdgeData(key, raw, nodes)
		if err != nil {
			return nil, nil, models.TopologyConfig{}, err
		}
		edges[models.NewEdgeKey(a, b)] = e
	}

	config, err := decodeConfig(configJSON)
	if err != nil {
		return nil, nil, models.TopologyConfig{}, err
	}

	return nodes, edges, config, nil
}

func decodeConfig(configJSON string) (models.TopologyConfig, error) {
	config := models.DefaultTopologyConfig()
	if strings.TrimSpace(configJSON) == "" {
		return config, nil
	}
	dec := json.NewDecoder(strings.NewReader(configJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		return models.TopologyConfig{}, NewInvalidInputError("invalid config JSON: %s", err.Error())
	}
	return config, nil
}

// validateNodeData checks the shape and domain constraints of one node's raw
// JSON object and converts it into a models.Node.
func validateNodeData(id string, raw map[string]interface{}) (models.Node, error) {
	required := []string{"gps", "load", "channels", "maxEirp"}
	var missing []string
	for _, field := range required {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return models.Node{}, NewValidationError(
			fmt.Sprintf("node %s is missing required fields", id), strings.Join(missing, ","), nil,
			map[string]interface{}{"required_fields": required})
	}

	gps, err := validateGPS(id, raw["gps"])
	if err != nil {
		return models.Node{}, err
	}

	load, ok := asNumber(raw["load"])
	if !ok || load < 0 {
		return models.Node{}, NewValidationError(
			fmt.Sprintf("node %s has invalid load", id), "load", raw["load"],
			map[string]interface{}{"type": "number", "min": 0})
	}

	channelsRaw, ok := raw["channels"].(map[string]interface{})
	if !ok {
		return models.Node{}, NewValidationError(
			fmt.Sprintf("node %s channels must be an object", id), "channels", raw["channels"], nil)
	}
	channels, err := validateChannelTable(id, "channels", channelsRaw)
	if err != nil {
		return models.Node{}, err
	}

	eirpRaw, ok := raw["maxEirp"].(map[string]interface{})
	if !ok {
		return models.Node{}, NewValidationError(
			fmt.Sprintf("node %s maxEirp must be an object", id), "maxEirp", raw["maxEirp"], nil)
	}
	eirp, err := validateEIRPTable(id, eirpRaw, channels)
	if err != nil {
		return models.Node{}, err
	}

	return models.Node{GPS: gps, Load: load, Channels: channels, MaxEIRP: eirp}, nil
}

func validateGPS(id string, raw interface{}) ([2]float64, error) {
	list, ok := raw.([]interface{})
	if !ok || len(list) != 2 {
		return [2]float64{}, NewValidationError(
			fmt.Sprintf("node %s gps must be a 2-element array", id), "gps", raw,
			map[string]interface{}{"format": "[latitude, longitude]"})
	}
	lat, latOK := asNumber(list[0])
	lon, lonOK := asNumber(list[1])
	if !latOK || !lonOK {
		return [2]float64{}, NewValidationError(
			fmt.Sprintf("node %s gps coordinates must be numeric", id), "gps", raw, nil)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return [2]float64{}, NewValidationError(
			fmt.Sprintf("node %s gps is out of range", id), "gps", raw,
			map[string]interface{}{"latitude": []int{-90, 90}, "longitude": []int{-180, 180}})
	}
	return [2]float64{lat, lon}, nil
}

// validateChannelTable validates the channels map and converts it to a
// ChannelTable.
func validateChannelTable(id, field string, raw map[string]interface{}) (models.ChannelTable, error) {
	table := make(models.ChannelTable)
	for band, bandDataRaw := range raw {
		if !validBands[band] {
			return nil, NewValidationError(
				fmt.Sprintf("node %s has an invalid band %q", id, band), field+"."+band, band,
				map[string]interface{}{"valid_values": []string{"6GH", "6GL"}})
		}
		bandData, ok := bandDataRaw.(map[string]interface{})
		if !ok {
			return nil, NewValidationError(
				fmt.Sprintf("node %s band %s must be an object", id, band), field+"."+band, bandDataRaw, nil)
		}
		table[models.Band(band)] = make(map[models.Bandwidth][]int)
		for bw, listRaw := range bandData {
			if !validBandwidths[bw] {
				return nil, NewValidationError(
					fmt.Sprintf("node %s has an invalid bandwidth %q", id, bw), field+"."+band+"."+bw, bw,
					map[string]interface{}{"valid_values": []string{"160M", "80M", "40M", "20M"}})
			}
			list, ok := listRaw.([]interface{})
			if !ok {
				return nil, NewValidationError(
					fmt.Sprintf("node %s channel list must be an array", id), field+"."+band+"."+bw, listRaw, nil)
			}
			channels := make([]int, len(list))
			for i, v := range list {
				n, ok := asNumber(v)
				if !ok || n != math.Trunc(n) {
					return nil, NewValidationError(
						fmt.Sprintf("node %s channels must be integers", id), field+"."+band+"."+bw, listRaw, nil)
				}
				channels[i] = int(n)
			}
			lo, hi := 1, 100
			if band == "6GH" {
				lo, hi = 100, 200
			}
			for _, ch := range channels {
				if ch < lo || ch > hi {
					return nil, NewValidationError(
						fmt.Sprintf("node %s channel %d out of range for band %s", id, ch, band),
						field+"."+band+"."+bw, channels, map[string]interface{}{"range": []int{lo, hi}})
				}
			}
			table[models.Band(band)][models.Bandwidth(bw)] = channels
		}
	}
	return table, nil
}

func validateEIRPTable(id string, raw map[string]interface{}, channels models.ChannelTable) (models.EIRPTable, error) {
	table := make(models.EIRPTable)
	for band, bandDataRaw := range raw {
		if !validBands[band] {
			return nil, NewValidationError(
				fmt.Sprintf("node %s has an invalid band %q in maxEirp", id, band), "maxEirp."+band, band, nil)
		}
		bandData, ok := bandDataRaw.(map[string]interface{})
		if !ok {
			return nil, NewValidationError(
				fmt.Sprintf("node %s maxEirp band %s must be an object", id, band), "maxEirp."+band, bandDataRaw, nil)
		}
		table[models.Band(band)] = make(map[models.Bandwidth][]float64)
		for bw, listRaw := range bandData {
			if !validBandwidths[bw] {
				return nil, NewValidationError(
					fmt.Sprintf("node %s has an invalid bandwidth %q in maxEirp", id, bw), "maxEirp."+band+"."+bw, bw, nil)
			}
			list, ok := listRaw.([]interface{})
			if !ok {
				return nil, NewValidationError(
					fmt.Sprintf("node %s EIRP list must be an array", id), "maxEirp."+band+"."+bw, listRaw, nil)
			}
			values := make([]float64, len(list))
			for i, v := range list {
				n, ok := asNumber(v)
				if !ok || n < 0 || n > 36 {
					return nil, NewValidationError(
						fmt.Sprintf("node %s EIRP value out of range", id), "maxEirp."+band+"."+bw, listRaw,
						map[string]interface{}{"range": []int{0, 36}})
				}
				values[i] = n
			}
			channelLen := len(channels[models.Band(band)][models.Bandwidth(bw)])
			if len(values) != channelLen {
				return nil, NewValidationError(
					fmt.Sprintf("node %s maxEirp length does not match channels length", id),
					"maxEirp."+band+"."+bw,
					map[string]interface{}{"eirp_length": len(values), "channel_length": channelLen},
					map[string]interface{}{"lengths_must_match": true})
			}
			table[models.Band(band)][models.Bandwidth(bw)] = values
		}
	}
	return table, nil
}

// validateEdgeData checks the shape and domain constraints of one edge's raw
// JSON object, splits its key on the last underscore, and converts it into a
// models.Edge. Both endpoints must already exist in nodes.
func validateEdgeData(key string, raw map[string]interface{}, nodes models.Nodes) (string, string, models.Edge, error) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx >= len(key)-1 {
		return "", "", models.Edge{}, NewValidationError(
			fmt.Sprintf("edge key %q has an invalid format", key), "edge_key", key,
			map[string]interface{}{"format": "SN{number}_SN{number}"})
	}
	a, b := key[:idx], key[idx+1:]
	if !strings.HasPrefix(a, "SN") || !strings.HasPrefix(b, "SN") {
		return "", "", models.Edge{}, NewValidationError(
			fmt.Sprintf("edge key %q has an invalid format", key), "edge_key", key,
			map[string]interface{}{"format": "SN{number}_SN{number}"})
	}
	if _, ok := nodes[a]; !ok {
		return "", "", models.Edge{}, NewValidationError(
			fmt.Sprintf("edge %q references unknown node %q", key, a), "edge_key", key, nil)
	}
	if _, ok := nodes[b]; !ok {
		return "", "", models.Edge{}, NewValidationError(
			fmt.Sprintf("edge %q references unknown node %q", key, b), "edge_key", key, nil)
	}

	required := []string{"rssi_6gh", "rssi_6gl"}
	var missing []string
	for _, field := range required {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return "", "", models.Edge{}, NewValidationError(
			fmt.Sprintf("edge %s is missing required fields", key), strings.Join(missing, ","), key,
			map[string]interface{}{"required_fields": required})
	}

	gh, err := validateRSSIPair(key, "rssi_6gh", raw["rssi_6gh"])
	if err != nil {
		return "", "", models.Edge{}, err
	}
	gl, err := validateRSSIPair(key, "rssi_6gl", raw["rssi_6gl"])
	if err != nil {
		return "", "", models.Edge{}, err
	}

	for i := 0; i < 2; i++ {
		if gh[i] > gl[i] {
			return "", "", models.Edge{}, NewValidationError(
				fmt.Sprintf("edge %s: 6GH RSSI must not be stronger than 6GL", key),
				fmt.Sprintf("rssi_comparison_%d", i), map[string]int{"6gh": gh[i], "6gl": gl[i]},
				map[string]interface{}{"rule": "6GH_RSSI <= 6GL_RSSI"})
		}
		if abs(gh[i]-gl[i]) > 15 {
			return "", "", models.Edge{}, NewValidationError(
				fmt.Sprintf("edge %s: high/low band RSSI differ too much", key),
				fmt.Sprintf("frequency_difference_%d", i), map[string]int{"6gh": gh[i], "6gl": gl[i]},
				map[string]interface{}{"max_difference": 15})
		}
	}

	allWeak := true
	for _, v := range append(append([]int{}, gh[:]...), gl[:]...) {
		if v > -85 {
			allWeak = false
			break
		}
	}
	if allWeak {
		return "", "", models.Edge{}, NewValidationError(
			fmt.Sprintf("edge %s: all RSSI samples are too weak to be a valid link", key),
			"rssi_all", map[string]interface{}{"rssi_6gh": gh, "rssi_6gl": gl},
			map[string]interface{}{"minimum_valid_rssi": -85})
	}

	return a, b, models.Edge{RSSI6GH: gh, RSSI6GL: gl}, nil
}

func validateRSSIPair(key, field string, raw interface{}) ([2]int, error) {
	list, ok := raw.([]interface{})
	if !ok || len(list) != 2 {
		return [2]int{}, NewValidationError(
			fmt.Sprintf("edge %s %s must be a 2-element array", key, field), field, raw,
			map[string]interface{}{"format": "[rssi_forward, rssi_backward]"})
	}
	var out [2]int
	for i, v := range list {
		n, ok := asNumber(v)
		if !ok || n != math.Trunc(n) || n > 0 || n < -100 {
			return [2]int{}, NewValidationError(
				fmt.Sprintf("edge %s %s value out of range", key, field), field, raw,
				map[string]interface{}{"min": -100, "max": 0})
		}
		out[i] = int(n)
	}
	if abs(out[0]-out[1]) > 20 {
		return [2]int{}, NewValidationError(
			fmt.Sprintf("edge %s %s forward/backward RSSI differ too much", key, field), field, out,
			map[string]interface{}{"max_difference": 20})
	}
	return out, nil
}

func asNumber(v interface{}) (float64, bool) {
	n, ok := v.(float64)
	return n, ok
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
