// Package topology implements the core two-stage planner: input validation
// (C3), constrained maximum-weight spanning-tree construction (C4),
// per-level channel/bandwidth/EIRP assignment (C5), and the facade (C6)
// that drives the three and renders a result document.
package topology

import (
	"encoding/json"

	"github.com/Jazzy96/topo-planner/log"
	"github.com/Jazzy96/topo-planner/models"
)

// Result is the facade's output: either a populated Data topology on
// success, or an ErrorType/Message pair on failure. Its JSON shape is the
// contract described in §4.4/§6.
type Result struct {
	Status    string                 `json:"status"`
	Data      models.PlannedTopology `json:"data,omitempty"`
	ErrorType string                 `json:"error_type,omitempty"`
	Message   string                 `json:"message,omitempty"`
}

// JSON serialises the result document.
func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// Plan is the planner facade (C6): it decodes and validates the three
// request payloads, builds the constrained spanning tree, assigns channels,
// and renders the outcome as a Result. It never panics out to the caller:
// any unexpected failure is rendered as an UnexpectedError result.
func Plan(nodesJSON, edgesJSON, configJSON string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic during topology planning", "recover", r)
			result = Result{Status: "error", ErrorType: "UnexpectedError", Message: "internal error"}
		}
	}()

	log.Info("starting topology planning run")

	nodes, edges, cfg, err := Decode(nodesJSON, edgesJSON, configJSON)
	if err != nil {
		return errorResult(err)
	}

	tree, err := BuildTree(nodes, edges, cfg)
	if err != nil {
		return errorResult(err)
	}

	if err := AssignChannels(tree, nodes, edges, cfg); err != nil {
		return errorResult(err)
	}

	log.Info("topology planning run succeeded", "planned_nodes", len(tree))
	return Result{Status: "success", Data: tree}
}

func errorResult(err error) Result {
	if mte, ok := err.(MeshTopologyError); ok {
		log.Error("topology planning failed", "error_type", mte.ErrorType(), "message", mte.Error(), "details", mte.Details())
		return Result{Status: "error", ErrorType: mte.ErrorType(), Message: mte.Error()}
	}
	log.Error("unexpected error during topology planning", "error", err.Error())
	return Result{Status: "error", ErrorType: "UnexpectedError", Message: "internal error"}
}
