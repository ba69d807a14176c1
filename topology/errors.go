package topology

import "fmt"

// MeshTopologyError is the common interface implemented by every error the
// planner can raise. The facade asserts an error to this interface to render
// a structured error document; it never leaks a bare error string.
type MeshTopologyError interface {
	error
	// ErrorType is the machine-readable tag rendered in the result document.
	ErrorType() string
	// Details returns the free-form field set carried alongside the message.
	Details() map[string]interface{}
}

// InvalidInputError reports malformed JSON, type coercion failures, or an
// unknown config field.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string       { return e.Msg }
func (e *InvalidInputError) ErrorType() string    { return "InvalidInput" }
func (e *InvalidInputError) Details() map[string]interface{} {
	return map[string]interface{}{}
}

// NewInvalidInputError builds an InvalidInputError with a formatted message.
func NewInvalidInputError(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports a domain rule violation: range, shape, or
// cross-field length mismatch.
type ValidationError struct {
	Msg         string
	Field       string
	Value       interface{}
	Constraints map[string]interface{}
}

func (e *ValidationError) Error() string    { return e.Msg }
func (e *ValidationError) ErrorType() string { return "Validation" }
func (e *ValidationError) Details() map[string]interface{} {
	return map[string]interface{}{
		"field":       e.Field,
		"value":       e.Value,
		"constraints": e.Constraints,
	}
}

// NewValidationError builds a ValidationError.
func NewValidationError(msg, field string, value interface{}, constraints map[string]interface{}) *ValidationError {
	return &ValidationError{Msg: msg, Field: field, Value: value, Constraints: constraints}
}

// TopologyGenerationError reports an empty input set, an impossible tree
// state, or the defensive iteration cap being hit.
type TopologyGenerationError struct {
	Msg   string
	Phase string
}

func (e *TopologyGenerationError) Error() string    { return e.Msg }
func (e *TopologyGenerationError) ErrorType() string { return "TopologyGeneration" }
func (e *TopologyGenerationError) Details() map[string]interface{} {
	return map[string]interface{}{"phase": e.Phase}
}

// NewTopologyGenerationError builds a TopologyGenerationError.
func NewTopologyGenerationError(phase, format string, args ...interface{}) *TopologyGenerationError {
	return &TopologyGenerationError{Msg: fmt.Sprintf(format, args...), Phase: phase}
}

// ChannelAssignmentError reports that no band/bandwidth survived conflict
// filtering, a missing parent, or an invalid backhaul band for a node.
type ChannelAssignmentError struct {
	Msg               string
	NodeID            string
	Band              string
	AttemptedChannels []int
	ConflictNodes     []string
}

func (e *ChannelAssignmentError) Error() string    { return e.Msg }
func (e *ChannelAssignmentError) ErrorType() string { return "ChannelAssignment" }
func (e *ChannelAssignmentError) Details() map[string]interface{} {
	return map[string]interface{}{
		"node_id":            e.NodeID,
		"band":               e.Band,
		"attempted_channels": e.AttemptedChannels,
		"conflict_nodes":     e.ConflictNodes,
	}
}

// NewChannelAssignmentError builds a ChannelAssignmentError.
func NewChannelAssignmentError(nodeID, band string, attempted []int, conflicts []string, format string, args ...interface{}) *ChannelAssignmentError {
	return &ChannelAssignmentError{
		Msg:               fmt.Sprintf(format, args...),
		NodeID:            nodeID,
		Band:              band,
		AttemptedChannels: attempted,
		ConflictNodes:     conflicts,
	}
}
