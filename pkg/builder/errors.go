// Package builder provides standardized error types for graph mutations.
package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind indicates a node kind absent from the kind registry.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrNodeNotFound indicates a node was not found by the given identifier.
	ErrNodeNotFound = errors.New("node not found")

	// ErrPortNotFound indicates a node has no port with the given name.
	ErrPortNotFound = errors.New("port not found")

	// ErrDirectionMismatch indicates a connection's endpoints have wrong directions.
	ErrDirectionMismatch = errors.New("direction mismatch")

	// ErrTypeMismatch indicates two ports' declared types are incompatible.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidSpec indicates a node spec missing the descriptor its kind requires.
	ErrInvalidSpec = errors.New("invalid node spec")
)

// NodeError wraps node-level failures with the graph and node that caused them.
type NodeError struct {
	Op     string
	Graph  string
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s failed for node %s in graph %s: %v", e.Op, e.NodeID, e.Graph, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (e *NodeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// PortError wraps port-level failures with the owning node and port name.
type PortError struct {
	Op       string
	NodeID   string
	PortName string
	Err      error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("%s failed for port %s on node %s: %v", e.Op, e.PortName, e.NodeID, e.Err)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

func (e *PortError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsNodeNotFound checks if an error indicates a missing node.
func IsNodeNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}

// IsPortNotFound checks if an error indicates a missing port.
func IsPortNotFound(err error) bool {
	return errors.Is(err, ErrPortNotFound)
}

// IsUnknownKind checks if an error indicates an unregistered node kind.
func IsUnknownKind(err error) bool {
	return errors.Is(err, ErrUnknownKind)
}
