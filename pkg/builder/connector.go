package builder

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// Connector wires output ports to input ports within one graph.
type Connector struct {
	logger  *slog.Logger
	catalog *catalog.Catalog
}

func NewConnector(log *slog.Logger, cat *catalog.Catalog) *Connector {
	return &Connector{
		logger:  log,
		catalog: cat,
	}
}

// Connect validates and records a connection from source's output port to
// target's input port. A data input already holding a connection has it
// replaced; repeating an identical connect returns the existing connection.
// Arguments are never auto-flipped: wrong directions are an error.
func (c *Connector) Connect(graph *models.Graph, sourceNodeID, sourcePortName, targetNodeID, targetPortName string) (*models.Connection, error) {
	graph.Lock()
	defer graph.Unlock()

	sourceNode := graph.FindNode(sourceNodeID)
	if sourceNode == nil {
		return nil, &NodeError{Op: "Connect", Graph: graph.Name, NodeID: sourceNodeID, Err: ErrNodeNotFound}
	}

	targetNode := graph.FindNode(targetNodeID)
	if targetNode == nil {
		return nil, &NodeError{Op: "Connect", Graph: graph.Name, NodeID: targetNodeID, Err: ErrNodeNotFound}
	}

	sourcePort := sourceNode.FindPort(sourcePortName)
	if sourcePort == nil {
		return nil, &PortError{Op: "Connect", NodeID: sourceNodeID, PortName: sourcePortName, Err: ErrPortNotFound}
	}

	targetPort := targetNode.FindPort(targetPortName)
	if targetPort == nil {
		return nil, &PortError{Op: "Connect", NodeID: targetNodeID, PortName: targetPortName, Err: ErrPortNotFound}
	}

	if !sourcePort.IsOutput() || !targetPort.IsInput() {
		return nil, fmt.Errorf("%w: source %s is %s, target %s is %s",
			ErrDirectionMismatch,
			sourcePort.ID, sourcePort.Direction,
			targetPort.ID, targetPort.Direction)
	}

	if !c.compatible(sourcePort.Type, targetPort.Type) {
		return nil, fmt.Errorf("%w: %s (%s) -> %s (%s)",
			ErrTypeMismatch,
			sourcePort.ID, sourcePort.Type.Category,
			targetPort.ID, targetPort.Type.Category)
	}

	for _, existing := range graph.Connections {
		if existing.SourcePort == sourcePort.ID && existing.TargetPort == targetPort.ID {
			return existing, nil
		}
	}

	// Data inputs hold at most one incoming connection: replace semantics.
	if targetPort.Type.IsData() {
		if previous := graph.IncomingConnection(targetPort.ID); previous != nil {
			graph.RemoveConnection(previous.ID)
			c.logger.Debug("Replaced connection", "graph", graph.Name, "old", previous.ID)
		}
	}

	connection := &models.Connection{
		ID:         uuid.New().String(),
		SourcePort: sourcePort.ID,
		TargetPort: targetPort.ID,
	}
	graph.Connections = append(graph.Connections, connection)

	c.logger.Debug("Connected ports",
		"graph", graph.Name, "source", sourcePort.ID, "target", targetPort.ID)

	return connection, nil
}

// compatible reports whether two declared port types may be connected: equal
// types, either side wildcard, or a class reference whose concrete source
// type is assignable to the target's constraint.
func (c *Connector) compatible(source, target models.PortType) bool {
	if source.IsExec() || target.IsExec() {
		return source.Category == target.Category
	}

	if source.IsWildcard() || target.IsWildcard() {
		return true
	}

	if source.Category != target.Category {
		return false
	}

	if source.Category == models.PortCategoryClass {
		if target.SubObject == "" {
			return true
		}

		return c.catalog.IsAssignable(source.SubObject, target.SubObject)
	}

	return source.SubObject == target.SubObject
}
