// Package builder instantiates nodes and wires connections inside program
// graphs, keeping every mutation atomic under the graph's lock.
package builder

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/coerce"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// NodeSpec describes the node to create. Kind selects the port shape; the
// descriptor fields feed port typing for the kinds that need them.
type NodeSpec struct {
	Kind      string
	Member    string
	OwnerType string
	Position  models.Position

	// Callable types the data ports of call and event nodes.
	Callable *models.CallableDescriptor

	// Variable types the single data port of variable get/set nodes. A nil
	// variable yields a wildcard port: variable names are trusted and
	// checked no earlier than connection time.
	Variable *models.VariableDescriptor

	// SelfType is the class produced by a self-reference node.
	SelfType string

	// Defaults are pre-coerced parameter values written onto the named
	// ports before the node joins the graph.
	Defaults map[string]coerce.TypedValue
}

// Factory creates nodes and allocates their ports.
type Factory struct {
	logger  *slog.Logger
	kinds   *catalog.Registry
	coercer *coerce.Coercer
}

func NewFactory(log *slog.Logger, kinds *catalog.Registry, coercer *coerce.Coercer) *Factory {
	return &Factory{
		logger:  log,
		kinds:   kinds,
		coercer: coercer,
	}
}

// CreateNode builds a node of the requested kind and appends it to the graph.
// The node is fully built, defaults included, before the append: a failure at
// any step leaves the graph untouched, and a concurrent reader never sees a
// node without its ports.
func (f *Factory) CreateNode(graph *models.Graph, spec NodeSpec) (*models.Node, error) {
	if _, ok := f.kinds.Kind(spec.Kind); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, spec.Kind)
	}

	node := &models.Node{
		ID:        uuid.New().String(),
		Kind:      spec.Kind,
		Member:    spec.Member,
		OwnerType: spec.OwnerType,
		Position:  spec.Position,
		Ports:     make([]*models.Port, 0, 4),
	}

	if err := f.allocatePorts(node, spec); err != nil {
		return nil, err
	}

	for name, value := range spec.Defaults {
		port := node.FindPort(name)
		if port == nil {
			return nil, &PortError{Op: "CreateNode", NodeID: node.ID, PortName: name, Err: ErrPortNotFound}
		}

		if err := f.coercer.Write(port, value); err != nil {
			return nil, &PortError{Op: "CreateNode", NodeID: node.ID, PortName: name, Err: err}
		}
	}

	graph.Lock()
	graph.Nodes = append(graph.Nodes, node)
	graph.Unlock()

	f.logger.Debug("Created node", "graph", graph.Name, "node_id", node.ID, "kind", node.Kind)

	return node, nil
}

func (f *Factory) allocatePorts(node *models.Node, spec NodeSpec) error {
	switch spec.Kind {
	case models.NodeKindCall:
		if spec.Callable == nil {
			return fmt.Errorf("%w: call node requires a callable descriptor", ErrInvalidSpec)
		}

		node.AddPort(models.PortExecIn, models.PortDirectionInput, models.ExecType())
		node.AddPort(models.PortExecThen, models.PortDirectionOutput, models.ExecType())

		for _, param := range spec.Callable.Parameters {
			if err := addUniquePort(node, param.Name, models.PortDirectionInput, param.Type); err != nil {
				return err
			}
		}

		for _, ret := range spec.Callable.Returns {
			if err := addUniquePort(node, ret.Name, models.PortDirectionOutput, ret.Type); err != nil {
				return err
			}
		}

	case models.NodeKindVariableGet:
		node.AddPort(models.PortValue, models.PortDirectionOutput, variableType(spec.Variable))

	case models.NodeKindVariableSet:
		node.AddPort(models.PortValue, models.PortDirectionInput, variableType(spec.Variable))

	case models.NodeKindSelf:
		node.AddPort(models.PortSelf, models.PortDirectionOutput, models.ClassType(spec.SelfType))

	case models.NodeKindBranch:
		node.AddPort(models.PortExecIn, models.PortDirectionInput, models.ExecType())
		node.AddPort(models.PortCondition, models.PortDirectionInput, models.BoolType())
		node.AddPort(models.PortExecThen, models.PortDirectionOutput, models.ExecType())
		node.AddPort(models.PortExecElse, models.PortDirectionOutput, models.ExecType())

	case models.NodeKindEvent:
		node.AddPort(models.PortExecThen, models.PortDirectionOutput, models.ExecType())

		if spec.Callable != nil {
			for _, param := range spec.Callable.Parameters {
				if err := addUniquePort(node, param.Name, models.PortDirectionOutput, param.Type); err != nil {
					return err
				}
			}
		}

	case models.NodeKindInputAction:
		node.AddPort(models.PortPressed, models.PortDirectionOutput, models.ExecType())
		node.AddPort(models.PortReleased, models.PortDirectionOutput, models.ExecType())
		node.AddPort(models.PortKey, models.PortDirectionOutput, models.StringType())

	default:
		// Registered kinds without an allocation rule are a registry
		// configuration error, not a caller error.
		return fmt.Errorf("%w: no port shape for kind %s", ErrUnknownKind, spec.Kind)
	}

	return nil
}

// addUniquePort appends a data port for a callable parameter, rejecting
// names that collide with an already-allocated port. Port names are unique
// per node; a parameter named after a built-in exec port would break that.
func addUniquePort(node *models.Node, name string, direction models.PortDirection, portType models.PortType) error {
	if node.FindPort(name) != nil {
		return &PortError{
			Op:       "CreateNode",
			NodeID:   node.ID,
			PortName: name,
			Err:      fmt.Errorf("%w: duplicate port name", ErrInvalidSpec),
		}
	}

	node.AddPort(name, direction, portType)

	return nil
}

// SetNodeDefaults coerces and writes parameter defaults onto an existing
// node. Every value is coerced before any port is written, so a bad
// parameter leaves the node unchanged.
func (f *Factory) SetNodeDefaults(graph *models.Graph, nodeID string, params map[string]coerce.RawValue) error {
	graph.Lock()
	defer graph.Unlock()

	node := graph.FindNode(nodeID)
	if node == nil {
		return &NodeError{Op: "SetNodeDefaults", Graph: graph.Name, NodeID: nodeID, Err: ErrNodeNotFound}
	}

	type pending struct {
		port  *models.Port
		value coerce.TypedValue
	}

	writes := make([]pending, 0, len(params))

	for name, raw := range params {
		port := node.FindPort(name)
		if port == nil {
			return &PortError{Op: "SetNodeDefaults", NodeID: nodeID, PortName: name, Err: ErrPortNotFound}
		}

		value, err := f.coercer.Coerce(raw, port.Type)
		if err != nil {
			return &PortError{Op: "SetNodeDefaults", NodeID: nodeID, PortName: name, Err: err}
		}

		writes = append(writes, pending{port: port, value: value})
	}

	for _, w := range writes {
		if err := f.coercer.Write(w.port, w.value); err != nil {
			return &PortError{Op: "SetNodeDefaults", NodeID: nodeID, PortName: w.port.Name, Err: err}
		}
	}

	return nil
}

// FindNodes returns the IDs of nodes matching the kind and, when member is
// non-empty, the member name.
func (f *Factory) FindNodes(graph *models.Graph, kind, member string) []string {
	graph.Lock()
	defer graph.Unlock()

	ids := make([]string, 0)

	for _, node := range graph.Nodes {
		if node.Kind != kind {
			continue
		}

		if member != "" && node.Member != member {
			continue
		}

		ids = append(ids, node.ID)
	}

	return ids
}

func variableType(v *models.VariableDescriptor) models.PortType {
	if v == nil {
		return models.WildcardType()
	}

	return v.Type
}
