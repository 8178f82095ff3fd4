// Package models defines node models for the program graph editor.
package models

// Built-in node kinds. The catalog's kind registry is the authority on which
// kinds are creatable; these constants name the shipped set.
const (
	NodeKindCall        = "call"
	NodeKindVariableGet = "variable:get"
	NodeKindVariableSet = "variable:set"
	NodeKindSelf        = "self"
	NodeKindBranch      = "branch"
	NodeKindEvent       = "event"
	NodeKindInputAction = "input:action"
)

// Conventional port names shared across node kinds.
const (
	PortExecIn   = "exec"
	PortExecThen = "then"
	PortExecElse = "else"

	PortCondition = "condition"
	PortValue     = "value"
	PortSelf      = "self"

	PortPressed  = "pressed"
	PortReleased = "released"
	PortKey      = "key"
)

// Position is a 2D placement hint for editors. It carries no semantics.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Node represents a node instance in a graph.
type Node struct {
	ID string `json:"id" validate:"required"`

	// Kind is drawn from the catalog's node-kind space (e.g. "call").
	Kind string `json:"kind" validate:"required"`

	// Member is the symbol the node refers to: the function name for call
	// nodes, the variable name for variable nodes, the event or action
	// name for event-like nodes. Empty for kinds without a referent.
	Member string `json:"member,omitempty"`

	// OwnerType is the declaring type of Member when one was resolved.
	OwnerType string `json:"owner_type,omitempty"`

	Position Position `json:"position"`
	Ports    []*Port  `json:"ports"`
}

// FindPort returns the port with the given name, or nil.
func (n *Node) FindPort(name string) *Port {
	for _, p := range n.Ports {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// AddPort appends a port, deriving its ID from the node identity.
func (n *Node) AddPort(name string, direction PortDirection, portType PortType) *Port {
	port := &Port{
		ID:        MakePortID(n.ID, name),
		NodeID:    n.ID,
		Name:      name,
		Direction: direction,
		Type:      portType,
	}
	n.Ports = append(n.Ports, port)

	return port
}

// InputPorts returns the node's input ports in declaration order.
func (n *Node) InputPorts() []*Port {
	ports := make([]*Port, 0, len(n.Ports))

	for _, p := range n.Ports {
		if p.IsInput() {
			ports = append(ports, p)
		}
	}

	return ports
}

// OutputPorts returns the node's output ports in declaration order.
func (n *Node) OutputPorts() []*Port {
	ports := make([]*Port, 0, len(n.Ports))

	for _, p := range n.Ports {
		if p.IsOutput() {
			ports = append(ports, p)
		}
	}

	return ports
}
