// Package models defines the core domain models for node-and-port program graphs.
package models

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// PortCategory is the declared type family of a port. Exec ports carry
// control flow only; every other category is a data port.
type PortCategory string

const (
	PortCategoryExec     PortCategory = "exec"
	PortCategoryBool     PortCategory = "bool"
	PortCategoryInt      PortCategory = "int"
	PortCategoryFloat    PortCategory = "float"
	PortCategoryString   PortCategory = "string"
	PortCategoryStruct   PortCategory = "struct"
	PortCategoryClass    PortCategory = "class"
	PortCategoryWildcard PortCategory = "wildcard"
)

// Well-known struct sub-objects.
const StructVector3 = "Vector3"

// PortType is the declared type of a port. SubObject narrows struct ports to
// a named struct and class ports to a class constraint; it is empty for
// primitive categories.
type PortType struct {
	Category  PortCategory `json:"category"`
	SubObject string       `json:"sub_object,omitempty"`
}

func (t PortType) IsExec() bool {
	return t.Category == PortCategoryExec
}

func (t PortType) IsData() bool {
	return t.Category != PortCategoryExec
}

func (t PortType) IsWildcard() bool {
	return t.Category == PortCategoryWildcard
}

// Convenience constructors for the common declared types.
func BoolType() PortType     { return PortType{Category: PortCategoryBool} }
func IntType() PortType      { return PortType{Category: PortCategoryInt} }
func FloatType() PortType    { return PortType{Category: PortCategoryFloat} }
func StringType() PortType   { return PortType{Category: PortCategoryString} }
func ExecType() PortType     { return PortType{Category: PortCategoryExec} }
func WildcardType() PortType { return PortType{Category: PortCategoryWildcard} }

func Vector3Type() PortType {
	return PortType{Category: PortCategoryStruct, SubObject: StructVector3}
}

func ClassType(constraint string) PortType {
	return PortType{Category: PortCategoryClass, SubObject: constraint}
}

// Port represents a connection point on a node.
type Port struct {
	ID        string        `json:"id"`      // Globally unique: "{nodeID}:{portName}"
	NodeID    string        `json:"node_id"` // Which node this port belongs to
	Name      string        `json:"name"`    // Port name (unique within node)
	Direction PortDirection `json:"direction"`
	Type      PortType      `json:"type"`

	// DefaultValue is the textual default used while the port is
	// unconnected. Writes go through the coercion engine so the value is
	// always consistent with the declared type.
	DefaultValue string `json:"default_value,omitempty"`

	// DefaultObject holds the resolved class for class-reference ports.
	DefaultObject *TypeDescriptor `json:"default_object,omitempty"`
}

func (p *Port) IsInput() bool {
	return p.Direction == PortDirectionInput
}

func (p *Port) IsOutput() bool {
	return p.Direction == PortDirectionOutput
}

// ParsePortID parses a port ID in format "{node_id}:{port_name}" into components.
func ParsePortID(portID string) (string, string, bool) {
	for i := range len(portID) {
		if portID[i] == ':' {
			return portID[:i], portID[i+1:], true
		}
	}

	return "", "", false
}

// MakePortID creates a port ID from node ID and port name.
func MakePortID(nodeID, portName string) string {
	return nodeID + ":" + portName
}
