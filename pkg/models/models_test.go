package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortID_ValidFormat(t *testing.T) {
	nodeID, portName, ok := ParsePortID("node-123:then")
	require.True(t, ok)
	assert.Equal(t, "node-123", nodeID)
	assert.Equal(t, "then", portName)
}

func TestParsePortID_ColonInPortName(t *testing.T) {
	// The first colon splits; the rest belongs to the port name.
	nodeID, portName, ok := ParsePortID("node-123:out:0")
	require.True(t, ok)
	assert.Equal(t, "node-123", nodeID)
	assert.Equal(t, "out:0", portName)
}

func TestParsePortID_MissingColon(t *testing.T) {
	_, _, ok := ParsePortID("not-a-port-id")
	assert.False(t, ok)
}

func TestMakePortID_RoundTrip(t *testing.T) {
	id := MakePortID("node-abc", "condition")
	assert.Equal(t, "node-abc:condition", id)

	nodeID, portName, ok := ParsePortID(id)
	require.True(t, ok)
	assert.Equal(t, "node-abc", nodeID)
	assert.Equal(t, "condition", portName)
}

func TestPortType_Predicates(t *testing.T) {
	assert.True(t, ExecType().IsExec())
	assert.False(t, ExecType().IsData())
	assert.True(t, BoolType().IsData())
	assert.True(t, WildcardType().IsWildcard())
	assert.False(t, FloatType().IsWildcard())
	assert.Equal(t, StructVector3, Vector3Type().SubObject)
	assert.Equal(t, "Actor", ClassType("Actor").SubObject)
}

func TestNode_AddPort_DerivesIdentity(t *testing.T) {
	node := &Node{ID: "n1", Kind: NodeKindBranch}

	port := node.AddPort(PortCondition, PortDirectionInput, BoolType())

	assert.Equal(t, "n1:condition", port.ID)
	assert.Equal(t, "n1", port.NodeID)
	assert.Same(t, port, node.FindPort(PortCondition))
	assert.Nil(t, node.FindPort("missing"))
}

func TestNode_InputOutputPorts(t *testing.T) {
	node := &Node{ID: "n1", Kind: NodeKindBranch}
	node.AddPort(PortExecIn, PortDirectionInput, ExecType())
	node.AddPort(PortCondition, PortDirectionInput, BoolType())
	node.AddPort(PortExecThen, PortDirectionOutput, ExecType())
	node.AddPort(PortExecElse, PortDirectionOutput, ExecType())

	require.Len(t, node.InputPorts(), 2)
	require.Len(t, node.OutputPorts(), 2)
	assert.Equal(t, PortExecIn, node.InputPorts()[0].Name)
	assert.Equal(t, PortExecThen, node.OutputPorts()[0].Name)
}

func TestGraph_IncomingConnection(t *testing.T) {
	graph := NewGraph("EventGraph", GraphRoleEvent)
	graph.Connections = append(graph.Connections, &Connection{
		ID:         "conn-1",
		SourcePort: "a:then",
		TargetPort: "b:exec",
	})

	assert.NotNil(t, graph.IncomingConnection("b:exec"))
	assert.Nil(t, graph.IncomingConnection("b:condition"))
}

func TestGraph_RemoveConnection(t *testing.T) {
	graph := NewGraph("EventGraph", GraphRoleEvent)
	graph.Connections = append(graph.Connections,
		&Connection{ID: "conn-1", SourcePort: "a:then", TargetPort: "b:exec"},
		&Connection{ID: "conn-2", SourcePort: "b:then", TargetPort: "c:exec"},
	)

	graph.RemoveConnection("conn-1")

	require.Len(t, graph.Connections, 1)
	assert.Equal(t, "conn-2", graph.Connections[0].ID)

	// Unknown IDs are ignored.
	graph.RemoveConnection("conn-1")
	assert.Len(t, graph.Connections, 1)
}

func TestProgram_EnsureGraph_CreatesAtMostOnePerRole(t *testing.T) {
	program := NewProgram("BP_Test", "Actor")

	first := program.EnsureGraph("EventGraph", GraphRoleEvent)
	second := program.EnsureGraph("EventGraph", GraphRoleEvent)

	assert.Same(t, first, second)
	assert.Len(t, program.Graphs, 1)
	assert.Equal(t, GraphRoleEvent, first.Role)
}

func TestProgram_GraphByRole_MissingRole(t *testing.T) {
	program := NewProgram("BP_Test", "Actor")
	program.EnsureGraph("EventGraph", GraphRoleEvent)

	assert.Nil(t, program.GraphByRole(GraphRoleFunction))
}

func TestCallableDescriptor_Validation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	valid := &CallableDescriptor{
		Name:      "GetActorOfClass",
		OwnerType: "GameplayStatics",
		Parameters: []ParamDescriptor{
			{Name: "ActorClass", Type: ClassType("Actor")},
		},
	}
	require.NoError(t, validate.Struct(valid))

	missingOwner := &CallableDescriptor{Name: "GetActorOfClass"}
	assert.Error(t, validate.Struct(missingOwner))
}
