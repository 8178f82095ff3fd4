package dispatcher

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphsmith/graphsmith/pkg/bindings"
	"github.com/graphsmith/graphsmith/pkg/builder"
	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/coerce"
	"github.com/graphsmith/graphsmith/pkg/engine"
	"github.com/graphsmith/graphsmith/pkg/models"
	"github.com/graphsmith/graphsmith/pkg/resolver"
	"github.com/graphsmith/graphsmith/pkg/testutil"
)

type dispatcherFixture struct {
	dispatcher *Dispatcher
	program    *models.Program
	graph      *models.Graph
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()

	logger := slog.Default()
	cat := testutil.CreateTestCatalog()

	kinds := catalog.NewRegistry(logger)
	kinds.RegisterDefaultKinds()

	programs := engine.NewProgramRegistry()
	program := testutil.CreateTestProgram()
	programs.Register(program)

	engineCtx := engine.NewContext(logger, cat, kinds, programs, nil)
	coercer := coerce.NewCoercer(logger, cat)

	d := NewDispatcher(
		engineCtx,
		resolver.NewResolver(logger, cat, programs),
		builder.NewFactory(logger, kinds, coercer),
		builder.NewConnector(logger, cat),
		coercer,
		nil,
	)

	return &dispatcherFixture{
		dispatcher: d,
		program:    program,
		graph:      program.EnsureGraph("EventGraph", models.GraphRoleEvent),
	}
}

func (f *dispatcherFixture) mustDispatch(t *testing.T, command string, fields Fields) map[string]any {
	t.Helper()

	resp := f.dispatcher.Dispatch(context.Background(), command, fields)
	require.True(t, resp.Success, "command %s failed: %s", command, resp.Error)

	return resp.Result
}

func (f *dispatcherFixture) nodeID(t *testing.T, result map[string]any) string {
	t.Helper()

	id, ok := result["node_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	return id
}

func TestDispatch_UnknownCommand(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "reticulate_splines", Fields{})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown command")
}

func TestDispatch_MissingRequiredFieldLeavesGraphUnchanged(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "create_node", Fields{
		"program_name": f.program.Name,
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "node_kind")
	assert.Equal(t, 0, f.graph.NodeCount())
}

func TestDispatch_UnknownProgram(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "add_branch_node", Fields{
		"program_name": "BP_Missing",
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "program not found")
}

func TestDispatch_CreateProgram(t *testing.T) {
	f := newDispatcherFixture(t)

	result := f.mustDispatch(t, "create_program", Fields{
		"program_name":  "BP_Door",
		"behavior_type": "Actor",
	})
	assert.Equal(t, "BP_Door", result["program_name"])

	// Creating again succeeds and reports the existing program.
	result = f.mustDispatch(t, "create_program", Fields{
		"program_name":  "BP_Door",
		"behavior_type": "Actor",
	})
	assert.Equal(t, true, result["already_exists"])
}

func TestDispatch_AddFunctionNode(t *testing.T) {
	f := newDispatcherFixture(t)

	result := f.mustDispatch(t, "add_function_node", Fields{
		"program_name":  f.program.Name,
		"function_name": "GetActorOfClass",
		"target":        "GameplayStatics",
		"placement":     []any{250.0, 100.0},
	})

	node := f.graph.FindNode(f.nodeID(t, result))
	require.NotNil(t, node)
	assert.Equal(t, models.NodeKindCall, node.Kind)
	assert.Equal(t, "GameplayStatics", node.OwnerType)
	assert.Equal(t, models.Position{X: 250, Y: 100}, node.Position)
	assert.NotNil(t, node.FindPort("ActorClass"))
}

func TestDispatch_AddFunctionNode_CoercesParameters(t *testing.T) {
	f := newDispatcherFixture(t)

	result := f.mustDispatch(t, "add_function_node", Fields{
		"program_name":  f.program.Name,
		"function_name": "GetActorOfClass",
		"target":        "GameplayStatics",
		"parameters":    map[string]any{"ActorClass": "Pawn"},
	})

	node := f.graph.FindNode(f.nodeID(t, result))
	require.NotNil(t, node)
	assert.Equal(t, "Pawn", node.FindPort("ActorClass").DefaultValue)
}

func TestDispatch_AddFunctionNode_BadParameterCreatesNothing(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "add_function_node", Fields{
		"program_name":  f.program.Name,
		"function_name": "GetActorOfClass",
		"target":        "GameplayStatics",
		"parameters":    map[string]any{"ActorClass": "NoSuchClass"},
	})
	require.False(t, resp.Success)
	assert.Equal(t, 0, f.graph.NodeCount())
}

func TestDispatch_AddFunctionNode_UnknownParameterName(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "add_function_node", Fields{
		"program_name":  f.program.Name,
		"function_name": "GetActorOfClass",
		"target":        "GameplayStatics",
		"parameters":    map[string]any{"NoSuchParam": 1.0},
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "NoSuchParam")
	assert.Equal(t, 0, f.graph.NodeCount())
}

func TestDispatch_AddFunctionNode_UnresolvableSymbol(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "add_function_node", Fields{
		"program_name":  f.program.Name,
		"function_name": "Teleport",
		"target":        "Character",
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "symbol")
	assert.Equal(t, 0, f.graph.NodeCount())
}

func TestDispatch_AddVariableNodes(t *testing.T) {
	f := newDispatcherFixture(t)

	getResult := f.mustDispatch(t, "add_variable_get_node", Fields{
		"program_name":  f.program.Name,
		"variable_name": "Health",
	})
	get := f.graph.FindNode(f.nodeID(t, getResult))
	require.NotNil(t, get)
	assert.Equal(t, models.PortCategoryFloat, get.FindPort(models.PortValue).Type.Category)

	// Unknown variables are trusted and get a wildcard port.
	setResult := f.mustDispatch(t, "add_variable_set_node", Fields{
		"program_name":  f.program.Name,
		"variable_name": "Stamina",
	})
	set := f.graph.FindNode(f.nodeID(t, setResult))
	require.NotNil(t, set)
	assert.True(t, set.FindPort(models.PortValue).Type.IsWildcard())
}

func TestDispatch_AddSelfReference(t *testing.T) {
	f := newDispatcherFixture(t)

	result := f.mustDispatch(t, "add_self_reference", Fields{
		"program_name": f.program.Name,
	})

	node := f.graph.FindNode(f.nodeID(t, result))
	require.NotNil(t, node)
	assert.Equal(t, f.program.BehaviorType, node.FindPort(models.PortSelf).Type.SubObject)
}

func TestDispatch_AddEventAndBranchThenConnect(t *testing.T) {
	f := newDispatcherFixture(t)

	eventResult := f.mustDispatch(t, "add_event_node", Fields{
		"program_name": f.program.Name,
		"event_name":   "ReceiveBeginPlay",
	})
	branchResult := f.mustDispatch(t, "add_branch_node", Fields{
		"program_name": f.program.Name,
	})

	eventID := f.nodeID(t, eventResult)
	branchID := f.nodeID(t, branchResult)

	connectResult := f.mustDispatch(t, "connect_nodes", Fields{
		"program_name":   f.program.Name,
		"source_node_id": eventID,
		"source_port":    models.PortExecThen,
		"target_node_id": branchID,
		"target_port":    models.PortExecIn,
	})

	assert.NotEmpty(t, connectResult["connection_id"])
	assert.Equal(t, eventID, connectResult["source_node_id"])
	require.Len(t, f.graph.Connections, 1)
}

func TestDispatch_AddInputActionNode(t *testing.T) {
	f := newDispatcherFixture(t)

	result := f.mustDispatch(t, "add_input_action_node", Fields{
		"program_name": f.program.Name,
		"action_name":  "Fire",
	})

	node := f.graph.FindNode(f.nodeID(t, result))
	require.NotNil(t, node)
	assert.Equal(t, "Fire", node.Member)
	assert.NotNil(t, node.FindPort(models.PortPressed))
	assert.NotNil(t, node.FindPort(models.PortReleased))
}

func TestDispatch_CreateNode_DelegatesByKind(t *testing.T) {
	f := newDispatcherFixture(t)

	result := f.mustDispatch(t, "create_node", Fields{
		"program_name": f.program.Name,
		"node_kind":    models.NodeKindBranch,
	})

	node := f.graph.FindNode(f.nodeID(t, result))
	require.NotNil(t, node)
	assert.Equal(t, models.NodeKindBranch, node.Kind)
}

func TestDispatch_CreateNode_UnknownKind(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "create_node", Fields{
		"program_name": f.program.Name,
		"node_kind":    "timeline",
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown node kind")
}

func TestDispatch_FindNodes(t *testing.T) {
	f := newDispatcherFixture(t)

	beginResult := f.mustDispatch(t, "add_event_node", Fields{
		"program_name": f.program.Name,
		"event_name":   "ReceiveBeginPlay",
	})
	f.mustDispatch(t, "add_event_node", Fields{
		"program_name": f.program.Name,
		"event_name":   "ReceiveTick",
	})

	result := f.mustDispatch(t, "find_nodes", Fields{
		"program_name": f.program.Name,
		"node_kind":    models.NodeKindEvent,
		"event_name":   "ReceiveBeginPlay",
	})

	ids, ok := result["node_ids"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{f.nodeID(t, beginResult)}, ids)
}

func TestDispatch_SetNodeParameters(t *testing.T) {
	f := newDispatcherFixture(t)

	created := f.mustDispatch(t, "add_function_node", Fields{
		"program_name":  f.program.Name,
		"function_name": "SetIntensity",
		"target":        "PointLight",
	})
	nodeID := f.nodeID(t, created)

	f.mustDispatch(t, "set_node_parameters", Fields{
		"program_name": f.program.Name,
		"node_id":      nodeID,
		"parameters":   map[string]any{"NewIntensity": 5000.0},
	})

	node := f.graph.FindNode(nodeID)
	assert.Equal(t, "5000", node.FindPort("NewIntensity").DefaultValue)
}

func TestDispatch_SetNodeParameters_RequiresParameters(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "set_node_parameters", Fields{
		"program_name": f.program.Name,
		"node_id":      "whatever",
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "parameters")
}

func TestDispatch_CheckMappingConflicts(t *testing.T) {
	f := newDispatcherFixture(t)

	result := f.mustDispatch(t, "check_mapping_conflicts", Fields{
		"bindings": []any{
			map[string]any{"action": "Fire", "key": "LeftMouseButton"},
			map[string]any{"action": "Reload", "key": "LeftMouseButton"},
			map[string]any{"action": "Jump", "key": "SpaceBar"},
		},
	})

	assert.Equal(t, 1, result["conflict_count"])

	conflicts, ok := result["conflicts"].([]bindings.ConflictGroup)
	require.True(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "LeftMouseButton", conflicts[0].CompositeKey)
	assert.Equal(t, []string{"Fire", "Reload"}, conflicts[0].Actions)
}

func TestDispatch_CheckMappingConflicts_RejectsRecordWithoutAction(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "check_mapping_conflicts", Fields{
		"bindings": []any{
			map[string]any{"action": "Fire", "key": "LeftMouseButton"},
			map[string]any{"key": "SpaceBar"},
		},
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "bindings")
}

func TestDispatch_CheckMappingConflicts_MissingBindings(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "check_mapping_conflicts", Fields{})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "bindings")
}

func TestDispatch_GraphRoleMustExist(t *testing.T) {
	f := newDispatcherFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), "add_branch_node", Fields{
		"program_name": f.program.Name,
		"graph_role":   "function",
	})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "graph not found")
}

func TestDispatch_Commands(t *testing.T) {
	f := newDispatcherFixture(t)

	commands := f.dispatcher.Commands()
	assert.Contains(t, commands, "connect_nodes")
	assert.Contains(t, commands, "check_mapping_conflicts")
	assert.Contains(t, commands, "create_program")
	assert.Len(t, commands, 13)
}
