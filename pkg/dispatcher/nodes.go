package dispatcher

import (
	"context"
	"fmt"

	"github.com/graphsmith/graphsmith/pkg/builder"
	"github.com/graphsmith/graphsmith/pkg/coerce"
	"github.com/graphsmith/graphsmith/pkg/events"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// handleCreateProgram registers a new program. Creating a program that
// already exists succeeds and reports the existing one.
func (d *Dispatcher) handleCreateProgram(ctx context.Context, fields Fields) (map[string]any, error) {
	programName, err := fields.requireString("program_name")
	if err != nil {
		return nil, err
	}

	behaviorHint, err := fields.requireString("behavior_type")
	if err != nil {
		return nil, err
	}

	behaviorType := behaviorHint
	if t, _ := d.resolver.ResolveTargetType(behaviorHint); t != nil {
		behaviorType = t.Name
	}

	if existing, ok := d.engine.Programs.ProgramByName(programName); ok {
		return map[string]any{
			"program_name":   existing.Name,
			"already_exists": true,
		}, nil
	}

	program := models.NewProgram(programName, behaviorType)
	d.engine.Programs.Register(program)
	d.engine.MarkProgramModified(ctx, program, "create_program")

	return map[string]any{"program_name": program.Name}, nil
}

// resolveProgramGraph locates the program and graph a creation command
// targets. Requests without a graph role land on the default event graph.
func (d *Dispatcher) resolveProgramGraph(fields Fields) (*models.Program, *models.Graph, error) {
	programName, err := fields.requireString("program_name")
	if err != nil {
		return nil, nil, err
	}

	program, err := d.resolver.ResolveProgram(programName)
	if err != nil {
		return nil, nil, err
	}

	graph, err := d.resolver.ResolveGraph(program, fields.optionalString("graph_role"))
	if err != nil {
		return nil, nil, err
	}

	return program, graph, nil
}

// createNode performs the shared tail of every node-creation command: the
// factory call, the mutation event, and the dirty-state notification.
func (d *Dispatcher) createNode(ctx context.Context, program *models.Program, graph *models.Graph, spec builder.NodeSpec, command string) (map[string]any, error) {
	node, err := d.factory.CreateNode(graph, spec)
	if err != nil {
		return nil, err
	}

	d.publish(ctx, program.Name, events.NodeCreated{
		BaseEvent: d.baseEvent(events.NodeCreatedEvent, program.Name),
		GraphName: graph.Name,
		NodeID:    node.ID,
		Kind:      node.Kind,
		Position:  node.Position,
	})
	d.engine.MarkProgramModified(ctx, program, command)

	return map[string]any{"node_id": node.ID}, nil
}

// handleCreateNode is the generic entry: node_kind selects the shape, the
// remaining fields are interpreted per kind.
func (d *Dispatcher) handleCreateNode(ctx context.Context, fields Fields) (map[string]any, error) {
	if _, err := fields.requireString("program_name"); err != nil {
		return nil, err
	}

	kind, err := fields.requireString("node_kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case models.NodeKindCall:
		return d.handleAddFunctionNode(ctx, fields)
	case models.NodeKindVariableGet:
		return d.handleAddVariableGetNode(ctx, fields)
	case models.NodeKindVariableSet:
		return d.handleAddVariableSetNode(ctx, fields)
	case models.NodeKindSelf:
		return d.handleAddSelfReference(ctx, fields)
	case models.NodeKindBranch:
		return d.handleAddBranchNode(ctx, fields)
	case models.NodeKindEvent:
		return d.handleAddEventNode(ctx, fields)
	case models.NodeKindInputAction:
		return d.handleAddInputActionNode(ctx, fields)
	default:
		return nil, fmt.Errorf("%w: %s", builder.ErrUnknownKind, kind)
	}
}

func (d *Dispatcher) handleAddFunctionNode(ctx context.Context, fields Fields) (map[string]any, error) {
	functionName, err := fields.requireString("function_name")
	if err != nil {
		return nil, err
	}

	position, err := fields.position("placement")
	if err != nil {
		return nil, err
	}

	params, err := fields.parameters("parameters")
	if err != nil {
		return nil, err
	}

	program, graph, err := d.resolveProgramGraph(fields)
	if err != nil {
		return nil, err
	}

	callable, err := d.resolver.ResolveCallable(program, functionName, fields.optionalString("target"))
	if err != nil {
		return nil, err
	}

	defaults, err := d.coerceCallParameters(callable, params)
	if err != nil {
		return nil, err
	}

	spec := builder.NodeSpec{
		Kind:      models.NodeKindCall,
		Member:    callable.Name,
		OwnerType: callable.OwnerType,
		Position:  position,
		Callable:  callable,
		Defaults:  defaults,
	}

	return d.createNode(ctx, program, graph, spec, "add_function_node")
}

// coerceCallParameters converts every supplied parameter against its
// declared type before the node exists, so a bad value creates nothing.
func (d *Dispatcher) coerceCallParameters(callable *models.CallableDescriptor, params map[string]coerce.RawValue) (map[string]coerce.TypedValue, error) {
	if len(params) == 0 {
		return nil, nil
	}

	defaults := make(map[string]coerce.TypedValue, len(params))

	for name, raw := range params {
		var declared *models.ParamDescriptor

		for i := range callable.Parameters {
			if callable.Parameters[i].Name == name {
				declared = &callable.Parameters[i]

				break
			}
		}

		if declared == nil {
			return nil, &builder.PortError{Op: "CoerceParameters", NodeID: callable.Name, PortName: name, Err: builder.ErrPortNotFound}
		}

		value, err := d.coercer.Coerce(raw, declared.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}

		defaults[name] = value
	}

	return defaults, nil
}

func (d *Dispatcher) handleAddVariableGetNode(ctx context.Context, fields Fields) (map[string]any, error) {
	return d.addVariableNode(ctx, fields, models.NodeKindVariableGet, "add_variable_get_node")
}

func (d *Dispatcher) handleAddVariableSetNode(ctx context.Context, fields Fields) (map[string]any, error) {
	return d.addVariableNode(ctx, fields, models.NodeKindVariableSet, "add_variable_set_node")
}

func (d *Dispatcher) addVariableNode(ctx context.Context, fields Fields, kind, command string) (map[string]any, error) {
	variableName, err := fields.requireString("variable_name")
	if err != nil {
		return nil, err
	}

	position, err := fields.position("placement")
	if err != nil {
		return nil, err
	}

	program, graph, err := d.resolveProgramGraph(fields)
	if err != nil {
		return nil, err
	}

	// Variable names are trusted: an unknown variable still yields a node,
	// with a wildcard port that gets checked at connection time.
	variable, _ := d.resolver.ResolveVariable(program, variableName)

	spec := builder.NodeSpec{
		Kind:     kind,
		Member:   variableName,
		Position: position,
		Variable: variable,
	}

	return d.createNode(ctx, program, graph, spec, command)
}

func (d *Dispatcher) handleAddSelfReference(ctx context.Context, fields Fields) (map[string]any, error) {
	position, err := fields.position("placement")
	if err != nil {
		return nil, err
	}

	program, graph, err := d.resolveProgramGraph(fields)
	if err != nil {
		return nil, err
	}

	spec := builder.NodeSpec{
		Kind:     models.NodeKindSelf,
		Position: position,
		SelfType: program.BehaviorType,
	}

	return d.createNode(ctx, program, graph, spec, "add_self_reference")
}

func (d *Dispatcher) handleAddBranchNode(ctx context.Context, fields Fields) (map[string]any, error) {
	position, err := fields.position("placement")
	if err != nil {
		return nil, err
	}

	program, graph, err := d.resolveProgramGraph(fields)
	if err != nil {
		return nil, err
	}

	spec := builder.NodeSpec{
		Kind:     models.NodeKindBranch,
		Position: position,
	}

	return d.createNode(ctx, program, graph, spec, "add_branch_node")
}

func (d *Dispatcher) handleAddEventNode(ctx context.Context, fields Fields) (map[string]any, error) {
	eventName, err := fields.requireString("event_name")
	if err != nil {
		return nil, err
	}

	position, err := fields.position("placement")
	if err != nil {
		return nil, err
	}

	program, graph, err := d.resolveProgramGraph(fields)
	if err != nil {
		return nil, err
	}

	// The event's signature types the data outputs when the catalog knows
	// it; unknown events still get their execution output.
	signature, _ := d.engine.Catalog.LookupCallable(program.BehaviorType, eventName)

	spec := builder.NodeSpec{
		Kind:     models.NodeKindEvent,
		Member:   eventName,
		Position: position,
		Callable: signature,
	}

	return d.createNode(ctx, program, graph, spec, "add_event_node")
}

func (d *Dispatcher) handleAddInputActionNode(ctx context.Context, fields Fields) (map[string]any, error) {
	actionName, err := fields.requireString("action_name")
	if err != nil {
		return nil, err
	}

	position, err := fields.position("placement")
	if err != nil {
		return nil, err
	}

	program, graph, err := d.resolveProgramGraph(fields)
	if err != nil {
		return nil, err
	}

	spec := builder.NodeSpec{
		Kind:     models.NodeKindInputAction,
		Member:   actionName,
		Position: position,
	}

	return d.createNode(ctx, program, graph, spec, "add_input_action_node")
}
