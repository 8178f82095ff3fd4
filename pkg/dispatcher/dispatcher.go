// Package dispatcher maps incoming command names onto graph mutations. Every
// handler validates its required fields before touching any state, so a
// failed request leaves all graph state unchanged.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/graphsmith/graphsmith/pkg/bindings"
	"github.com/graphsmith/graphsmith/pkg/builder"
	"github.com/graphsmith/graphsmith/pkg/coerce"
	"github.com/graphsmith/graphsmith/pkg/engine"
	"github.com/graphsmith/graphsmith/pkg/eventbus"
	"github.com/graphsmith/graphsmith/pkg/events"
	"github.com/graphsmith/graphsmith/pkg/resolver"
	"github.com/graphsmith/graphsmith/pkg/tracing"
)

type handlerFunc func(ctx context.Context, fields Fields) (map[string]any, error)

// Dispatcher routes commands to handlers over a fixed table.
type Dispatcher struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	engine    *engine.Context
	resolver  *resolver.Resolver
	factory   *builder.Factory
	connector *builder.Connector
	coercer   *coerce.Coercer
	handlers  map[string]handlerFunc
}

func NewDispatcher(engineCtx *engine.Context, res *resolver.Resolver, factory *builder.Factory, connector *builder.Connector, coercer *coerce.Coercer, tracer trace.Tracer) *Dispatcher {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("graphsmith")
	}

	d := &Dispatcher{
		logger:    engineCtx.Logger,
		tracer:    tracer,
		engine:    engineCtx,
		resolver:  res,
		factory:   factory,
		connector: connector,
		coercer:   coercer,
	}

	d.handlers = map[string]handlerFunc{
		"create_program":          d.handleCreateProgram,
		"connect_nodes":           d.handleConnectNodes,
		"create_node":             d.handleCreateNode,
		"add_function_node":       d.handleAddFunctionNode,
		"add_variable_get_node":   d.handleAddVariableGetNode,
		"add_variable_set_node":   d.handleAddVariableSetNode,
		"add_self_reference":      d.handleAddSelfReference,
		"add_branch_node":         d.handleAddBranchNode,
		"add_event_node":          d.handleAddEventNode,
		"add_input_action_node":   d.handleAddInputActionNode,
		"find_nodes":              d.handleFindNodes,
		"set_node_parameters":     d.handleSetNodeParameters,
		"check_mapping_conflicts": d.handleCheckMappingConflicts,
	}

	return d
}

// Commands returns the registered command names.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}

	return names
}

// Dispatch runs one command. Failures come back as error responses; nothing
// is thrown past this boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, commandName string, fields Fields) *Response {
	handler, ok := d.handlers[commandName]
	if !ok {
		return &Response{Success: false, Error: fmt.Sprintf("%v: %s", ErrUnknownCommand, commandName)}
	}

	ctx, span := tracing.StartSpan(ctx, d.tracer, "dispatch."+commandName,
		attribute.String(tracing.CommandKey, commandName))
	defer span.End()

	result, err := handler(ctx, fields)
	if err != nil {
		tracing.SetError(span, err)
		d.logger.Warn("Command failed", "command", commandName, "error", err)

		return &Response{Success: false, Error: err.Error()}
	}

	return &Response{Success: true, Result: result}
}

func (d *Dispatcher) publish(ctx context.Context, key string, event eventbus.Event) {
	if d.engine.Bus == nil {
		return
	}

	if err := d.engine.Bus.Publish(ctx, key, event); err != nil {
		d.logger.Warn("Failed to publish event", "type", event.GetType(), "error", err)
	}
}

func (d *Dispatcher) baseEvent(eventType events.EventType, programName string) events.BaseEvent {
	id := ""
	if d.engine.Bus != nil {
		id = d.engine.Bus.GenerateID()
	}

	return events.BaseEvent{
		ID:          id,
		Type:        eventType,
		Timestamp:   time.Now(),
		ProgramName: programName,
	}
}

func (d *Dispatcher) handleConnectNodes(ctx context.Context, fields Fields) (map[string]any, error) {
	programName, err := fields.requireString("program_name")
	if err != nil {
		return nil, err
	}

	sourceNodeID, err := fields.requireString("source_node_id")
	if err != nil {
		return nil, err
	}

	sourcePort, err := fields.requireString("source_port")
	if err != nil {
		return nil, err
	}

	targetNodeID, err := fields.requireString("target_node_id")
	if err != nil {
		return nil, err
	}

	targetPort, err := fields.requireString("target_port")
	if err != nil {
		return nil, err
	}

	program, err := d.resolver.ResolveProgram(programName)
	if err != nil {
		return nil, err
	}

	graph, err := d.resolver.ResolveGraph(program, fields.optionalString("graph_role"))
	if err != nil {
		return nil, err
	}

	connection, err := d.connector.Connect(graph, sourceNodeID, sourcePort, targetNodeID, targetPort)
	if err != nil {
		return nil, err
	}

	d.publish(ctx, program.Name, events.PortsConnected{
		BaseEvent:    d.baseEvent(events.PortsConnectedEvent, program.Name),
		GraphName:    graph.Name,
		ConnectionID: connection.ID,
		SourcePort:   connection.SourcePort,
		TargetPort:   connection.TargetPort,
	})
	d.engine.MarkProgramModified(ctx, program, "connect_nodes")

	return map[string]any{
		"connection_id":  connection.ID,
		"source_node_id": sourceNodeID,
		"target_node_id": targetNodeID,
	}, nil
}

func (d *Dispatcher) handleFindNodes(ctx context.Context, fields Fields) (map[string]any, error) {
	programName, err := fields.requireString("program_name")
	if err != nil {
		return nil, err
	}

	kind, err := fields.requireString("node_kind")
	if err != nil {
		return nil, err
	}

	program, err := d.resolver.ResolveProgram(programName)
	if err != nil {
		return nil, err
	}

	graph, err := d.resolver.ResolveGraph(program, fields.optionalString("graph_role"))
	if err != nil {
		return nil, err
	}

	member := fields.optionalString("member")
	if member == "" {
		member = fields.optionalString("event_name")
	}

	ids := d.factory.FindNodes(graph, kind, member)

	return map[string]any{"node_ids": ids}, nil
}

func (d *Dispatcher) handleSetNodeParameters(ctx context.Context, fields Fields) (map[string]any, error) {
	programName, err := fields.requireString("program_name")
	if err != nil {
		return nil, err
	}

	nodeID, err := fields.requireString("node_id")
	if err != nil {
		return nil, err
	}

	if _, ok := fields["parameters"]; !ok {
		return nil, &FieldError{Field: "parameters", Err: ErrMissingField}
	}

	params, err := fields.parameters("parameters")
	if err != nil {
		return nil, err
	}

	program, err := d.resolver.ResolveProgram(programName)
	if err != nil {
		return nil, err
	}

	graph, err := d.resolver.ResolveGraph(program, fields.optionalString("graph_role"))
	if err != nil {
		return nil, err
	}

	if err := d.factory.SetNodeDefaults(graph, nodeID, params); err != nil {
		return nil, err
	}

	ports := make([]string, 0, len(params))
	for name := range params {
		ports = append(ports, name)
	}

	d.publish(ctx, program.Name, events.NodeDefaultsUpdated{
		BaseEvent: d.baseEvent(events.NodeDefaultsUpdatedEvent, program.Name),
		GraphName: graph.Name,
		NodeID:    nodeID,
		Ports:     ports,
	})
	d.engine.MarkProgramModified(ctx, program, "set_node_parameters")

	return map[string]any{"node_id": nodeID}, nil
}

func (d *Dispatcher) handleCheckMappingConflicts(ctx context.Context, fields Fields) (map[string]any, error) {
	records, err := fields.bindingRecords("bindings")
	if err != nil {
		return nil, err
	}

	conflicts := bindings.FindConflicts(records)

	return map[string]any{
		"conflicts":      conflicts,
		"conflict_count": len(conflicts),
	}, nil
}
