// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// CreateTestCatalog builds a catalog with a small type hierarchy and a
// handful of callables, enough to exercise resolution and coercion.
func CreateTestCatalog() *catalog.Catalog {
	c := catalog.NewCatalog(slog.Default())

	c.RegisterType(&models.TypeDescriptor{Name: "Object", Path: "/Script/CoreUObject.Object"})
	c.RegisterType(&models.TypeDescriptor{Name: "Actor", Path: "/Script/Engine.Actor", Parent: "Object"})
	c.RegisterType(&models.TypeDescriptor{Name: "Pawn", Path: "/Script/Engine.Pawn", Parent: "Actor"})
	c.RegisterType(&models.TypeDescriptor{Name: "Character", Path: "/Script/Engine.Character", Parent: "Pawn"})
	c.RegisterType(&models.TypeDescriptor{Name: "PointLightComponent", Path: "/Script/Engine.PointLightComponent", Parent: "Object"})
	c.RegisterType(&models.TypeDescriptor{Name: "GameplayStatics", Path: "/Script/Engine.GameplayStatics", Parent: "Object"})

	c.RegisterCallable(&models.CallableDescriptor{
		Name:      "GetActorOfClass",
		OwnerType: "GameplayStatics",
		Parameters: []models.ParamDescriptor{
			{Name: "ActorClass", Type: models.ClassType("Actor")},
		},
		Returns: []models.ParamDescriptor{
			{Name: "ReturnValue", Type: models.ClassType("Actor")},
		},
	})
	c.RegisterCallable(&models.CallableDescriptor{
		Name:      "SetActorHiddenInGame",
		OwnerType: "Actor",
		Parameters: []models.ParamDescriptor{
			{Name: "bNewHidden", Type: models.BoolType()},
		},
	})
	c.RegisterCallable(&models.CallableDescriptor{
		Name:      "SetIntensity",
		OwnerType: "PointLightComponent",
		Parameters: []models.ParamDescriptor{
			{Name: "NewIntensity", Type: models.FloatType()},
		},
	})
	c.RegisterCallable(&models.CallableDescriptor{
		Name:      "Jump",
		OwnerType: "Character",
	})
	c.RegisterCallable(&models.CallableDescriptor{
		Name:      "ReceiveBeginPlay",
		OwnerType: "Actor",
	})

	c.RegisterVariable(&models.VariableDescriptor{
		Name:      "Health",
		OwnerType: "Character",
		Type:      models.FloatType(),
	})

	return c
}

// CreateTestProgram creates a program with default values that can be
// overridden.
func CreateTestProgram(overrides ...func(*models.Program)) *models.Program {
	program := models.NewProgram("BP_TestActor", "Character")

	for _, override := range overrides {
		override(program)
	}

	return program
}

// WithBehaviorType sets the program's behavior type.
func WithBehaviorType(typeName string) func(*models.Program) {
	return func(p *models.Program) {
		p.BehaviorType = typeName
	}
}

// WithProgramName sets the program name.
func WithProgramName(name string) func(*models.Program) {
	return func(p *models.Program) {
		p.Name = name
	}
}

// CreateTestGraph creates an event graph attached to a fresh program and
// returns both.
func CreateTestGraph() (*models.Program, *models.Graph) {
	program := CreateTestProgram()
	graph := program.EnsureGraph("EventGraph", models.GraphRoleEvent)

	return program, graph
}

// CreateTestNode creates a call node with default values that can be
// overridden. The node carries no ports unless overrides add them.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:       uuid.New().String(),
		Kind:     models.NodeKindCall,
		Member:   "Jump",
		Position: models.Position{X: 100, Y: 200},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithKind sets the node kind.
func WithKind(kind string) func(*models.Node) {
	return func(n *models.Node) {
		n.Kind = kind
	}
}

// WithNodeID sets the node ID.
func WithNodeID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithMember sets the member the node refers to.
func WithMember(member string) func(*models.Node) {
	return func(n *models.Node) {
		n.Member = member
	}
}

// WithPort appends a port to the node, fixing up its node reference.
func WithPort(port models.Port) func(*models.Node) {
	return func(n *models.Node) {
		port.NodeID = n.ID
		port.ID = models.MakePortID(n.ID, port.Name)
		n.Ports = append(n.Ports, &port)
	}
}
