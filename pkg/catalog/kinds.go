// Package catalog provides node-kind registration for the engine.
package catalog

import (
	"log/slog"
	"strings"

	"github.com/graphsmith/graphsmith/pkg/models"
)

// Category groups node kinds for listing UIs.
type Category string

const (
	CategoryEvent       Category = "event"
	CategoryInput       Category = "input"
	CategoryVariable    Category = "variable"
	CategoryFlowControl Category = "flow-control"
	CategoryFunction    Category = "function"
	CategoryReference   Category = "reference"
	CategoryOther       Category = "other"
)

// NodeKindDescriptor describes one creatable node kind.
type NodeKindDescriptor struct {
	ID          string `json:"id"   validate:"required,min=1"`
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description"`
}

// Registry holds the creatable node kinds. It replaces the original's
// reflection sweep over all loaded classes with an explicit manifest
// populated at startup.
type Registry struct {
	logger *slog.Logger
	kinds  map[string]NodeKindDescriptor
	order  []string
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger: log,
		kinds:  make(map[string]NodeKindDescriptor),
		order:  make([]string, 0),
	}
}

func (r *Registry) RegisterKind(kind NodeKindDescriptor) {
	if err := validate.Struct(kind); err != nil {
		r.logger.Error("Rejected node kind registration", "id", kind.ID, "error", err)

		return
	}

	if _, exists := r.kinds[kind.ID]; !exists {
		r.order = append(r.order, kind.ID)
	}

	r.kinds[kind.ID] = kind
}

// Kind returns the descriptor for a kind ID.
func (r *Registry) Kind(id string) (NodeKindDescriptor, bool) {
	kind, ok := r.kinds[id]

	return kind, ok
}

// List returns all registered kinds in registration order.
func (r *Registry) List() []NodeKindDescriptor {
	kinds := make([]NodeKindDescriptor, 0, len(r.order))
	for _, id := range r.order {
		kinds = append(kinds, r.kinds[id])
	}

	return kinds
}

// Categorize infers a kind's category by substring matching on its ID. This
// mirrors the name-fragment heuristic the editor always used; it is coarse
// but stable, and listing consumers depend on it.
func (r *Registry) Categorize(id string) Category {
	lower := strings.ToLower(id)

	switch {
	case strings.Contains(lower, "event"):
		return CategoryEvent
	case strings.Contains(lower, "input"):
		return CategoryInput
	case strings.Contains(lower, "variable"):
		return CategoryVariable
	case strings.Contains(lower, "branch"), strings.Contains(lower, "if"),
		strings.Contains(lower, "switch"), strings.Contains(lower, "sequence"):
		return CategoryFlowControl
	case strings.Contains(lower, "call"), strings.Contains(lower, "function"):
		return CategoryFunction
	case strings.Contains(lower, "self"):
		return CategoryReference
	default:
		return CategoryOther
	}
}

// RegisterDefaultKinds registers the built-in node kinds.
func (r *Registry) RegisterDefaultKinds() {
	r.RegisterKind(NodeKindDescriptor{
		ID:          models.NodeKindCall,
		Name:        "Call Function",
		Description: "Calls a function resolved from the symbol catalog, with one data input per parameter and one data output per return value.",
	})
	r.RegisterKind(NodeKindDescriptor{
		ID:          models.NodeKindVariableGet,
		Name:        "Get Variable",
		Description: "Reads a variable; a single typed data output.",
	})
	r.RegisterKind(NodeKindDescriptor{
		ID:          models.NodeKindVariableSet,
		Name:        "Set Variable",
		Description: "Writes a variable; a single typed data input.",
	})
	r.RegisterKind(NodeKindDescriptor{
		ID:          models.NodeKindSelf,
		Name:        "Self Reference",
		Description: "Produces a reference to the owning program instance.",
	})
	r.RegisterKind(NodeKindDescriptor{
		ID:          models.NodeKindBranch,
		Name:        "Branch",
		Description: "Routes execution to then/else based on a boolean condition.",
	})
	r.RegisterKind(NodeKindDescriptor{
		ID:          models.NodeKindEvent,
		Name:        "Event",
		Description: "Entry point fired by a named event, with one data output per event parameter.",
	})
	r.RegisterKind(NodeKindDescriptor{
		ID:          models.NodeKindInputAction,
		Name:        "Input Action",
		Description: "Entry point fired by a named input action, with pressed/released execution outputs.",
	})
}
