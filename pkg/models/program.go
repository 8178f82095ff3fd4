package models

import "sync"

// Program is a named unit of graph-bearing logic. Programs are created and
// destroyed by the host's asset system; the engine only looks them up and
// edits their graphs.
type Program struct {
	mu sync.Mutex

	Name string `json:"name" validate:"required,min=1"`

	// BehaviorType names the program's generated behavior type in the
	// symbol catalog. Callable resolution falls back to it when no target
	// type hint matches.
	BehaviorType string `json:"behavior_type"`

	Graphs []*Graph `json:"graphs"`
}

func NewProgram(name, behaviorType string) *Program {
	return &Program{
		Name:         name,
		BehaviorType: behaviorType,
		Graphs:       make([]*Graph, 0),
	}
}

// GraphByRole returns the first graph with the given role, or nil.
func (p *Program) GraphByRole(role GraphRole) *Graph {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, g := range p.Graphs {
		if g.Role == role {
			return g
		}
	}

	return nil
}

// EnsureGraph returns the graph with the given role, creating it if absent.
// At most one graph per role is ever created.
func (p *Program) EnsureGraph(name string, role GraphRole) *Graph {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, g := range p.Graphs {
		if g.Role == role {
			return g
		}
	}

	graph := NewGraph(name, role)
	p.Graphs = append(p.Graphs, graph)

	return graph
}
