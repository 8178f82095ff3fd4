// Package engine assembles the shared state every component works against:
// the symbol catalog, the node-kind registry, the program registry and the
// mutation event bus. There are no package-level singletons; everything is
// carried by an explicit Context.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/eventbus"
	"github.com/graphsmith/graphsmith/pkg/events"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// Context carries the engine's shared collaborators.
type Context struct {
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Kinds    *catalog.Registry
	Programs *ProgramRegistry
	Bus      eventbus.EventBus
}

func NewContext(log *slog.Logger, cat *catalog.Catalog, kinds *catalog.Registry, programs *ProgramRegistry, bus eventbus.EventBus) *Context {
	return &Context{
		Logger:   log,
		Catalog:  cat,
		Kinds:    kinds,
		Programs: programs,
		Bus:      bus,
	}
}

// MarkProgramModified notifies the host that the program's persisted state is
// now dirty. Called after every successful mutation.
func (c *Context) MarkProgramModified(ctx context.Context, program *models.Program, command string) {
	if c.Bus == nil {
		return
	}

	event := events.ProgramModified{
		BaseEvent: events.BaseEvent{
			ID:          c.Bus.GenerateID(),
			Type:        events.ProgramModifiedEvent,
			Timestamp:   time.Now(),
			ProgramName: program.Name,
		},
		Command: command,
	}

	if err := c.Bus.Publish(ctx, program.Name, event); err != nil {
		c.Logger.Warn("Failed to publish program modified event",
			"program", program.Name, "error", err)
	}
}

// ProgramRegistry is the in-memory program store. The host's asset system
// registers programs here as it loads them; the engine only looks them up.
type ProgramRegistry struct {
	mu       sync.RWMutex
	programs map[string]*models.Program
}

func NewProgramRegistry() *ProgramRegistry {
	return &ProgramRegistry{
		programs: make(map[string]*models.Program),
	}
}

func (r *ProgramRegistry) Register(program *models.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.programs[program.Name] = program
}

// ProgramByName implements resolver.ProgramStore.
func (r *ProgramRegistry) ProgramByName(name string) (*models.Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	program, ok := r.programs[name]

	return program, ok
}

// List returns every registered program.
func (r *ProgramRegistry) List() []*models.Program {
	r.mu.RLock()
	defer r.mu.RUnlock()

	programs := make([]*models.Program, 0, len(r.programs))
	for _, p := range r.programs {
		programs = append(programs, p)
	}

	return programs
}
