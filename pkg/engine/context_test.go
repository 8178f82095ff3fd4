package engine

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphsmith/graphsmith/pkg/channels/gochannel"
	"github.com/graphsmith/graphsmith/pkg/eventbus"
	"github.com/graphsmith/graphsmith/pkg/events"
	"github.com/graphsmith/graphsmith/pkg/models"
)

func TestProgramRegistry_RegisterAndLookup(t *testing.T) {
	registry := NewProgramRegistry()
	program := models.NewProgram("BP_Door", "Actor")

	registry.Register(program)

	found, ok := registry.ProgramByName("BP_Door")
	require.True(t, ok)
	assert.Same(t, program, found)

	_, ok = registry.ProgramByName("BP_Missing")
	assert.False(t, ok)

	assert.Len(t, registry.List(), 1)
}

func TestProgramRegistry_RegisterReplaces(t *testing.T) {
	registry := NewProgramRegistry()
	registry.Register(models.NewProgram("BP_Door", "Actor"))

	replacement := models.NewProgram("BP_Door", "Pawn")
	registry.Register(replacement)

	found, _ := registry.ProgramByName("BP_Door")
	assert.Equal(t, "Pawn", found.BehaviorType)
	assert.Len(t, registry.List(), 1)
}

func TestMarkProgramModified_NilBusIsNoop(t *testing.T) {
	ctx := NewContext(slog.Default(), nil, nil, NewProgramRegistry(), nil)

	// Must not panic without a bus.
	ctx.MarkProgramModified(context.Background(), models.NewProgram("BP_Door", "Actor"), "connect_nodes")
}

func TestMarkProgramModified_PublishesEvent(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	received := make(chan *events.ProgramModified, 1)
	require.NoError(t, bus.Handle(events.ProgramModifiedEvent, func(ctx context.Context, event interface{}) error {
		received <- event.(*events.ProgramModified)

		return nil
	}))
	require.NoError(t, bus.Subscribe(context.Background()))

	engineCtx := NewContext(slog.Default(), nil, nil, NewProgramRegistry(), bus)
	engineCtx.MarkProgramModified(context.Background(), models.NewProgram("BP_Door", "Actor"), "add_branch_node")

	select {
	case event := <-received:
		assert.Equal(t, "BP_Door", event.ProgramName)
		assert.Equal(t, "add_branch_node", event.Command)
		assert.NotEmpty(t, event.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for program modified event")
	}
}
