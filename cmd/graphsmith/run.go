package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"go.opentelemetry.io/otel/trace"

	"github.com/graphsmith/graphsmith/pkg/builder"
	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/channels/gochannel"
	"github.com/graphsmith/graphsmith/pkg/coerce"
	"github.com/graphsmith/graphsmith/pkg/dispatcher"
	"github.com/graphsmith/graphsmith/pkg/engine"
	"github.com/graphsmith/graphsmith/pkg/eventbus"
	"github.com/graphsmith/graphsmith/pkg/resolver"
)

// request is one newline-delimited JSON command. Everything besides the
// command name is handed to the dispatcher as-is.
type request struct {
	Command string            `json:"command"`
	Fields  dispatcher.Fields `json:"fields"`
}

// runEngine wires the components together and serves commands from stdin
// until EOF. This is a development harness; the host embeds the packages
// directly in production.
func runEngine(ctx context.Context, logger *slog.Logger, catalogPath string, tracer trace.Tracer) error {
	cat := catalog.NewCatalog(logger)
	if catalogPath != "" {
		if err := cat.LoadManifest(catalogPath); err != nil {
			return fmt.Errorf("failed to load catalog manifest: %w", err)
		}

		logger.Info("Loaded catalog manifest", "path", catalogPath)
	}

	kinds := catalog.NewRegistry(logger)
	kinds.RegisterDefaultKinds()

	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create event channel: %w", err)
	}

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}()

	programs := engine.NewProgramRegistry()
	engineCtx := engine.NewContext(logger, cat, kinds, programs, bus)

	coercer := coerce.NewCoercer(logger, cat)
	res := resolver.NewResolver(logger, cat, programs)
	factory := builder.NewFactory(logger, kinds, coercer)
	connector := builder.NewConnector(logger, cat)

	disp := dispatcher.NewDispatcher(engineCtx, res, factory, connector, coercer, tracer)

	logger.Info("Engine ready", "commands", len(disp.Commands()))

	encoder := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := encoder.Encode(&dispatcher.Response{Success: false, Error: "malformed request: " + err.Error()}); err != nil {
				return err
			}

			continue
		}

		resp := disp.Dispatch(ctx, req.Command, req.Fields)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}

	return scanner.Err()
}
