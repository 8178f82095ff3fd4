package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/graphsmith/graphsmith/pkg/log"
	"github.com/graphsmith/graphsmith/pkg/tracing"
)

func main() {
	cmd := &cli.Command{
		Name:                  "graphsmith",
		Usage:                 "Run the graph mutation engine over stdin/stdout",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewKindsCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to the symbol catalog manifest (JSON)",
				Value:   "",
				Sources: cli.EnvVars("GRAPHSMITH_CATALOG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			tracerProvider, err := tracing.InitTracer(ctx, "graphsmith")
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer func() {
				if err := tracerProvider.Shutdown(ctx); err != nil {
					slog.Error("Failed to shutdown tracer provider", "error", err)
				}
			}()

			logger := log.WithModule("graphsmith")

			return runEngine(ctx, logger, command.String("catalog"), tracerProvider.Tracer("graphsmith"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("graphsmith exited with error", "error", err)
		os.Exit(1)
	}
}
