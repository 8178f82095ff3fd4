package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/graphsmith/graphsmith/pkg/catalog"
)

func NewKindsCommand() *cli.Command {
	return &cli.Command{
		Name:    "kinds",
		Aliases: []string{"k"},
		Usage:   "List the registered node kinds",
		Action: func(ctx context.Context, command *cli.Command) error {
			kinds := catalog.NewRegistry(slog.Default())
			kinds.RegisterDefaultKinds()

			fmt.Println("Node kinds:")
			fmt.Println("===========")

			for _, kind := range kinds.List() {
				fmt.Printf("\n%s (%s)\n", kind.Name, kind.ID)
				fmt.Printf("  Category: %s\n", kinds.Categorize(kind.ID))
				fmt.Printf("  %s\n", kind.Description)
			}

			fmt.Printf("\nTotal kinds: %d\n", len(kinds.List()))

			return nil
		},
	}
}
