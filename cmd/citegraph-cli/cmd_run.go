package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/client"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "run", Short: "Inspect saved expansion runs"}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := apiClient.Runs.Get(context.Background(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("run %s not found", args[0])
				}
				return fmt.Errorf("get run: %w", err)
			}
			return output(run, []string{run.ID})
		},
	})
	return cmd
}
