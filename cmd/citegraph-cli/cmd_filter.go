package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newFilterCmd() *cobra.Command {
	var minDegree int
	cmd := &cobra.Command{
		Use:   "filter <edges.csv>",
		Short: "Keep nodes whose total degree reaches a threshold",
		Long:  "Reads a source,target CSV edge list (- for stdin) and prunes low-degree nodes on the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			links, err := readEdgeCSV(rc)
			if err != nil {
				return err
			}
			res, err := apiClient.Graph.Filter(context.Background(), links, minDegree)
			if err != nil {
				return fmt.Errorf("filter: %w", err)
			}
			return outputFilter(res)
		},
	}
	cmd.Flags().IntVar(&minDegree, "min-degree", 2, "Minimum total degree to keep a node")
	return cmd
}
