package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newRefCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "ref", Short: "Manage stored reference sets"}
	cmd.AddCommand(newRefListCmd(), newRefGetCmd(), newRefPutCmd())
	return cmd
}

func newRefListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reference sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := apiClient.References.List(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("list reference sets: %w", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, len(sets))
				for i, s := range sets {
					rows[i] = []string{s.Name, strconv.Itoa(s.Size), s.UpdatedAt.Format(time.RFC3339)}
				}
				formatTable([]string{"NAME", "SIZE", "UPDATED"}, rows)
				return nil
			}
			names := make([]string, len(sets))
			for i, s := range sets {
				names[i] = s.Name
			}
			return output(sets, names)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "Max sets to list")
	return cmd
}

func newRefGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show the documents of a reference set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := apiClient.References.Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("get reference set: %w", err)
			}
			return output(set, set.Documents)
		},
	}
}

func newRefPutCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "put <name> [ids...]",
		Short: "Create or replace a reference set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := documentArgs(args[1:], file)
			if err != nil {
				return err
			}
			set, err := apiClient.References.Put(context.Background(), args[0], docs)
			if err != nil {
				return fmt.Errorf("put reference set: %w", err)
			}
			return output(set, []string{set.Name})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "File of document IDs, one per line (- for stdin)")
	return cmd
}
