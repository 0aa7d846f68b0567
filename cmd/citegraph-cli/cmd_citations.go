package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/client"
)

func newCitationsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "citations", Short: "Single-document citation lookups"}
	cmd.AddCommand(newCitationsGetCmd())
	return cmd
}

func newCitationsGetCmd() *cobra.Command {
	var cites, cited int
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "List the documents one document cites or is cited by",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.Citations.Get(context.Background(), args[0], client.Depths{Cites: cites, Cited: cited})
			if err != nil {
				return fmt.Errorf("citations get: %w", err)
			}
			return outputDocuments(resp)
		},
	}
	cmd.Flags().IntVar(&cites, "cites", 1, "Follow outgoing citations (0 or 1)")
	cmd.Flags().IntVar(&cited, "cited", 0, "Follow incoming citations (0 or 1)")
	return cmd
}

func addDepthFlags(cmd *cobra.Command, d *client.Depths) {
	cmd.Flags().IntVar(&d.Cites, "cites", 1, "Hops along outgoing citations")
	cmd.Flags().IntVar(&d.Cited, "cited", 1, "Hops along incoming citations")
}

func addReferenceFlags(cmd *cobra.Command, ref *client.Reference, file *string) {
	cmd.Flags().StringVar(&ref.Set, "reference-set", "", "Name of a stored reference set")
	cmd.Flags().StringVar(file, "reference", "", "File of reference document IDs, one per line (- for stdin)")
}

func resolveReference(ref client.Reference, file string) (client.Reference, error) {
	if file == "" {
		return ref, nil
	}
	docs, err := documentArgs(nil, file)
	if err != nil {
		return ref, fmt.Errorf("reference: %w", err)
	}
	ref.Documents = docs
	return ref, nil
}

func newExpandCmd() *cobra.Command {
	var (
		req     client.ExpandRequest
		file    string
		refFile string
	)
	cmd := &cobra.Command{
		Use:   "expand [ids...]",
		Short: "Expand source documents into a citation graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := documentArgs(args, file)
			if err != nil {
				return err
			}
			req.Sources = sources
			if req.Reference, err = resolveReference(req.Reference, refFile); err != nil {
				return err
			}

			res, err := apiClient.Citations.Expand(context.Background(), req)
			if err != nil {
				return fmt.Errorf("expand: %w", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, len(res.Graph.Links))
				for i, l := range res.Graph.Links {
					rows[i] = []string{l.Source, l.Target}
				}
				formatTable([]string{"SOURCE", "TARGET"}, rows)
				return nil
			}
			quiet := res.Graph.Nodes
			if res.RunID != nil {
				quiet = []string{*res.RunID}
			}
			return output(res, quiet)
		},
	}
	addDepthFlags(cmd, &req.Depths)
	addReferenceFlags(cmd, &req.Reference, &refFile)
	cmd.Flags().StringVar(&file, "file", "", "File of source document IDs, one per line (- for stdin)")
	cmd.Flags().BoolVar(&req.Save, "save", false, "Persist the run on the server")
	return cmd
}

func newCollectCmd() *cobra.Command {
	var (
		req  client.CollectRequest
		file string
	)
	cmd := &cobra.Command{
		Use:   "collect [ids...]",
		Short: "Merge the citation neighborhoods of several documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := documentArgs(args, file)
			if err != nil {
				return err
			}
			req.Sources = sources
			switch req.Mode {
			case client.MergeUnion, client.MergeIntersection:
			default:
				return fmt.Errorf("invalid --mode %q: want union or intersection", req.Mode)
			}

			resp, err := apiClient.Citations.Collect(context.Background(), req)
			if err != nil {
				return fmt.Errorf("collect: %w", err)
			}
			return outputDocuments(resp)
		},
	}
	addDepthFlags(cmd, &req.Depths)
	cmd.Flags().StringVar(&file, "file", "", "File of source document IDs, one per line (- for stdin)")
	cmd.Flags().StringVar(&req.Mode, "mode", client.MergeUnion, "Merge mode: union|intersection")
	return cmd
}
