package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/client"
	"github.com/persistorai/citegraph/internal/export"
	"github.com/persistorai/citegraph/internal/models"
)

var exportFormats = []string{"csv", "gexf", "html"}

func newExportCmd() *cobra.Command {
	var (
		runID  string
		format string
		out    string
		file   string
		depths client.Depths
	)
	cmd := &cobra.Command{
		Use:   "export [ids...]",
		Short: "Export a citation graph as CSV, GEXF or HTML",
		Long: `Export a saved run (--run) as rendered by the server, or expand the
given source documents and render the graph locally.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validExportFormat(format) {
				return fmt.Errorf("invalid --format-out %q: want %s", format, strings.Join(exportFormats, "|"))
			}
			ctx := context.Background()

			var data []byte
			if runID != "" {
				if len(args) > 0 || file != "" {
					return errors.New("--run cannot be combined with source documents")
				}
				var err error
				if data, err = apiClient.Runs.Export(ctx, runID, format); err != nil {
					return fmt.Errorf("export run: %w", err)
				}
			} else {
				sources, err := documentArgs(args, file)
				if err != nil {
					return err
				}
				res, err := apiClient.Citations.Expand(ctx, client.ExpandRequest{Sources: sources, Depths: depths})
				if err != nil {
					return fmt.Errorf("expand: %w", err)
				}
				var buf bytes.Buffer
				if err := renderGraph(&buf, format, res.Graph, sources); err != nil {
					return err
				}
				data = buf.Bytes()
			}

			return writeOutput(out, data)
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Saved run ID to export")
	cmd.Flags().StringVar(&format, "format-out", "gexf", "Export format: csv|gexf|html")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&file, "file", "", "File of source document IDs, one per line (- for stdin)")
	addDepthFlags(cmd, &depths)
	return cmd
}

func validExportFormat(f string) bool {
	for _, v := range exportFormats {
		if v == f {
			return true
		}
	}
	return false
}

func toModelGraph(g client.Graph) *models.CitationGraph {
	mg := models.NewCitationGraph()
	for _, n := range g.Nodes {
		mg.AddNode(n)
	}
	for _, l := range g.Links {
		mg.AddLink(models.Link{From: l.Source, To: l.Target})
	}
	return mg
}

func renderGraph(w io.Writer, format string, g client.Graph, seeds []string) error {
	mg := toModelGraph(g)
	var err error
	switch format {
	case "csv":
		err = export.WriteEdgeCSV(w, mg.Links)
	case "html":
		err = export.WriteHTML(w, mg.Nodes, mg.Links, export.HTMLOptions{
			Title: "Citation graph of " + strings.Join(seeds, ", "),
			Seeds: seeds,
		})
	default:
		err = export.WriteGEXF(w, mg, export.GEXFOptions{
			Creator:     "citegraph " + version,
			Description: "Citation graph of " + strings.Join(seeds, ", "),
			Modified:    time.Now().UTC(),
		})
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if flagFmt != "quiet" {
		fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(data), path)
	}
	return nil
}
