package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/client"
)

func newScoreCmd() *cobra.Command {
	var (
		req     client.ScoreRequest
		file    string
		refFile string
	)
	cmd := &cobra.Command{
		Use:   "score [ids...]",
		Short: "Score a found set against a reference set",
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := documentArgs(args, file)
			if err != nil {
				return err
			}
			req.Found = found
			if req.Reference, err = resolveReference(req.Reference, refFile); err != nil {
				return err
			}

			report, err := apiClient.Stats.Score(context.Background(), req)
			if err != nil {
				if client.IsUndefinedMetric(err) {
					return errors.New("score: precision or recall is undefined for these sets")
				}
				return fmt.Errorf("score: %w", err)
			}
			if flagFmt == "table" {
				formatTable([]string{"PRECISION", "RECALL", "F1", "FOUND", "COMMON"}, [][]string{{
					formatFloat(report.Precision), formatFloat(report.Recall), formatFloat(report.F1),
					fmt.Sprint(report.Found), fmt.Sprint(len(report.Common)),
				}})
				return nil
			}
			return output(report, []string{formatFloat(report.F1)})
		},
	}
	addReferenceFlags(cmd, &req.Reference, &refFile)
	cmd.Flags().StringVar(&file, "file", "", "File of found document IDs, one per line (- for stdin)")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		req     client.SweepRequest
		file    string
		refFile string
	)
	cmd := &cobra.Command{
		Use:   "sweep [ids...]",
		Short: "Score every depth pair up to the given maxima",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := documentArgs(args, file)
			if err != nil {
				return err
			}
			req.Sources = sources
			if req.Reference, err = resolveReference(req.Reference, refFile); err != nil {
				return err
			}

			res, err := apiClient.Stats.Sweep(context.Background(), req)
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			return outputSweep(res)
		},
	}
	addReferenceFlags(cmd, &req.Reference, &refFile)
	cmd.Flags().StringVar(&file, "file", "", "File of source document IDs, one per line (- for stdin)")
	cmd.Flags().IntVar(&req.MaxCites, "max-cites", 2, "Largest outgoing depth")
	cmd.Flags().IntVar(&req.MaxCited, "max-cited", 2, "Largest incoming depth")
	return cmd
}
