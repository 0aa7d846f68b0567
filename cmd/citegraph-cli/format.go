package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/persistorai/citegraph/client"
)

func formatJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// output renders v as JSON unless the format is quiet, in which case each
// quiet line is printed on its own.
func output(v any, quiet []string) error {
	if flagFmt == "quiet" {
		for _, line := range quiet {
			fmt.Println(line)
		}
		return nil
	}
	return formatJSON(v)
}

func outputDocuments(resp *client.DocumentsResponse) error {
	if flagFmt != "table" {
		return output(resp, resp.Documents)
	}
	rows := make([][]string, len(resp.Documents))
	for i, d := range resp.Documents {
		rows[i] = []string{d}
	}
	formatTable([]string{"DOCUMENT"}, rows)
	return nil
}

func outputSweep(res *client.SweepResult) error {
	if flagFmt != "table" {
		return output(res, nil)
	}
	rows := make([][]string, 0, len(res.Cells)+len(res.Skipped))
	for _, c := range res.Cells {
		rows = append(rows, []string{
			strconv.Itoa(c.Cites), strconv.Itoa(c.Cited),
			formatFloat(c.Precision), formatFloat(c.Recall), formatFloat(c.F1),
		})
	}
	for _, d := range res.Skipped {
		rows = append(rows, []string{strconv.Itoa(d.Cites), strconv.Itoa(d.Cited), "-", "-", "-"})
	}
	formatTable([]string{"CITES", "CITED", "PRECISION", "RECALL", "F1"}, rows)
	return nil
}

func outputFilter(res *client.FilterResult) error {
	if flagFmt != "table" {
		return output(res, res.Nodes)
	}
	rows := make([][]string, len(res.Nodes))
	for i, n := range res.Nodes {
		rows[i] = []string{n, strconv.Itoa(res.Degrees[n])}
	}
	formatTable([]string{"DOCUMENT", "DEGREE"}, rows)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
