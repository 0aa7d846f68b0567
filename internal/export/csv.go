// Package export serializes citation graphs for offline tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/persistorai/citegraph/internal/models"
)

// WriteEdgeCSV writes links as a two-column source,target table with a header row.
func WriteEdgeCSV(w io.Writer, links models.LinkSet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"source", "target"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, l := range links.Sorted() {
		if err := cw.Write([]string{l.From, l.To}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}
