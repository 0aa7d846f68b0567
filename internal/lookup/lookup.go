// Package lookup resolves the direct and transitive citations of a document
// against a remote legal knowledge graph.
package lookup

import (
	"context"

	"github.com/persistorai/citegraph/internal/models"
)

// CitationLookup returns the documents reachable from id within hops,
// pre-filtered to one document kind.
type CitationLookup interface {
	Lookup(ctx context.Context, id models.DocumentID, hops models.DepthBudget) (models.DocumentSet, error)
}

// Func adapts a plain function to CitationLookup.
type Func func(ctx context.Context, id models.DocumentID, hops models.DepthBudget) (models.DocumentSet, error)

// Lookup calls f.
func (f Func) Lookup(ctx context.Context, id models.DocumentID, hops models.DepthBudget) (models.DocumentSet, error) {
	return f(ctx, id, hops)
}
