// Package expand implements depth-bounded citation expansion from one or
// more seed documents.
package expand

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
)

// directions lists the traversal directions in expansion order.
var directions = [...]models.Direction{models.Cites, models.CitedBy}

// Expander walks the citation graph outward from a single seed.
type Expander struct {
	lookup lookup.CitationLookup
	log    *logrus.Logger
}

// NewExpander creates an Expander backed by the given lookup.
func NewExpander(l lookup.CitationLookup, log *logrus.Logger) *Expander {
	return &Expander{lookup: l, log: log}
}

// Expand explores up to budget.Cites outgoing and budget.Cited incoming hops
// from source with a fresh VisitedSet.
func (e *Expander) Expand(ctx context.Context, source models.DocumentID, budget models.DepthBudget) (*models.CitationGraph, error) {
	return e.ExpandWithVisited(ctx, source, budget, NewVisitedSet())
}

// ExpandWithVisited is Expand with a caller-owned VisitedSet. The two
// directions are walked as independent traversals whose results are merged;
// a zero budget returns just the source without any lookup.
func (e *Expander) ExpandWithVisited(
	ctx context.Context,
	source models.DocumentID,
	budget models.DepthBudget,
	visited *VisitedSet,
) (*models.CitationGraph, error) {
	if err := models.ValidateDocumentID(source); err != nil {
		return nil, err
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}

	g := models.NewCitationGraph()
	g.AddNode(source)

	for _, dir := range directions {
		depth := budget.Depth(dir)
		if depth == 0 {
			continue
		}

		if err := e.walk(ctx, dir, source, depth, visited, g); err != nil {
			return nil, err
		}
	}

	e.log.WithFields(logrus.Fields{
		"source":      source,
		"cites_depth": budget.Cites,
		"cited_depth": budget.Cited,
		"nodes":       len(g.Nodes),
		"links":       len(g.Links),
	}).Debug("expand.single")

	return g, nil
}

// walk expands source one hop along dir and recurses into every target that
// has remaining depth and has not been expanded yet in either direction.
// The source itself is always expanded, so the cited-by half still runs
// from a seed the cites half already marked. Each call strictly
// decreases depth, so recursion ends at zero.
func (e *Expander) walk(
	ctx context.Context,
	dir models.Direction,
	source models.DocumentID,
	depth int,
	visited *VisitedSet,
	g *models.CitationGraph,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("expanding %s: %w", source, err)
	}

	visited.Mark(source)
	metrics.ExpansionsTotal.WithLabelValues(dir.String()).Inc()

	targets, err := e.lookup.Lookup(ctx, source, models.SingleHop(dir))
	if err != nil {
		return fmt.Errorf("expanding %s (%s): %w", source, dir, err)
	}

	next := depth - 1

	// Sorted so that the visit order, and therefore the result, is reproducible.
	for _, target := range targets.Sorted() {
		if dir == models.Cites {
			g.AddLink(models.Link{From: source, To: target})
		} else {
			g.AddLink(models.Link{From: target, To: source})
		}

		if next > 0 && !visited.Seen(target) {
			if err := e.walk(ctx, dir, target, next, visited, g); err != nil {
				return err
			}
		}
	}

	return nil
}
