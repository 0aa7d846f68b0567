package expand

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/models"
)

const defaultWorkers = 4

// Aggregator runs expansions over several seeds and merges the results.
type Aggregator struct {
	expander *Expander
	lookup   lookup.CitationLookup
	kind     models.Kind
	workers  int
	log      *logrus.Logger
}

// NewAggregator creates an Aggregator. Only seeds of the given kind are
// expanded (KindUnknown expands every seed); workers bounds the number of
// seeds processed concurrently.
func NewAggregator(l lookup.CitationLookup, kind models.Kind, workers int, log *logrus.Logger) *Aggregator {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Aggregator{
		expander: NewExpander(l, log),
		lookup:   l,
		kind:     kind,
		workers:  workers,
		log:      log,
	}
}

// Expander returns the single-seed expander used by the aggregator.
func (a *Aggregator) Expander() *Expander {
	return a.expander
}

// ExpandAll expands every seed of the retained kind with its own VisitedSet
// and returns the union of the resulting graphs. All seeds are nodes of the
// result, including seeds that were skipped or produced no links. The first
// lookup failure cancels the remaining seeds and is returned.
func (a *Aggregator) ExpandAll(ctx context.Context, sources []models.DocumentID, budget models.DepthBudget) (*models.CitationGraph, error) {
	seeds, err := a.validate(sources, budget)
	if err != nil {
		return nil, err
	}

	out := models.NewCitationGraph()
	for _, s := range seeds {
		out.AddNode(s)
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for _, seed := range seeds {
		if !a.retains(seed) {
			a.log.WithField("source", seed).Debug("seed kind not retained, skipping expansion")
			continue
		}

		g.Go(func() error {
			res, err := a.expander.Expand(gctx, seed, budget)
			if err != nil {
				return err
			}

			mu.Lock()
			out.Merge(res)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"sources":     len(seeds),
		"cites_depth": budget.Cites,
		"cited_depth": budget.Cited,
		"nodes":       len(out.Nodes),
		"links":       len(out.Links),
	}).Debug("expand.all")

	return out, nil
}

// ExpandNodes returns the node set of ExpandAll.
func (a *Aggregator) ExpandNodes(ctx context.Context, sources []models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error) {
	g, err := a.ExpandAll(ctx, sources, budget)
	if err != nil {
		return nil, err
	}

	return g.Nodes, nil
}

// Collect asks the lookup for everything within budget of each seed of the
// retained kind, without building structure, and merges the per-seed sets.
// Union also contains every seed; intersection keeps only documents present
// in every retained seed's set and is empty when no seed is retained.
func (a *Aggregator) Collect(
	ctx context.Context,
	sources []models.DocumentID,
	budget models.DepthBudget,
	mode models.MergeMode,
) (models.DocumentSet, error) {
	seeds, err := a.validate(sources, budget)
	if err != nil {
		return nil, err
	}

	var retained []models.DocumentID
	for _, seed := range seeds {
		if a.retains(seed) {
			retained = append(retained, seed)
			continue
		}

		a.log.WithField("source", seed).Debug("seed kind not retained, skipping collect")
	}

	results := make([]models.DocumentSet, len(retained))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, seed := range retained {
		g.Go(func() error {
			set, err := a.lookup.Lookup(gctx, seed, budget)
			if err != nil {
				return fmt.Errorf("collecting %s: %w", seed, err)
			}

			results[i] = set

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if mode == models.MergeIntersection {
		return intersectAll(results), nil
	}

	out := models.NewDocumentSet(seeds...)
	for _, r := range results {
		out.AddAll(r)
	}

	return out, nil
}

// CollectUnion is Collect in union mode.
func (a *Aggregator) CollectUnion(ctx context.Context, sources []models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error) {
	return a.Collect(ctx, sources, budget, models.MergeUnion)
}

func (a *Aggregator) retains(id models.DocumentID) bool {
	return a.kind == models.KindUnknown || models.Classify(id) == a.kind
}

// validate checks inputs and returns the seeds deduplicated in input order.
func (a *Aggregator) validate(sources []models.DocumentID, budget models.DepthBudget) ([]models.DocumentID, error) {
	if len(sources) == 0 {
		return nil, models.ErrEmptySources
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}

	seen := make(models.DocumentSet, len(sources))
	seeds := make([]models.DocumentID, 0, len(sources))

	for _, s := range sources {
		if err := models.ValidateDocumentID(s); err != nil {
			return nil, err
		}

		if seen.Has(s) {
			continue
		}

		seen.Add(s)
		seeds = append(seeds, s)
	}

	return seeds, nil
}

// intersectAll folds the sets by successive pairwise intersection starting
// from the first.
func intersectAll(sets []models.DocumentSet) models.DocumentSet {
	if len(sets) == 0 {
		return make(models.DocumentSet)
	}

	out := sets[0].Clone()
	for _, s := range sets[1:] {
		out = out.Intersect(s)
	}

	return out
}
