// Package service provides business logic between API handlers and the
// expansion, scoring and persistence layers.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/expand"
	"github.com/persistorai/citegraph/internal/filter"
	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/models"
	"github.com/persistorai/citegraph/internal/stats"
	"github.com/persistorai/citegraph/internal/sweep"
	"github.com/persistorai/citegraph/internal/ws"
)

// Compile-time check: *CitationService must satisfy domain.CitationService.
var _ domain.CitationService = (*CitationService)(nil)

const defaultMaxDepth = 5

// CitationOptions tunes a CitationService.
type CitationOptions struct {
	// MaxDepth caps every requested depth; larger requests are rejected.
	MaxDepth     int
	SweepWorkers int
	// Events receives progress events; nil discards them.
	Events       EventPublisher
}

// CitationService wires lookup, expansion, scoring and filtering together.
type CitationService struct {
	lookup   lookup.CitationLookup
	agg      *expand.Aggregator
	refs     ReferenceRepository
	recorder *RunRecorder
	opts     CitationOptions
	log      *logrus.Logger
}

// NewCitationService creates a CitationService. A nil recorder disables run
// persistence.
func NewCitationService(
	l lookup.CitationLookup,
	agg *expand.Aggregator,
	refs ReferenceRepository,
	recorder *RunRecorder,
	opts CitationOptions,
	log *logrus.Logger,
) *CitationService {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}

	if opts.Events == nil {
		opts.Events = nopPublisher{}
	}

	return &CitationService{
		lookup:   l,
		agg:      agg,
		refs:     refs,
		recorder: recorder,
		opts:     opts,
		log:      log,
	}
}

// Citations returns the documents reachable from id within budget.
func (s *CitationService) Citations(ctx context.Context, id models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error) {
	if err := models.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	if err := s.checkDepth(budget); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"source":      id,
		"cites_depth": budget.Cites,
		"cited_depth": budget.Cited,
	}).Debug("citations.lookup")

	return s.lookup.Lookup(ctx, id, budget)
}

// Expand builds the citation graph around every source. When a reference is
// supplied the graph nodes are scored; an undefined score leaves Score nil.
// With Save set the run is queued for persistence and its ID returned.
func (s *CitationService) Expand(ctx context.Context, req models.ExpandRequest) (*models.ExpandResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkDepth(req.DepthBudget); err != nil {
		return nil, err
	}

	if req.Save && s.recorder == nil {
		return nil, models.ErrPersistenceDisabled
	}

	var reference models.DocumentSet

	if req.HasReference() {
		ref, err := s.resolveReference(ctx, req.Reference, req.ReferenceSet)
		if err != nil {
			return nil, err
		}

		reference = ref
	}

	s.log.WithFields(logrus.Fields{
		"sources":     len(req.Sources),
		"cites_depth": req.Cites,
		"cited_depth": req.Cited,
	}).Debug("citations.expand")

	graph, err := s.agg.ExpandAll(ctx, req.Sources, req.DepthBudget)
	if err != nil {
		return nil, err
	}

	res := &models.ExpandResult{Graph: graph}

	if reference != nil {
		score, err := stats.Score(graph.Nodes, reference)
		switch {
		case errors.Is(err, models.ErrUndefinedMetric):
			s.log.WithError(err).Warn("expansion score undefined")
		case err != nil:
			return nil, err
		default:
			res.Score = &score
		}
	}

	if req.Save {
		id := uuid.New()
		run := &models.Run{
			ID:      id,
			Sources: req.Sources,
			Budget:  req.DepthBudget,
			Graph:   graph,
			Score:   res.Score,
		}

		if !s.recorder.Enqueue(run) {
			return nil, fmt.Errorf("queueing run %s: recorder queue full", id)
		}

		res.RunID = &id
	}

	s.opts.Events.Publish(ws.EventExpandCompleted, expandEvent{
		Sources:     req.Sources,
		DepthBudget: req.DepthBudget,
		Nodes:       len(graph.Nodes),
		Links:       len(graph.Links),
		Score:       res.Score,
		RunID:       res.RunID,
	})

	return res, nil
}

// Collect returns the merged neighbor set of the sources.
func (s *CitationService) Collect(ctx context.Context, req models.CollectRequest) (models.DocumentSet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkDepth(req.DepthBudget); err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = models.MergeUnion
	}

	s.log.WithFields(logrus.Fields{
		"sources":     len(req.Sources),
		"cites_depth": req.Cites,
		"cited_depth": req.Cited,
		"mode":        mode,
	}).Debug("citations.collect")

	return s.agg.Collect(ctx, req.Sources, req.DepthBudget, mode)
}

// Score compares a found set against a reference set.
func (s *CitationService) Score(ctx context.Context, req models.ScoreRequest) (*models.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reference, err := s.resolveReference(ctx, req.Reference, req.ReferenceSet)
	if err != nil {
		return nil, err
	}

	return stats.Compare(models.NewDocumentSet(req.Found...), reference)
}

// Sweep scores the union collection of the sources over a depth grid.
func (s *CitationService) Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkDepth(models.DepthBudget{Cites: req.MaxCites - 1, Cited: req.MaxCited - 1}); err != nil {
		return nil, err
	}

	reference, err := s.resolveReference(ctx, req.Reference, req.ReferenceSet)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"sources":   len(req.Sources),
		"max_cites": req.MaxCites,
		"max_cited": req.MaxCited,
	}).Debug("citations.sweep")

	runner := sweep.NewRunner(sweep.FinderFunc(s.agg.CollectUnion), s.opts.SweepWorkers, s.log).
		WithProgress(func(budget models.DepthBudget, score *models.Score) {
			s.opts.Events.Publish(ws.EventSweepCell, sweepCellEvent{DepthBudget: budget, Score: score, Skipped: score == nil})
		})

	res, err := runner.Sweep(ctx, req.Sources, req.MaxCites, req.MaxCited, reference)
	if err != nil {
		return nil, err
	}

	s.opts.Events.Publish(ws.EventSweepCompleted, sweepDoneEvent{
		Sources: req.Sources,
		Scored:  len(res.Cells),
		Skipped: len(res.Skipped),
	})

	return res, nil
}

// Filter applies the degree filter to a link set.
func (s *CitationService) Filter(_ context.Context, req models.FilterRequest) (*models.FilterResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"links":      len(req.Links),
		"min_degree": req.MinDegree,
	}).Debug("citations.filter")

	return filter.Apply(models.NewLinkSet(req.Links...), req.MinDegree), nil
}

func (s *CitationService) checkDepth(b models.DepthBudget) error {
	if b.Cites > s.opts.MaxDepth || b.Cited > s.opts.MaxDepth {
		return fmt.Errorf("%w: depth exceeds maximum of %d", models.ErrInvalidDepth, s.opts.MaxDepth)
	}

	return nil
}

func (s *CitationService) resolveReference(ctx context.Context, inline []models.DocumentID, name string) (models.DocumentSet, error) {
	if name == "" {
		return models.NewDocumentSet(inline...), nil
	}

	return s.refs.GetReferenceSet(ctx, name)
}
