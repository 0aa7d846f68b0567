// Package sweep evaluates result quality over a grid of depth pairs.
package sweep

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
	"github.com/persistorai/citegraph/internal/stats"
)

const defaultWorkers = 2

// Finder produces the found document set for a list of seeds at one depth pair.
type Finder interface {
	FindNodes(ctx context.Context, sources []models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error)
}

// FinderFunc adapts a plain function to Finder.
type FinderFunc func(ctx context.Context, sources []models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error)

// FindNodes calls f.
func (f FinderFunc) FindNodes(ctx context.Context, sources []models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error) {
	return f(ctx, sources, budget)
}

// Runner scores a Finder against a reference set across a depth grid.
type Runner struct {
	finder  Finder
	workers int
	log     *logrus.Logger
	onCell  ProgressFunc
}

// ProgressFunc observes each finished cell. score is nil for skipped cells.
// It is called from worker goroutines.
type ProgressFunc func(budget models.DepthBudget, score *models.Score)

// NewRunner creates a Runner that evaluates up to workers cells at once.
func NewRunner(finder Finder, workers int, log *logrus.Logger) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Runner{finder: finder, workers: workers, log: log}
}

// WithProgress registers fn to be called as cells finish.
func (r *Runner) WithProgress(fn ProgressFunc) *Runner {
	r.onCell = fn
	return r
}

func (r *Runner) report(budget models.DepthBudget, score *models.Score) {
	if r.onCell != nil {
		r.onCell(budget, score)
	}
}

// cellOutcome is the result slot of one grid cell.
type cellOutcome struct {
	score   models.Score
	skipped bool
}

// Sweep evaluates every cell of [0,maxCites) x [0,maxCited). Cells whose
// score is undefined are reported as skipped and left out of the cells;
// any other error aborts the sweep. Cells are returned in grid order,
// cites depth major.
func (r *Runner) Sweep(
	ctx context.Context,
	sources []models.DocumentID,
	maxCites, maxCited int,
	reference models.DocumentSet,
) (*models.SweepResult, error) {
	if len(sources) == 0 {
		return nil, models.ErrEmptySources
	}

	if err := (models.DepthBudget{Cites: maxCites, Cited: maxCited}).Validate(); err != nil {
		return nil, err
	}

	grid := make([]models.DepthBudget, 0, maxCites*maxCited)
	for i := range maxCites {
		for j := range maxCited {
			grid = append(grid, models.DepthBudget{Cites: i, Cited: j})
		}
	}

	outcomes := make([]cellOutcome, len(grid))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for idx, budget := range grid {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			found, err := r.finder.FindNodes(gctx, sources, budget)
			if err != nil {
				return fmt.Errorf("sweep cell (%d,%d): %w", budget.Cites, budget.Cited, err)
			}

			score, err := stats.Score(found, reference)
			if errors.Is(err, models.ErrUndefinedMetric) {
				r.log.WithError(err).WithFields(logrus.Fields{
					"cites_depth": budget.Cites,
					"cited_depth": budget.Cited,
				}).Warn("sweep cell skipped")
				metrics.SweepCellsTotal.WithLabelValues("skipped").Inc()
				outcomes[idx] = cellOutcome{skipped: true}
				r.report(budget, nil)

				return nil
			}

			if err != nil {
				return err
			}

			metrics.SweepCellsTotal.WithLabelValues("scored").Inc()
			outcomes[idx] = cellOutcome{score: score}
			r.report(budget, &score)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep cancelled: %w", err)
	}

	res := &models.SweepResult{
		Cells:   make([]models.SweepCell, 0, len(grid)),
		Skipped: make([]models.DepthBudget, 0),
	}

	for idx, o := range outcomes {
		if o.skipped {
			res.Skipped = append(res.Skipped, grid[idx])
			continue
		}

		res.Cells = append(res.Cells, models.SweepCell{DepthBudget: grid[idx], Score: o.score})
	}

	r.log.WithFields(logrus.Fields{
		"sources":   len(sources),
		"max_cites": maxCites,
		"max_cited": maxCited,
		"scored":    len(res.Cells),
		"skipped":   len(res.Skipped),
	}).Debug("sweep.done")

	return res, nil
}
