package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
)

// RunStore persists expansion runs with their nodes and links.
type RunStore struct {
	Base
}

// NewRunStore creates a RunStore with the given shared base.
func NewRunStore(base Base) *RunStore {
	return &RunStore{Base: base}
}

// SaveRun inserts run, its nodes and its links in one transaction. A zero
// run ID is replaced with a fresh UUID.
func (s *RunStore) SaveRun(ctx context.Context, run *models.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	var precision, recall, f1 *float64
	if run.Score != nil {
		precision, recall, f1 = &run.Score.Precision, &run.Score.Recall, &run.Score.F1
	}

	err = tx.QueryRow(ctx, `INSERT INTO runs (id, sources, cites_depth, cited_depth, precision, recall, f1)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		run.ID, run.Sources, run.Budget.Cites, run.Budget.Cited, precision, recall, f1,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if run.Graph != nil {
		if err := copyGraph(ctx, tx, run.ID, run.Graph); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}

	s.Log.WithFields(logrus.Fields{
		"run_id": run.ID,
		"nodes":  nodeCount(run.Graph),
	}).Debug("store.run.saved")

	return nil
}

func copyGraph(ctx context.Context, tx pgx.Tx, id uuid.UUID, g *models.CitationGraph) error {
	nodes := g.Nodes.Sorted()
	nodeRows := make([][]any, len(nodes))

	for i, n := range nodes {
		nodeRows[i] = []any{id, n}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"run_nodes"}, []string{"run_id", "document"}, pgx.CopyFromRows(nodeRows)); err != nil {
		return fmt.Errorf("copying run nodes: %w", err)
	}

	links := g.Links.Sorted()
	linkRows := make([][]any, len(links))

	for i, l := range links {
		linkRows[i] = []any{id, l.From, l.To}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"run_links"}, []string{"run_id", "source", "target"}, pgx.CopyFromRows(linkRows)); err != nil {
		return fmt.Errorf("copying run links: %w", err)
	}

	return nil
}

// GetRun loads a run with its graph.
func (s *RunStore) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only.

	run := &models.Run{ID: id, Graph: models.NewCitationGraph()}

	var precision, recall, f1 *float64

	err = tx.QueryRow(ctx, `SELECT sources, cites_depth, cited_depth, precision, recall, f1, created_at
		FROM runs WHERE id = $1`, id,
	).Scan(&run.Sources, &run.Budget.Cites, &run.Budget.Cited, &precision, &recall, &f1, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", models.ErrRunNotFound, id)
		}

		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}

	if precision != nil && recall != nil && f1 != nil {
		run.Score = &models.Score{Precision: *precision, Recall: *recall, F1: *f1}
	}

	nodes, err := queryStrings(ctx, tx, `SELECT document FROM run_nodes WHERE run_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting run nodes: %w", err)
	}

	for _, n := range nodes {
		run.Graph.AddNode(n)
	}

	rows, err := tx.Query(ctx, `SELECT source, target FROM run_links WHERE run_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting run links: %w", err)
	}

	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Link, error) {
		var l models.Link
		err := row.Scan(&l.From, &l.To)

		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning run links: %w", err)
	}

	for _, l := range links {
		run.Graph.AddLink(l)
	}

	return run, nil
}

func queryStrings(ctx context.Context, tx pgx.Tx, sql string, args ...any) ([]string, error) {
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func nodeCount(g *models.CitationGraph) int {
	if g == nil {
		return 0
	}

	return len(g.Nodes)
}
