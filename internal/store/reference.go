package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
)

// ReferenceStore persists named reference sets.
type ReferenceStore struct {
	Base
}

// NewReferenceStore creates a ReferenceStore with the given shared base.
func NewReferenceStore(base Base) *ReferenceStore {
	return &ReferenceStore{Base: base}
}

// PutReferenceSet creates or replaces the named reference set.
func (s *ReferenceStore) PutReferenceSet(ctx context.Context, name string, docs models.DocumentSet) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx, `INSERT INTO reference_sets (name, documents)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET documents = EXCLUDED.documents, updated_at = now()`,
		name, docs.Sorted())
	if err != nil {
		return fmt.Errorf("upserting reference set %q: %w", name, err)
	}

	s.Log.WithFields(logrus.Fields{"name": name, "size": len(docs)}).Debug("store.reference_set.put")

	return nil
}

// GetReferenceSet returns the named reference set.
func (s *ReferenceStore) GetReferenceSet(ctx context.Context, name string) (models.DocumentSet, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var docs []string

	err := s.Pool.QueryRow(ctx, `SELECT documents FROM reference_sets WHERE name = $1`, name).Scan(&docs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", models.ErrReferenceSetNotFound, name)
		}

		return nil, fmt.Errorf("getting reference set %q: %w", name, err)
	}

	return models.NewDocumentSet(docs...), nil
}

// ListReferenceSets returns up to limit reference sets ordered by name.
func (s *ReferenceStore) ListReferenceSets(ctx context.Context, limit int) ([]models.ReferenceSetInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `SELECT name, cardinality(documents), updated_at
		FROM reference_sets ORDER BY name LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing reference sets: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ReferenceSetInfo, error) {
		var info models.ReferenceSetInfo
		err := row.Scan(&info.Name, &info.Size, &info.UpdatedAt)

		return info, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning reference sets: %w", err)
	}

	return out, nil
}

// DeleteReferenceSet removes the named reference set.
func (s *ReferenceStore) DeleteReferenceSet(ctx context.Context, name string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM reference_sets WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting reference set %q: %w", name, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", models.ErrReferenceSetNotFound, name)
	}

	return nil
}
