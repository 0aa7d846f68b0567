// Package stats scores a discovered document set against a reference set.
package stats

import (
	"fmt"

	"github.com/persistorai/citegraph/internal/models"
)

// Score computes precision, recall and F1 of found against reference.
// It fails with models.ErrUndefinedMetric when found or reference is empty
// or when found and reference share no document.
func Score(found, reference models.DocumentSet) (models.Score, error) {
	if len(found) == 0 {
		return models.Score{}, fmt.Errorf("%w: precision of an empty found set", models.ErrUndefinedMetric)
	}

	if len(reference) == 0 {
		return models.Score{}, fmt.Errorf("%w: recall against an empty reference set", models.ErrUndefinedMetric)
	}

	common := float64(len(found.Intersect(reference)))
	precision := common / float64(len(found))
	recall := common / float64(len(reference))

	if precision+recall == 0 {
		return models.Score{}, fmt.Errorf("%w: f1 with zero precision and recall", models.ErrUndefinedMetric)
	}

	return models.Score{
		Precision: precision,
		Recall:    recall,
		F1:        2 * precision * recall / (precision + recall),
	}, nil
}

// Compare scores found against reference and lists the documents found in
// both, missed from the reference, and found in excess.
func Compare(found, reference models.DocumentSet) (*models.Report, error) {
	score, err := Score(found, reference)
	if err != nil {
		return nil, err
	}

	return &models.Report{
		Score:  score,
		Found:  len(found),
		Common: found.Intersect(reference).Sorted(),
		Missed: reference.Difference(found).Sorted(),
		Extra:  found.Difference(reference).Sorted(),
	}, nil
}
