package expand

import (
	"sync"

	"github.com/persistorai/citegraph/internal/models"
)

// VisitedSet records the documents already expanded in one top-level
// traversal. Both directions share it, so a document reached along cites
// and cited-by is expanded only once. Safe for concurrent use.
type VisitedSet struct {
	mu   sync.Mutex
	seen models.DocumentSet
}

// NewVisitedSet returns an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(models.DocumentSet)}
}

// Mark records id as expanded. It returns false if id was already marked.
func (v *VisitedSet) Mark(id models.DocumentID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.seen.Has(id) {
		return false
	}

	v.seen.Add(id)

	return true
}

// Seen reports whether id has been expanded.
func (v *VisitedSet) Seen(id models.DocumentID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.seen.Has(id)
}

// Len returns the number of documents expanded.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.seen)
}
