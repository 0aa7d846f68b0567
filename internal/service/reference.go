package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/models"
)

// ReferenceRepository is the data-access interface for reference sets.
type ReferenceRepository = domain.ReferenceService

// Compile-time checks.
var (
	_ domain.ReferenceService = (*ReferenceService)(nil)
	_ ReferenceRepository     = (*MemoryReferences)(nil)
)

// ReferenceService wraps a ReferenceRepository with validation and logging.
type ReferenceService struct {
	repo ReferenceRepository
	log  *logrus.Logger
}

// NewReferenceService creates a ReferenceService.
func NewReferenceService(repo ReferenceRepository, log *logrus.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, log: log}
}

// PutReferenceSet stores docs under name, replacing any previous set.
func (s *ReferenceService) PutReferenceSet(ctx context.Context, name string, docs models.DocumentSet) error {
	if err := models.ValidateReferenceSetName(name); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"name": name, "size": len(docs)}).Debug("reference.put")

	return s.repo.PutReferenceSet(ctx, name, docs)
}

// GetReferenceSet returns the named reference set.
func (s *ReferenceService) GetReferenceSet(ctx context.Context, name string) (models.DocumentSet, error) {
	if err := models.ValidateReferenceSetName(name); err != nil {
		return nil, err
	}

	s.log.WithField("name", name).Debug("reference.get")

	return s.repo.GetReferenceSet(ctx, name)
}

// ListReferenceSets returns up to limit reference sets ordered by name.
func (s *ReferenceService) ListReferenceSets(ctx context.Context, limit int) ([]models.ReferenceSetInfo, error) {
	s.log.WithField("limit", limit).Debug("reference.list")

	return s.repo.ListReferenceSets(ctx, limit)
}

// MemoryReferences is an in-process ReferenceRepository used when no
// database is configured.
type MemoryReferences struct {
	mu   sync.RWMutex
	sets map[string]memoryEntry
	now  func() time.Time
}

type memoryEntry struct {
	docs      models.DocumentSet
	updatedAt time.Time
}

// NewMemoryReferences returns an empty in-memory repository.
func NewMemoryReferences() *MemoryReferences {
	return &MemoryReferences{sets: make(map[string]memoryEntry), now: time.Now}
}

// referenceFile is the YAML layout of REFERENCE_FILE.
type referenceFile struct {
	ReferenceSets map[string][]models.DocumentID `yaml:"reference_sets"`
}

// LoadReferenceFile reads named reference sets from a YAML file of the form
//
//	reference_sets:
//	  drones:
//	    - 32019R0947
//	    - 32018R1139
func LoadReferenceFile(path string) (*MemoryReferences, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path.
	if err != nil {
		return nil, fmt.Errorf("reading reference file: %w", err)
	}

	var f referenceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing reference file: %w", err)
	}

	m := NewMemoryReferences()

	for name, docs := range f.ReferenceSets {
		if err := models.ValidateReferenceSetName(name); err != nil {
			return nil, err
		}

		req := models.ReferenceSetRequest{Documents: docs}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("reference set %q: %w", name, err)
		}

		m.sets[name] = memoryEntry{docs: models.NewDocumentSet(docs...), updatedAt: m.now()}
	}

	return m, nil
}

// PutReferenceSet stores a copy of docs under name.
func (m *MemoryReferences) PutReferenceSet(_ context.Context, name string, docs models.DocumentSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets[name] = memoryEntry{docs: docs.Clone(), updatedAt: m.now()}

	return nil
}

// GetReferenceSet returns a copy of the named set.
func (m *MemoryReferences) GetReferenceSet(_ context.Context, name string) (models.DocumentSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrReferenceSetNotFound, name)
	}

	return e.docs.Clone(), nil
}

// ListReferenceSets returns up to limit sets ordered by name; limit <= 0
// returns all of them.
func (m *MemoryReferences) ListReferenceSets(_ context.Context, limit int) ([]models.ReferenceSetInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ReferenceSetInfo, 0, len(m.sets))
	for name, e := range m.sets {
		out = append(out, models.ReferenceSetInfo{Name: name, Size: len(e.docs), UpdatedAt: e.updatedAt})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
