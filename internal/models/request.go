package models

import "fmt"

// Request limits.
const (
	maxSources       = 200
	maxReferenceSize = 10000
	maxNameLen       = 100
)

// ExpandRequest is the payload for multi-seed structural expansion. When a
// reference is given the expanded nodes are scored against it.
type ExpandRequest struct {
	Sources []DocumentID `json:"sources"`
	DepthBudget
	Reference    []DocumentID `json:"reference,omitempty"`
	ReferenceSet string       `json:"reference_set,omitempty"`
	Save         bool         `json:"save,omitempty"`
}

// Validate checks sources, depths and the optional reference.
func (r *ExpandRequest) Validate() error {
	if err := validateSources(r.Sources); err != nil {
		return err
	}

	if err := r.DepthBudget.Validate(); err != nil {
		return err
	}

	if len(r.Reference) == 0 && r.ReferenceSet == "" {
		return nil
	}

	return validateReference(r.Reference, r.ReferenceSet)
}

// HasReference reports whether the request asks for scoring.
func (r *ExpandRequest) HasReference() bool {
	return len(r.Reference) > 0 || r.ReferenceSet != ""
}

// MergeMode selects how per-source neighbor sets are combined.
type MergeMode string

// Merge modes.
const (
	MergeUnion        MergeMode = "union"
	MergeIntersection MergeMode = "intersection"
)

// CollectRequest is the payload for set-based neighbor collection.
type CollectRequest struct {
	Sources []DocumentID `json:"sources"`
	DepthBudget
	Mode MergeMode `json:"mode,omitempty"`
}

// Validate checks sources, depths and mode. An empty mode means union.
func (r *CollectRequest) Validate() error {
	if err := validateSources(r.Sources); err != nil {
		return err
	}

	if err := r.DepthBudget.Validate(); err != nil {
		return err
	}

	switch r.Mode {
	case "", MergeUnion, MergeIntersection:
		return nil
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", MergeUnion, MergeIntersection, r.Mode)
	}
}

// ScoreRequest asks for a found set to be scored against a reference set,
// given either inline or by name.
type ScoreRequest struct {
	Found        []DocumentID `json:"found"`
	Reference    []DocumentID `json:"reference,omitempty"`
	ReferenceSet string       `json:"reference_set,omitempty"`
}

// Validate checks that a reference is supplied.
func (r *ScoreRequest) Validate() error {
	return validateReference(r.Reference, r.ReferenceSet)
}

// SweepRequest asks for a depth sweep over [0,MaxCites) x [0,MaxCited).
type SweepRequest struct {
	Sources      []DocumentID `json:"sources"`
	MaxCites     int          `json:"max_cites_depth"`
	MaxCited     int          `json:"max_cited_depth"`
	Reference    []DocumentID `json:"reference,omitempty"`
	ReferenceSet string       `json:"reference_set,omitempty"`
}

// Validate checks sources, grid bounds and reference.
func (r *SweepRequest) Validate() error {
	if err := validateSources(r.Sources); err != nil {
		return err
	}

	if err := (DepthBudget{Cites: r.MaxCites, Cited: r.MaxCited}).Validate(); err != nil {
		return err
	}

	return validateReference(r.Reference, r.ReferenceSet)
}

// FilterRequest asks for a degree filter over a link set.
type FilterRequest struct {
	Links     []Link `json:"links"`
	MinDegree int    `json:"min_degree"`
}

// Validate checks the threshold and link endpoints.
func (r *FilterRequest) Validate() error {
	if r.MinDegree < 0 {
		return fmt.Errorf("min_degree must be non-negative, got %d", r.MinDegree)
	}

	for _, l := range r.Links {
		if err := ValidateDocumentID(l.From); err != nil {
			return err
		}

		if err := ValidateDocumentID(l.To); err != nil {
			return err
		}
	}

	return nil
}

// FilterResult is the outcome of a degree filter.
type FilterResult struct {
	Nodes   []DocumentID       `json:"nodes"`
	Links   []Link             `json:"links"`
	Degrees map[DocumentID]int `json:"degrees"`
}

// ReferenceSetRequest is the payload for storing a named reference set.
type ReferenceSetRequest struct {
	Documents []DocumentID `json:"documents"`
}

// Validate checks the document list.
func (r *ReferenceSetRequest) Validate() error {
	if len(r.Documents) == 0 {
		return fmt.Errorf("documents must not be empty")
	}

	if len(r.Documents) > maxReferenceSize {
		return fmt.Errorf("documents exceeds maximum of %d", maxReferenceSize)
	}

	for _, id := range r.Documents {
		if err := ValidateDocumentID(id); err != nil {
			return err
		}
	}

	return nil
}

// ValidateReferenceSetName checks a reference set name.
func ValidateReferenceSetName(name string) error {
	if name == "" {
		return fmt.Errorf("reference set name is required")
	}

	if len(name) > maxNameLen {
		return ErrFieldTooLong("reference set name", maxNameLen)
	}

	return nil
}

func validateSources(sources []DocumentID) error {
	if len(sources) == 0 {
		return ErrEmptySources
	}

	if len(sources) > maxSources {
		return fmt.Errorf("sources exceeds maximum of %d", maxSources)
	}

	for _, id := range sources {
		if err := ValidateDocumentID(id); err != nil {
			return err
		}
	}

	return nil
}

func validateReference(inline []DocumentID, name string) error {
	if len(inline) == 0 && name == "" {
		return fmt.Errorf("reference or reference_set is required")
	}

	if len(inline) > 0 && name != "" {
		return fmt.Errorf("reference and reference_set are mutually exclusive")
	}

	if name != "" {
		return ValidateReferenceSetName(name)
	}

	for _, id := range inline {
		if err := ValidateDocumentID(id); err != nil {
			return err
		}
	}

	return nil
}
