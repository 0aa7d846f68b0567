package models

import "fmt"

// Direction tags which way a traversal follows citations.
type Direction int

const (
	// Cites follows documents that the current document cites.
	Cites Direction = iota
	// CitedBy follows documents that cite the current document.
	CitedBy
)

// String returns the direction's log name.
func (d Direction) String() string {
	if d == CitedBy {
		return "cited"
	}

	return "cites"
}

// DepthBudget holds the hops still permitted in each direction.
type DepthBudget struct {
	Cites int `json:"cites_depth"`
	Cited int `json:"cited_depth"`
}

// Validate rejects negative depths.
func (b DepthBudget) Validate() error {
	if b.Cites < 0 {
		return fmt.Errorf("%w: cites_depth=%d", ErrInvalidDepth, b.Cites)
	}

	if b.Cited < 0 {
		return fmt.Errorf("%w: cited_depth=%d", ErrInvalidDepth, b.Cited)
	}

	return nil
}

// IsZero reports whether no hops remain in either direction.
func (b DepthBudget) IsZero() bool {
	return b.Cites == 0 && b.Cited == 0
}

// Along returns the budget for direction d, the other direction zeroed.
func (b DepthBudget) Along(d Direction) DepthBudget {
	if d == CitedBy {
		return DepthBudget{Cited: b.Cited}
	}

	return DepthBudget{Cites: b.Cites}
}

// Depth returns the remaining hops for direction d.
func (b DepthBudget) Depth(d Direction) int {
	if d == CitedBy {
		return b.Cited
	}

	return b.Cites
}

// SingleHop returns the one-hop budget along direction d.
func SingleHop(d Direction) DepthBudget {
	if d == CitedBy {
		return DepthBudget{Cited: 1}
	}

	return DepthBudget{Cites: 1}
}
