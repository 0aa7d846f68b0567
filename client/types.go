package client

import "time"

// Link is a directed citation: Source cites Target.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a citation graph with sorted nodes and links.
type Graph struct {
	Nodes []string `json:"nodes"`
	Links []Link   `json:"links"`
}

// Depths holds the hop budget in each direction.
type Depths struct {
	Cites int `json:"cites_depth"`
	Cited int `json:"cited_depth"`
}

// Score holds precision, recall and F1 of a found set against a reference.
type Score struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Reference names the set to score against: inline documents or a stored set.
type Reference struct {
	Documents []string `json:"reference,omitempty"`
	Set       string   `json:"reference_set,omitempty"`
}

// ExpandRequest is the payload for POST /api/v1/citations/expand.
type ExpandRequest struct {
	Sources []string `json:"sources"`
	Depths
	Reference
	Save bool `json:"save,omitempty"`
}

// ExpandResult is the response of an expansion.
type ExpandResult struct {
	Graph Graph   `json:"graph"`
	Score *Score  `json:"score,omitempty"`
	RunID *string `json:"run_id,omitempty"`
}

// Merge modes for Collect.
const (
	MergeUnion        = "union"
	MergeIntersection = "intersection"
)

// CollectRequest is the payload for POST /api/v1/citations/collect.
type CollectRequest struct {
	Sources []string `json:"sources"`
	Depths
	Mode string `json:"mode,omitempty"`
}

// DocumentsResponse is returned by set-valued endpoints.
type DocumentsResponse struct {
	Source    string   `json:"source,omitempty"`
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// ScoreRequest is the payload for POST /api/v1/stats/score.
type ScoreRequest struct {
	Found []string `json:"found"`
	Reference
}

// Report is a score together with the set comparison behind it.
type Report struct {
	Score
	Found  int      `json:"found"`
	Common []string `json:"common"`
	Missed []string `json:"missed"`
	Extra  []string `json:"extra"`
}

// SweepRequest is the payload for POST /api/v1/stats/sweep.
type SweepRequest struct {
	Sources  []string `json:"sources"`
	MaxCites int      `json:"max_cites_depth"`
	MaxCited int      `json:"max_cited_depth"`
	Reference
}

// SweepCell is the score of one depth pair.
type SweepCell struct {
	Depths
	Score
}

// SweepResult holds scored cells in grid order and the skipped pairs.
type SweepResult struct {
	Cells   []SweepCell `json:"cells"`
	Skipped []Depths    `json:"skipped"`
}

// FilterRequest is the payload for POST /api/v1/graph/filter.
type FilterRequest struct {
	Links     []Link `json:"links"`
	MinDegree int    `json:"min_degree"`
}

// FilterResult is the outcome of a degree filter.
type FilterResult struct {
	Nodes   []string       `json:"nodes"`
	Links   []Link         `json:"links"`
	Degrees map[string]int `json:"degrees"`
}

// ReferenceSet is a named reference set.
type ReferenceSet struct {
	Name      string   `json:"name"`
	Documents []string `json:"documents"`
	Size      int      `json:"size"`
}

// ReferenceSetInfo summarizes a stored reference set.
type ReferenceSetInfo struct {
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Run is a persisted expansion.
type Run struct {
	ID        string    `json:"id"`
	Sources   []string  `json:"sources"`
	Budget    Depths    `json:"budget"`
	Graph     Graph     `json:"graph"`
	Score     *Score    `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	Lookup        string  `json:"lookup"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
