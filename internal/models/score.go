package models

// Score holds precision, recall and F1 of a found set against a reference set.
type Score struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Report is a Score together with the set comparison it was derived from.
type Report struct {
	Score
	Found  int          `json:"found"`
	Common []DocumentID `json:"common"`
	Missed []DocumentID `json:"missed"`
	Extra  []DocumentID `json:"extra"`
}

// SweepCell is the score of one depth pair in a sweep.
type SweepCell struct {
	DepthBudget
	Score
}

// SweepResult holds the scored cells of a sweep in grid order and the depth
// pairs whose score was undefined.
type SweepResult struct {
	Cells   []SweepCell   `json:"cells"`
	Skipped []DepthBudget `json:"skipped"`
}
