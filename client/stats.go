package client

import "context"

// StatsService handles scoring against reference sets.
type StatsService struct {
	c *Client
}

// Score compares a found set against a reference.
func (s *StatsService) Score(ctx context.Context, req ScoreRequest) (*Report, error) {
	var resp Report
	if err := s.c.post(ctx, "/api/v1/stats/score", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sweep scores every depth pair below the given bounds.
func (s *StatsService) Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	var resp SweepResult
	if err := s.c.post(ctx, "/api/v1/stats/sweep", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
