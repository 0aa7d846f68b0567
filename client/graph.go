package client

import "context"

// GraphService handles graph post-processing.
type GraphService struct {
	c *Client
}

// Filter keeps the nodes with at least minDegree distinct neighbors.
func (s *GraphService) Filter(ctx context.Context, links []Link, minDegree int) (*FilterResult, error) {
	var resp FilterResult
	if err := s.c.post(ctx, "/api/v1/graph/filter", FilterRequest{Links: links, MinDegree: minDegree}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
