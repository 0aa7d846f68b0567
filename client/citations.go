package client

import (
	"context"
	"net/url"
	"strconv"
)

// CitationService handles citation lookup and expansion.
type CitationService struct {
	c *Client
}

// Get returns the documents within the given depths of id.
func (s *CitationService) Get(ctx context.Context, id string, depths Depths) (*DocumentsResponse, error) {
	params := url.Values{}
	params.Set("cites", strconv.Itoa(depths.Cites))
	params.Set("cited", strconv.Itoa(depths.Cited))
	var resp DocumentsResponse
	if err := s.c.get(ctx, "/api/v1/citations/"+url.PathEscape(id), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Expand builds the citation graph around the given sources.
func (s *CitationService) Expand(ctx context.Context, req ExpandRequest) (*ExpandResult, error) {
	var resp ExpandResult
	if err := s.c.post(ctx, "/api/v1/citations/expand", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Collect returns the union or intersection of the sources' neighbor sets.
func (s *CitationService) Collect(ctx context.Context, req CollectRequest) (*DocumentsResponse, error) {
	var resp DocumentsResponse
	if err := s.c.post(ctx, "/api/v1/citations/collect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
