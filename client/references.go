package client

import (
	"context"
	"net/url"
	"strconv"
)

// ReferenceService handles named reference sets.
type ReferenceService struct {
	c *Client
}

// List returns stored reference sets.
func (s *ReferenceService) List(ctx context.Context, limit int) ([]ReferenceSetInfo, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		ReferenceSets []ReferenceSetInfo `json:"reference_sets"`
	}
	if err := s.c.get(ctx, "/api/v1/reference-sets", params, &resp); err != nil {
		return nil, err
	}
	return resp.ReferenceSets, nil
}

// Get returns a reference set by name.
func (s *ReferenceService) Get(ctx context.Context, name string) (*ReferenceSet, error) {
	var resp ReferenceSet
	if err := s.c.get(ctx, "/api/v1/reference-sets/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Put stores or replaces a reference set.
func (s *ReferenceService) Put(ctx context.Context, name string, documents []string) (*ReferenceSet, error) {
	body := struct {
		Documents []string `json:"documents"`
	}{Documents: documents}
	var resp ReferenceSet
	if err := s.c.put(ctx, "/api/v1/reference-sets/"+url.PathEscape(name), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
