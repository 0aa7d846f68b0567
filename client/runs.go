package client

import (
	"context"
	"net/http"
	"net/url"
)

// RunService handles persisted runs.
type RunService struct {
	c *Client
}

// Get returns a run by id.
func (s *RunService) Get(ctx context.Context, id string) (*Run, error) {
	var resp Run
	if err := s.c.get(ctx, "/api/v1/runs/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export returns a run rendered as csv, gexf or html.
func (s *RunService) Export(ctx context.Context, id, format string) ([]byte, error) {
	path := "/api/v1/runs/" + url.PathEscape(id) + "/export?" + url.Values{"format": {format}}.Encode()
	return s.c.doRaw(ctx, http.MethodGet, path, nil)
}
