package graphql

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/models"
)

const defaultReferenceSetLimit = 50

// Resolver holds the services behind the root fields. A nil service makes its
// fields fail with an internal error.
type Resolver struct {
	Citations  domain.CitationService
	References domain.ReferenceService
	Runs       domain.RunService
}

type fieldFunc func(ctx context.Context, args map[string]any) (any, error)

// degree is the list form of one FilterResult degree entry.
type degree struct {
	ID     models.DocumentID `json:"id"`
	Degree int               `json:"degree"`
}

type filterResult struct {
	Nodes   []models.DocumentID `json:"nodes"`
	Links   []models.Link       `json:"links"`
	Degrees []degree            `json:"degrees"`
}

var errServiceUnavailable = errors.New("service not configured")

// fields returns the root field resolvers keyed by "Type.field".
func (r *Resolver) fields() map[string]fieldFunc {
	return map[string]fieldFunc{
		"Query.citations":          r.citations,
		"Query.expand":             r.expand,
		"Query.collect":            r.collect,
		"Query.score":              r.score,
		"Query.sweep":              r.sweep,
		"Query.filter":             r.filter,
		"Query.referenceSets":      r.referenceSets,
		"Query.referenceSet":       r.referenceSet,
		"Query.run":                r.run,
		"Mutation.putReferenceSet": r.putReferenceSet,
	}
}

func (r *Resolver) citations(ctx context.Context, args map[string]any) (any, error) {
	if r.Citations == nil {
		return nil, errServiceUnavailable
	}

	budget, err := budgetArgs(args)
	if err != nil {
		return nil, err
	}

	docs, err := r.Citations.Citations(ctx, stringArg(args, "id"), budget)
	if err != nil {
		return nil, err
	}

	return docs.Sorted(), nil
}

func (r *Resolver) expand(ctx context.Context, args map[string]any) (any, error) {
	if r.Citations == nil {
		return nil, errServiceUnavailable
	}

	req := models.ExpandRequest{
		ReferenceSet: stringArg(args, "referenceSet"),
		Save:         boolArg(args, "save"),
	}

	var err error
	if req.Sources, err = idsArg(args, "sources"); err != nil {
		return nil, err
	}

	if req.DepthBudget, err = budgetArgs(args); err != nil {
		return nil, err
	}

	if req.Reference, err = idsArg(args, "reference"); err != nil {
		return nil, err
	}

	if err := validated(&req); err != nil {
		return nil, err
	}

	return r.Citations.Expand(ctx, req)
}

func (r *Resolver) collect(ctx context.Context, args map[string]any) (any, error) {
	if r.Citations == nil {
		return nil, errServiceUnavailable
	}

	req := models.CollectRequest{Mode: models.MergeMode(strings.ToLower(stringArg(args, "mode")))}

	var err error
	if req.Sources, err = idsArg(args, "sources"); err != nil {
		return nil, err
	}

	if req.DepthBudget, err = budgetArgs(args); err != nil {
		return nil, err
	}

	if err := validated(&req); err != nil {
		return nil, err
	}

	docs, err := r.Citations.Collect(ctx, req)
	if err != nil {
		return nil, err
	}

	return docs.Sorted(), nil
}

func (r *Resolver) score(ctx context.Context, args map[string]any) (any, error) {
	if r.Citations == nil {
		return nil, errServiceUnavailable
	}

	req := models.ScoreRequest{ReferenceSet: stringArg(args, "referenceSet")}

	var err error
	if req.Found, err = idsArg(args, "found"); err != nil {
		return nil, err
	}

	if req.Reference, err = idsArg(args, "reference"); err != nil {
		return nil, err
	}

	if err := validated(&req); err != nil {
		return nil, err
	}

	return r.Citations.Score(ctx, req)
}

func (r *Resolver) sweep(ctx context.Context, args map[string]any) (any, error) {
	if r.Citations == nil {
		return nil, errServiceUnavailable
	}

	req := models.SweepRequest{ReferenceSet: stringArg(args, "referenceSet")}

	var err error
	if req.Sources, err = idsArg(args, "sources"); err != nil {
		return nil, err
	}

	if req.Reference, err = idsArg(args, "reference"); err != nil {
		return nil, err
	}

	if req.MaxCites, err = intArg(args, "maxCitesDepth"); err != nil {
		return nil, err
	}

	if req.MaxCited, err = intArg(args, "maxCitedDepth"); err != nil {
		return nil, err
	}

	if err := validated(&req); err != nil {
		return nil, err
	}

	return r.Citations.Sweep(ctx, req)
}

func (r *Resolver) filter(ctx context.Context, args map[string]any) (any, error) {
	if r.Citations == nil {
		return nil, errServiceUnavailable
	}

	var (
		req models.FilterRequest
		err error
	)

	if req.Links, err = linksArg(args, "links"); err != nil {
		return nil, err
	}

	if req.MinDegree, err = intArg(args, "minDegree"); err != nil {
		return nil, err
	}

	if err := validated(&req); err != nil {
		return nil, err
	}

	res, err := r.Citations.Filter(ctx, req)
	if err != nil {
		return nil, err
	}

	out := filterResult{Nodes: res.Nodes, Links: res.Links, Degrees: make([]degree, 0, len(res.Degrees))}
	for _, id := range models.NewDocumentSet(keys(res.Degrees)...).Sorted() {
		out.Degrees = append(out.Degrees, degree{ID: id, Degree: res.Degrees[id]})
	}

	return out, nil
}

// validated reports a failed request validation as a bad argument.
func validated(req interface{ Validate() error }) error {
	if err := req.Validate(); err != nil {
		return &argError{msg: err.Error()}
	}

	return nil
}

func keys(m map[models.DocumentID]int) []models.DocumentID {
	out := make([]models.DocumentID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func (r *Resolver) referenceSets(ctx context.Context, args map[string]any) (any, error) {
	if r.References == nil {
		return nil, errServiceUnavailable
	}

	limit, err := intArg(args, "limit")
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultReferenceSetLimit
	}

	return r.References.ListReferenceSets(ctx, limit)
}

func (r *Resolver) referenceSet(ctx context.Context, args map[string]any) (any, error) {
	if r.References == nil {
		return nil, errServiceUnavailable
	}

	name := stringArg(args, "name")
	if err := models.ValidateReferenceSetName(name); err != nil {
		return nil, &argError{msg: err.Error()}
	}

	docs, err := r.References.GetReferenceSet(ctx, name)
	if err != nil {
		return nil, err
	}

	return docs.Sorted(), nil
}

func (r *Resolver) run(ctx context.Context, args map[string]any) (any, error) {
	if r.Runs == nil {
		return nil, errServiceUnavailable
	}

	id, err := uuid.Parse(stringArg(args, "id"))
	if err != nil {
		return nil, &argError{msg: "id must be a UUID"}
	}

	run, err := r.Runs.GetRun(ctx, id)
	if errors.Is(err, models.ErrRunNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return run, nil
}

func (r *Resolver) putReferenceSet(ctx context.Context, args map[string]any) (any, error) {
	if r.References == nil {
		return nil, errServiceUnavailable
	}

	name := stringArg(args, "name")
	if err := models.ValidateReferenceSetName(name); err != nil {
		return nil, &argError{msg: err.Error()}
	}

	var (
		req models.ReferenceSetRequest
		err error
	)

	if req.Documents, err = idsArg(args, "documents"); err != nil {
		return nil, err
	}

	if err := validated(&req); err != nil {
		return nil, err
	}

	if err := r.References.PutReferenceSet(ctx, name, models.NewDocumentSet(req.Documents...)); err != nil {
		return nil, err
	}

	return true, nil
}
