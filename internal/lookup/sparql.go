package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
)

// DefaultEndpoint is the public SPARQL endpoint of the EU Publications Office.
const DefaultEndpoint = "https://publications.europa.eu/webapi/rdf/sparql"

// Defaults applied by NewSPARQL when an option is left zero.
const (
	defaultTimeout    = 30 * time.Second
	defaultRate       = 5
	defaultRetries    = 3
	defaultRetryDelay = 500 * time.Millisecond
	maxResponseBytes  = 32 << 20 // 32 MB
)

// Options configures a SPARQL lookup.
type Options struct {
	Endpoint   string
	Kind       models.Kind // KindUnknown disables filtering
	Timeout    time.Duration
	RatePerSec float64
	Retries    int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Log        *logrus.Logger
}

// SPARQL implements CitationLookup against a SPARQL 1.1 endpoint exposing
// the CDM ontology.
type SPARQL struct {
	endpoint   string
	kind       models.Kind
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	client     *http.Client
	log        *logrus.Logger
	limiter    *rate.Limiter
	breaker    *breaker
	group      singleflight.Group
}

// Compile-time check.
var _ CitationLookup = (*SPARQL)(nil)

// statusError is a non-200 reply from the endpoint.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("sparql endpoint returned status %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code >= 500 || e.code == http.StatusTooManyRequests
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

// NewSPARQL creates a SPARQL lookup, filling unset options with defaults.
func NewSPARQL(opts Options) *SPARQL {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = defaultRate
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	return &SPARQL{
		endpoint:   opts.Endpoint,
		kind:       opts.Kind,
		timeout:    opts.Timeout,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		client:     opts.HTTPClient,
		log:        opts.Log,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSec), int(opts.RatePerSec)+1),
		breaker:    newBreaker(),
	}
}

// Lookup returns the documents of the configured kind within hops of id.
// A zero budget yields an empty set without contacting the endpoint.
// Identical concurrent lookups share one request.
func (s *SPARQL) Lookup(ctx context.Context, id models.DocumentID, hops models.DepthBudget) (models.DocumentSet, error) {
	if err := models.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	if err := hops.Validate(); err != nil {
		return nil, err
	}

	if hops.IsZero() {
		return make(models.DocumentSet), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrLookupFailed, id, err)
	}

	key := fmt.Sprintf("%s|%d|%d", id, hops.Cites, hops.Cited)

	// The shared request must outlive any single caller; each caller stops
	// waiting on its own context.
	ch := s.group.DoChan(key, func() (any, error) {
		return s.lookupWithRetry(context.WithoutCancel(ctx), id, hops)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", models.ErrLookupFailed, id, ctx.Err())
	case res = <-ch:
	}

	if res.Err != nil {
		return nil, res.Err
	}

	val, shared := res.Val, res.Shared

	set, ok := val.(models.DocumentSet)
	if !ok {
		return nil, fmt.Errorf("lookup: unexpected singleflight result type %T", val)
	}

	if shared {
		return set.Clone(), nil
	}

	return set, nil
}

func (s *SPARQL) lookupWithRetry(ctx context.Context, id models.DocumentID, hops models.DepthBudget) (models.DocumentSet, error) {
	query := buildQuery(id, hops)

	var lastErr error

	for attempt := range s.retries {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", models.ErrLookupFailed, id, ctx.Err())
		}

		// The half-open trial slot is taken only once the limiter admits us.
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: waiting for rate limiter: %w", models.ErrLookupFailed, id, err)
		}

		if err := s.breaker.allow(); err != nil {
			metrics.LookupsTotal.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: %s: %w", models.ErrLookupFailed, id, err)
		}

		start := time.Now()
		ids, err := s.query(ctx, query)
		if err != nil && ctx.Err() != nil {
			// Abandoned by the caller: says nothing about the endpoint.
			s.breaker.release()
			return nil, fmt.Errorf("%w: %s: %w", models.ErrLookupFailed, id, ctx.Err())
		}
		if err == nil {
			s.breaker.recordSuccess()
			metrics.LookupDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
			metrics.LookupsTotal.WithLabelValues("ok").Inc()

			result := s.filter(ids)
			s.log.WithFields(logrus.Fields{
				"source":      id,
				"cites_depth": hops.Cites,
				"cited_depth": hops.Cited,
				"raw":         len(ids),
				"kept":        len(result),
			}).Debug("lookup.sparql")

			return result, nil
		}

		s.breaker.recordFailure()
		metrics.LookupDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}

		s.log.WithError(err).WithFields(logrus.Fields{
			"source":  id,
			"attempt": attempt + 1,
		}).Warn("citation lookup failed")

		if attempt < s.retries-1 {
			delay := s.retryDelay * (1 << attempt) // exponential backoff
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %s: %w", models.ErrLookupFailed, id, ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("%w: %s: %w", models.ErrLookupFailed, id, lastErr)
}

// query posts one SPARQL query and returns the ?name2 bindings.
func (s *SPARQL) query(ctx context.Context, query string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	form := url.Values{"query": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating sparql request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling sparql endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain body so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20)) //nolint:errcheck // best-effort drain before close.
		return nil, &statusError{code: resp.StatusCode}
	}

	var result sparqlResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding sparql response: %w", err)
	}

	ids := make([]string, 0, len(result.Results.Bindings))
	for _, b := range result.Results.Bindings {
		if v, ok := b["name2"]; ok && v.Value != "" {
			ids = append(ids, v.Value)
		}
	}

	return ids, nil
}

// filter keeps only identifiers of the configured kind.
func (s *SPARQL) filter(ids []string) models.DocumentSet {
	out := make(models.DocumentSet, len(ids))
	for _, id := range ids {
		if s.kind == models.KindUnknown || models.Classify(id) == s.kind {
			out.Add(id)
		}
	}

	return out
}

// CircuitState returns "closed", "open" or "half_open".
func (s *SPARQL) CircuitState() string {
	return s.breaker.stateName()
}
