package expand

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// fakeLookup answers lookups from an in-memory citation table and records
// every call.
type fakeLookup struct {
	mu    sync.Mutex
	calls []string

	cites map[string][]string // document -> documents it cites
	fail  map[string]error
}

func newFakeLookup(cites map[string][]string) *fakeLookup {
	return &fakeLookup{cites: cites, fail: map[string]error{}}
}

func callKey(id string, hops models.DepthBudget) string {
	return fmt.Sprintf("%s|%d|%d", id, hops.Cites, hops.Cited)
}

func (f *fakeLookup) Lookup(_ context.Context, id models.DocumentID, hops models.DepthBudget) (models.DocumentSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, callKey(id, hops))

	if err := f.fail[id]; err != nil {
		return nil, err
	}

	out := make(models.DocumentSet)
	out.AddAll(reach(id, hops.Cites, func(n string) []string { return f.cites[n] }))
	out.AddAll(reach(id, hops.Cited, f.citing))

	return out, nil
}

func (f *fakeLookup) citing(id string) []string {
	var out []string
	for from, tos := range f.cites {
		for _, to := range tos {
			if to == id {
				out = append(out, from)
			}
		}
	}

	return out
}

func (f *fakeLookup) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}

	return n
}

func (f *fakeLookup) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

// reach returns everything within 1..hops steps of id.
func reach(id string, hops int, next func(string) []string) models.DocumentSet {
	out := make(models.DocumentSet)
	frontier := []string{id}

	for range hops {
		var nf []string
		for _, n := range frontier {
			for _, m := range next(n) {
				if !out.Has(m) {
					out.Add(m)
					nf = append(nf, m)
				}
			}
		}
		frontier = nf
	}

	return out
}
