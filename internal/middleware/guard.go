package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	guardMaxFailures = 5
	guardWindow      = 15 * time.Minute
	guardLockout     = 5 * time.Minute
	guardCleanup     = time.Minute
	guardMaxRecords  = 10000
)

type failures struct {
	count    int
	first    time.Time
	lockedAt time.Time
}

// FailureGuard locks out client IPs that fail authentication repeatedly
// within a window.
type FailureGuard struct {
	mu      sync.Mutex
	records map[string]*failures
	now     func() time.Time
	log     *logrus.Logger
}

// NewFailureGuard creates a guard whose cleanup loop stops with ctx.
func NewFailureGuard(ctx context.Context, log *logrus.Logger) *FailureGuard {
	g := &FailureGuard{
		records: make(map[string]*failures),
		now:     time.Now,
		log:     log,
	}
	go g.cleanupLoop(ctx)

	return g
}

// Blocked reports whether ip is locked out.
func (g *FailureGuard) Blocked(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[ip]

	return ok && !rec.lockedAt.IsZero() && g.now().Sub(rec.lockedAt) < guardLockout
}

// RecordFailure counts a failed attempt from ip.
func (g *FailureGuard) RecordFailure(ip string) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[ip]
	if !ok || now.Sub(rec.first) > guardWindow {
		if !ok && len(g.records) >= guardMaxRecords {
			return
		}

		g.records[ip] = &failures{count: 1, first: now}

		return
	}

	rec.count++
	if rec.count >= guardMaxFailures && rec.lockedAt.IsZero() {
		rec.lockedAt = now
		g.log.WithField("client_ip", ip).Warn("client locked out after repeated auth failures")
	}
}

// Reset clears the record for ip.
func (g *FailureGuard) Reset(ip string) {
	g.mu.Lock()
	delete(g.records, ip)
	g.mu.Unlock()
}

func (g *FailureGuard) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(guardCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

// sweep drops expired lockouts and stale windows.
func (g *FailureGuard) sweep() {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	for ip, rec := range g.records {
		locked := !rec.lockedAt.IsZero()
		if (locked && now.Sub(rec.lockedAt) >= guardLockout) || (!locked && now.Sub(rec.first) >= guardWindow) {
			delete(g.records, ip)
		}
	}
}
