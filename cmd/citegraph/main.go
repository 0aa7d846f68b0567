// Command citegraph serves depth-bounded legal citation expansion over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/api"
	"github.com/persistorai/citegraph/internal/config"
	"github.com/persistorai/citegraph/internal/db"
	"github.com/persistorai/citegraph/internal/dbpool"
	"github.com/persistorai/citegraph/internal/expand"
	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/middleware"
	"github.com/persistorai/citegraph/internal/service"
	"github.com/persistorai/citegraph/internal/store"
	"github.com/persistorai/citegraph/internal/ws"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	runQueueSize      = 100
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	if err := run(log); err != nil {
		log.WithError(err).Fatal("citegraph exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := &api.RouterDeps{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
	}

	if entries := cfg.APIKeyEntries(); len(entries) > 0 {
		keys := middleware.NewStaticKeys(entries)
		log.WithField("clients", keys.Len()).Info("API key authentication enabled")
		deps.Keys = keys
	} else {
		log.Warn("API_KEYS not set, authentication disabled")
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)
	deps.Hub = hub

	refs, runs, recorder, cleanup, err := setupPersistence(ctx, cfg, log, deps)
	if err != nil {
		return err
	}
	defer cleanup()

	sparql := lookup.NewSPARQL(lookup.Options{
		Endpoint:   cfg.SPARQLEndpoint,
		Kind:       cfg.DocumentKind,
		Timeout:    cfg.LookupTimeout,
		RatePerSec: cfg.LookupRate,
		Retries:    cfg.LookupRetries,
		Log:        log,
	})
	deps.Circuit = sparql

	agg := expand.NewAggregator(sparql, cfg.DocumentKind, cfg.ExpandWorkers, log)

	if recorder != nil {
		recorder.WithEvents(hub)
	}

	deps.Citations = service.NewCitationService(sparql, agg, refs, recorder, service.CitationOptions{
		MaxDepth:     cfg.MaxDepth,
		SweepWorkers: cfg.SweepWorkers,
		Events:       hub,
	}, log)
	deps.References = service.NewReferenceService(refs, log)
	deps.Runs = service.NewRunService(runs, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":        cfg.Addr(),
			"version":     config.Version,
			"endpoint":    cfg.SPARQLEndpoint,
			"kind":        cfg.DocumentKind.String(),
			"persistence": cfg.PersistenceEnabled(),
		}).Info("citegraph listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()

	return srv.Shutdown(shutdownCtx)
}

// setupPersistence wires the database when DATABASE_URL is set. Without one,
// reference sets live in memory (seeded from REFERENCE_FILE) and runs are
// not stored.
func setupPersistence(
	ctx context.Context,
	cfg *config.Config,
	log *logrus.Logger,
	deps *api.RouterDeps,
) (service.ReferenceRepository, service.RunRepository, *service.RunRecorder, func(), error) {
	seed := service.NewMemoryReferences()
	if cfg.ReferenceFile != "" {
		loaded, err := service.LoadReferenceFile(cfg.ReferenceFile)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		seed = loaded
	}

	if !cfg.PersistenceEnabled() {
		log.Info("DATABASE_URL not set, run persistence disabled")
		return seed, nil, nil, func() {}, nil
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), dbpool.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if err := db.RunMigrations(ctx, pool, log, nil); err != nil {
		pool.Close()
		return nil, nil, nil, nil, err
	}

	deps.DB = pool

	base := store.Base{Pool: pool, Log: log}
	refs := store.NewReferenceStore(base)
	runs := store.NewRunStore(base)

	if cfg.ReferenceFile != "" {
		if err := copyReferenceSets(ctx, seed, refs); err != nil {
			pool.Close()
			return nil, nil, nil, nil, err
		}
	}

	recorder := service.NewRunRecorder(runs, log, runQueueSize)

	recCtx, recCancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		recorder.Run(recCtx)
		close(done)
	}()

	cleanup := func() {
		recCancel()
		<-done
		pool.Close()
	}

	return refs, runs, recorder, cleanup, nil
}

// copyReferenceSets upserts every set of src into dst.
func copyReferenceSets(ctx context.Context, src, dst service.ReferenceRepository) error {
	infos, err := src.ListReferenceSets(ctx, 0)
	if err != nil {
		return err
	}

	for _, info := range infos {
		docs, err := src.GetReferenceSet(ctx, info.Name)
		if err != nil {
			return err
		}

		if err := dst.PutReferenceSet(ctx, info.Name, docs); err != nil {
			return err
		}
	}

	return nil
}
