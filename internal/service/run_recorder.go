package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
	"github.com/persistorai/citegraph/internal/ws"
)

const (
	defaultRecorderQueue = 100
	saveTimeout          = 30 * time.Second
)

// RunRecorder buffers finished runs and writes them via a single worker
// goroutine so expansion responses do not wait on the database.
type RunRecorder struct {
	runs   RunRepository
	log    *logrus.Logger
	jobs   chan *models.Run
	events EventPublisher
}

// NewRunRecorder creates a RunRecorder with the given queue capacity.
func NewRunRecorder(runs RunRepository, log *logrus.Logger, queueSize int) *RunRecorder {
	if queueSize <= 0 {
		queueSize = defaultRecorderQueue
	}

	return &RunRecorder{
		runs:   runs,
		log:    log,
		jobs:   make(chan *models.Run, queueSize),
		events: nopPublisher{},
	}
}

// WithEvents publishes run.saved and run.failed events to p.
func (r *RunRecorder) WithEvents(p EventPublisher) *RunRecorder {
	if p != nil {
		r.events = p
	}
	return r
}

// Enqueue adds a run. Non-blocking; returns false if the queue is full.
func (r *RunRecorder) Enqueue(run *models.Run) bool {
	select {
	case r.jobs <- run:
		return true
	default:
		r.log.WithField("run_id", run.ID).Warn("run queue full, dropping run")
		return false
	}
}

// Run saves queued runs until the context is cancelled, then drains the queue.
func (r *RunRecorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return
		case run := <-r.jobs:
			r.process(run)
		}
	}
}

func (r *RunRecorder) drain() {
	for {
		select {
		case run := <-r.jobs:
			r.process(run)
		default:
			return
		}
	}
}

func (r *RunRecorder) process(run *models.Run) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := r.runs.SaveRun(ctx, run); err != nil {
		r.log.WithError(err).WithField("run_id", run.ID).Warn("saving run failed")
		r.events.Publish(ws.EventRunFailed, runEvent{RunID: run.ID})
		return
	}

	r.log.WithField("run_id", run.ID).Debug("run.saved")
	r.events.Publish(ws.EventRunSaved, runEvent{RunID: run.ID})
}
