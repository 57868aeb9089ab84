package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

// Watcher re-runs the pipeline for a fixed set of standing topics on a
// schedule.
type Watcher struct {
	pipeline   *Pipeline
	scheduler  ports.Scheduler
	topics     []string
	maxResults int
	progress   ports.Progress
	log        *slog.Logger
}

// NewWatcher wires the recurring-scan job.
func NewWatcher(pipeline *Pipeline, scheduler ports.Scheduler, topics []string, maxResults int, progress ports.Progress, log *slog.Logger) *Watcher {
	return &Watcher{
		pipeline:   pipeline,
		scheduler:  scheduler,
		topics:     topics,
		maxResults: maxResults,
		progress:   progress,
		log:        log.With("component", "watcher"),
	}
}

// Start arms the scheduler. With no topics configured it is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	if len(w.topics) == 0 {
		return nil
	}
	return w.scheduler.Start(ctx, func() { w.scan(ctx) })
}

// Stop disarms the scheduler.
func (w *Watcher) Stop(ctx context.Context) error {
	return w.scheduler.Stop(ctx)
}

func (w *Watcher) scan(ctx context.Context) {
	for _, topic := range w.topics {
		_, err := w.pipeline.TryRun(ctx, topic, w.maxResults, w.progress)
		if errors.Is(err, ErrRunInProgress) {
			w.log.Info("skipping scheduled scan, pipeline busy", "topic", topic)
			continue
		}
		if err != nil {
			w.log.Error("scheduled scan failed", "topic", topic, "error", err)
		}
	}
}
