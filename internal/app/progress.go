package app

import (
	"log/slog"

	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

// progressFanout forwards every event to all targets.
type progressFanout struct {
	targets []ports.Progress
}

var _ ports.Progress = (*progressFanout)(nil)

func newProgressFanout(targets ...ports.Progress) *progressFanout {
	return &progressFanout{targets: targets}
}

func (p *progressFanout) Step(stage string, current, total int, detail string) {
	for _, t := range p.targets {
		t.Step(stage, current, total, detail)
	}
}

func (p *progressFanout) Note(message string) {
	for _, t := range p.targets {
		t.Note(message)
	}
}

// logProgress mirrors pipeline progress into the structured log, which
// is the only surface scheduled runs have.
type logProgress struct {
	log *slog.Logger
}

var _ ports.Progress = (*logProgress)(nil)

func newLogProgress(log *slog.Logger) *logProgress {
	return &logProgress{log: log.With("component", "progress")}
}

func (p *logProgress) Step(stage string, current, total int, detail string) {
	p.log.Info("stage progress", "stage", stage, "current", current, "total", total, "detail", detail)
}

func (p *logProgress) Note(message string) {
	p.log.Info(message)
}
