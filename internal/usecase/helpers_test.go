package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/siddqamar/GMO-FactLens/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noopProgress satisfies ports.Progress for tests that do not assert on
// progress output.
type noopProgress struct{}

func (noopProgress) Step(string, int, int, string) {}
func (noopProgress) Note(string)                   {}

// recordingProgress captures notes for assertions.
type recordingProgress struct {
	notes []string
}

func (r *recordingProgress) Step(string, int, int, string) {}
func (r *recordingProgress) Note(message string)           { r.notes = append(r.notes, message) }

// scriptedGenerator replays canned replies (or an error) per call.
type scriptedGenerator struct {
	replies []string
	err     error
	calls   int
}

func (g *scriptedGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	i := g.calls - 1
	if i >= len(g.replies) {
		i = len(g.replies) - 1
	}
	return g.replies[i], nil
}

// scriptedChecker maps claims to verdicts, with an optional error.
type scriptedChecker struct {
	verdicts map[string]domain.ClaimVerdict
	err      error
}

func (c *scriptedChecker) CheckClaim(_ context.Context, claim string) (domain.ClaimVerdict, error) {
	if c.err != nil {
		return domain.ClaimVerdict{}, c.err
	}
	if v, ok := c.verdicts[claim]; ok {
		return v, nil
	}
	return domain.ClaimVerdict{Claim: claim, Status: domain.StatusUnsure}, nil
}
