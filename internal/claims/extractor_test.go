package claims

import (
	"strings"
	"testing"
)

func TestExtractSplitsOnTerminalPunctuation(t *testing.T) {
	t.Parallel()

	summary := "Genetically modified corn increases yields by ten percent. " +
		"Critics argue the studies were funded by industry groups! " +
		"Is regulation keeping pace with the technology?"

	got := Extract(summary)
	if len(got) != 3 {
		t.Fatalf("expected 3 claims, got %d: %v", len(got), got)
	}
	if got[0] != "Genetically modified corn increases yields by ten percent" {
		t.Fatalf("unexpected first claim: %q", got[0])
	}
	for _, claim := range got {
		if strings.ContainsAny(claim, ".!?") {
			t.Fatalf("claim still carries terminal punctuation: %q", claim)
		}
	}
}

func TestExtractDropsShortFragments(t *testing.T) {
	t.Parallel()

	got := Extract("Too short. This sentence is comfortably long enough to keep.")
	if len(got) != 1 {
		t.Fatalf("expected 1 claim, got %d: %v", len(got), got)
	}
	if got[0] != "This sentence is comfortably long enough to keep" {
		t.Fatalf("unexpected claim: %q", got[0])
	}
}

func TestExtractFallsBackToWholeSummary(t *testing.T) {
	t.Parallel()

	summary := "Short. Tiny. No."
	got := Extract(summary)
	if len(got) != 1 || got[0] != summary {
		t.Fatalf("expected [%q], got %v", summary, got)
	}
}

func TestExtractCapsAtFiveClaims(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("This is a qualifying sentence with enough characters. ")
	}

	got := Extract(b.String())
	if len(got) != 5 {
		t.Fatalf("expected cap of 5 claims, got %d", len(got))
	}

	// Capping is idempotent: re-extracting the joined claims stays at 5.
	again := Extract(strings.Join(got, ". ") + ".")
	if len(again) != 5 {
		t.Fatalf("expected 5 claims after re-extraction, got %d", len(again))
	}
}
