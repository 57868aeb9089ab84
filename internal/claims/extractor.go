// Package claims splits summary text into discrete fact-checkable claims.
package claims

import (
	"regexp"
	"strings"
)

const (
	// minClaimLength drops fragments too short to check meaningfully.
	minClaimLength = 20
	// maxClaims keeps per-article provider calls bounded.
	maxClaims = 5
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Extract splits summary text on sentence-terminal punctuation, trims each
// fragment, and drops the ones at or under 20 characters. When nothing
// qualifies the whole summary becomes the single claim. At most 5 claims
// are returned, in original order.
func Extract(summary string) []string {
	var claims []string
	for _, fragment := range sentenceEnd.Split(summary, -1) {
		fragment = strings.TrimSpace(fragment)
		if len(fragment) > minClaimLength {
			claims = append(claims, fragment)
		}
	}

	if len(claims) == 0 {
		return []string{summary}
	}
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}
	return claims
}
