// Package factcheck queries the Google Fact Check Tools claim search API.
package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siddqamar/GMO-FactLens/internal/config"
	"github.com/siddqamar/GMO-FactLens/internal/domain"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

const lookupTimeout = 10 * time.Second

// Client implements ports.ClaimChecker against the claims:search endpoint.
type Client struct {
	endpoint     string
	apiKey       string
	languageCode string
	http         *http.Client
}

var _ ports.ClaimChecker = (*Client)(nil)

// NewClient builds a reusable fact-check client from configuration.
func NewClient(cfg config.FactCheckConfig) *Client {
	lang := cfg.LanguageCode
	if lang == "" {
		lang = "en"
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		languageCode: lang,
		http:         &http.Client{Timeout: lookupTimeout},
	}
}

// Enabled reports whether the API credential is present.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type searchResponse struct {
	Claims []struct {
		ClaimReview []struct {
			TextualRating string `json:"textualRating"`
			URL           string `json:"url"`
			ReviewDate    string `json:"reviewDate"`
			Publisher     struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// CheckClaim looks the claim up and maps the first review to a verdict.
// A well-formed empty response is not an error: it maps to Unsure with the
// documented "No fact-check found" rating. Transport and decoding errors
// are returned so the stage can substitute its own fallback verdict.
func (c *Client) CheckClaim(ctx context.Context, claim string) (domain.ClaimVerdict, error) {
	query := url.Values{}
	query.Set("query", claim)
	query.Set("key", c.apiKey)
	query.Set("languageCode", c.languageCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return domain.ClaimVerdict{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ClaimVerdict{}, fmt.Errorf("claim lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ClaimVerdict{}, fmt.Errorf("fact check api returned %s", resp.Status)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.ClaimVerdict{}, fmt.Errorf("decode response: %w", err)
	}

	for _, found := range decoded.Claims {
		if len(found.ClaimReview) == 0 {
			continue
		}
		review := found.ClaimReview[0]
		return domain.ClaimVerdict{
			Claim:         claim,
			Status:        statusFromRating(review.TextualRating),
			Rating:        ratingOrUnknown(review.TextualRating),
			Publisher:     publisherOrNone(review.Publisher.Name),
			PublisherSite: review.Publisher.Site,
			ReviewURL:     review.URL,
			ReviewDate:    review.ReviewDate,
			Confidence:    "high",
		}, nil
	}

	return NoFindingVerdict(claim), nil
}

// NoFindingVerdict is the neutral outcome for a claim nobody has reviewed.
func NoFindingVerdict(claim string) domain.ClaimVerdict {
	return domain.ClaimVerdict{
		Claim:      claim,
		Status:     domain.StatusUnsure,
		Rating:     "No fact-check found",
		Publisher:  "None",
		Confidence: "low",
	}
}

// ErrorVerdict is the non-fatal outcome for a claim whose lookup failed.
func ErrorVerdict(claim string) domain.ClaimVerdict {
	return domain.ClaimVerdict{
		Claim:      claim,
		Status:     domain.StatusUnsure,
		Rating:     "Error occurred",
		Publisher:  "None",
		Confidence: "low",
	}
}

// statusFromRating maps a review's textual rating: only "true" and "fact"
// (case-insensitive) count as Fact, everything else is Myth.
func statusFromRating(rating string) domain.FactStatus {
	switch strings.ToLower(strings.TrimSpace(rating)) {
	case "true", "fact":
		return domain.StatusFact
	default:
		return domain.StatusMyth
	}
}

func ratingOrUnknown(rating string) string {
	if rating == "" {
		return "Unknown"
	}
	return rating
}

func publisherOrNone(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
