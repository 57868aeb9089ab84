package domain

import "time"

// FactStatus is the verdict for a claim or, aggregated, for an article.
type FactStatus string

const (
	StatusFact   FactStatus = "Fact"
	StatusMyth   FactStatus = "Myth"
	StatusUnsure FactStatus = "Unsure"
)

// Categories is the fixed classification set; the analyzer defaults to
// CategoryOther for anything it cannot place.
var Categories = []string{
	"Health",
	"Environmental",
	"Social economics",
	"Conspiracy theory",
	"Corporate control",
	"Ethical/religious issues",
	"Seed ownership",
	"Scientific authority",
	"Other",
}

// CategoryOther is the classification fallback.
const CategoryOther = "Other"

// FailedSummary marks an article whose summarization stage fell back.
const FailedSummary = "Summarization failed - unable to process content"

// ScrapedArticle is the output of the scrape stage: cleaned, length-capped
// page text keyed by URL.
type ScrapedArticle struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SummarizedArticle adds the LLM summary (or the failure sentinel).
type SummarizedArticle struct {
	ScrapedArticle
	Summary string `json:"summary"`
}

// ClaimVerdict is the immutable fact-check outcome for a single claim.
type ClaimVerdict struct {
	Claim         string     `json:"claim"`
	Status        FactStatus `json:"status"`
	Rating        string     `json:"rating"`
	Publisher     string     `json:"publisher"`
	PublisherSite string     `json:"publisher_site"`
	ReviewURL     string     `json:"review_url"`
	ReviewDate    string     `json:"review_date"`
	Confidence    string     `json:"confidence"`
}

// FactCheckedArticle carries per-claim verdicts and the plurality-vote
// overall status.
type FactCheckedArticle struct {
	SummarizedArticle
	Claims           []string       `json:"claims"`
	FactCheckResults []ClaimVerdict `json:"fact_check_results"`
	OverallStatus    FactStatus     `json:"overall_fact_status"`
}

// AnalyzedArticle is the terminal record: classification and analysis
// fields on top of everything upstream.
type AnalyzedArticle struct {
	FactCheckedArticle
	Classification   string   `json:"classification"`
	Confidence       string   `json:"confidence"`
	KeyThemes        []string `json:"key_themes"`
	AnalysisNotes    string   `json:"analysis_notes"`
	Sentiment        string   `json:"sentiment"`
	CredibilityScore float64  `json:"credibility_score"`
}

// Session summarizes one pipeline run for the history log.
type Session struct {
	ID            int64     `json:"id" db:"id"`
	Topic         string    `json:"topic" db:"topic"`
	ArticlesFound int       `json:"articles_found" db:"articles_found"`
	FactsCount    int       `json:"facts_count" db:"facts_count"`
	MythsCount    int       `json:"myths_count" db:"myths_count"`
	UnclearCount  int       `json:"unclear_count" db:"unclear_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// NewSession tallies per-status counts for a finished run.
func NewSession(topic string, articles []AnalyzedArticle) Session {
	s := Session{Topic: topic, ArticlesFound: len(articles), CreatedAt: time.Now()}
	for _, a := range articles {
		switch a.OverallStatus {
		case StatusFact:
			s.FactsCount++
		case StatusMyth:
			s.MythsCount++
		default:
			s.UnclearCount++
		}
	}
	return s
}

// StoredArticle is the persisted projection of an analyzed article.
type StoredArticle struct {
	URL            string    `json:"url" db:"url"`
	Title          string    `json:"title" db:"title"`
	Summary        string    `json:"summary" db:"summary"`
	Classification string    `json:"classification" db:"classification"`
	FactStatus     string    `json:"fact_status" db:"fact_status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// StoreStats aggregates persisted counts for the dashboard sidebar.
type StoreStats struct {
	TotalArticles       int            `json:"total_articles"`
	TotalSessions       int            `json:"total_sessions"`
	ClassificationStats map[string]int `json:"classification_stats"`
	StatusStats         map[string]int `json:"status_stats"`
}

// RunRecord is the in-memory history entry kept per pipeline run.
type RunRecord struct {
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Articles  int       `json:"articles_count"`
	SessionID int64     `json:"session_id"`
}
