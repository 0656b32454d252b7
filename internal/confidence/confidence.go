// Package confidence produces the deterministic quality score that routes an
// article to auto-approval, manual verification, or auto-rejection.
package confidence

import (
	"time"
)

// Confidence levels.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

const (
	highThreshold   = 0.80
	mediumThreshold = 0.50
	staleAge        = 30 * 24 * time.Hour
	maxTitleLength  = 200
)

// Input carries the per-article signals the scorer reads. All fields come
// from earlier pipeline stages.
type Input struct {
	KeywordCount         int
	SchemeCount          int
	MinistryCount        int
	TrustedSource        bool
	IsGOI                bool
	ClassifierConfidence float64
	Category             string
	SentimentScore       float64
	TitleLength          int
	DetectedLanguage     string
	PublishedAt          time.Time

	HasExclusionKeywords     bool
	HasEntertainmentMarkers  bool
	HasTributeMarkers        bool
	HasInternationalKeywords bool
}

// Result is the scoring outcome.
type Result struct {
	Score             float64  `json:"score"`
	Level             string   `json:"level"`
	AutoApproved      bool     `json:"auto_approved"`
	AutoRejected      bool     `json:"auto_rejected"`
	NeedsVerification bool     `json:"needs_verification"`
	Anomalies         []string `json:"anomalies"`
}

// Default is the result used when scoring itself fails. It routes the item
// to manual verification rather than guessing.
func Default() Result {
	return Result{
		Score:             0.5,
		Level:             LevelMedium,
		NeedsVerification: true,
		Anomalies:         []string{"confidence_calculation_error"},
	}
}

// Score runs the additive model and anomaly checks. now anchors the age
// penalty so tests stay deterministic.
func Score(in Input, now time.Time) Result {
	score := 0.0

	// Keyword density, three bands.
	switch {
	case in.KeywordCount >= 5:
		score += 0.25
	case in.KeywordCount >= 3:
		score += 0.20
	case in.KeywordCount >= 1:
		score += 0.10
	}

	// Scheme detection, three bands.
	switch {
	case in.SchemeCount >= 3:
		score += 0.30
	case in.SchemeCount == 2:
		score += 0.25
	case in.SchemeCount == 1:
		score += 0.20
	}

	if in.TrustedSource {
		score += 0.20
	}
	if in.MinistryCount > 0 {
		score += 0.15
	}

	switch {
	case in.ClassifierConfidence >= 0.8:
		score += 0.10
	case in.ClassifierConfidence >= 0.5:
		score += 0.05
	}

	if in.IsGOI {
		score += 0.10
	}

	// Penalties.
	if in.HasExclusionKeywords {
		score -= 0.60
	}
	if in.HasEntertainmentMarkers {
		score -= 0.40
	}
	if in.HasTributeMarkers {
		score -= 0.30
	}
	if in.KeywordCount == 0 {
		score -= 0.20
	}
	if !in.PublishedAt.IsZero() && now.Sub(in.PublishedAt) > staleAge {
		score -= 0.10
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	res := Result{Score: score, Anomalies: detectAnomalies(in)}
	switch {
	case score >= highThreshold:
		res.Level = LevelHigh
		res.AutoApproved = true
	case score >= mediumThreshold:
		res.Level = LevelMedium
		res.NeedsVerification = true
	default:
		res.Level = LevelLow
		res.AutoRejected = true
	}

	// Any anomaly forces verification and revokes auto-approval. Rejection
	// stands: a low-scoring anomalous item is still rejected.
	if len(res.Anomalies) > 0 {
		res.NeedsVerification = true
		res.AutoApproved = false
	}

	return res
}

// detectAnomalies flags contradictory signal combinations that the additive
// score alone would miss.
func detectAnomalies(in Input) []string {
	anomalies := []string{}

	if in.KeywordCount > 0 && in.HasEntertainmentMarkers {
		anomalies = append(anomalies, "government_keywords_with_entertainment")
	}
	if in.TrustedSource && in.HasEntertainmentMarkers {
		anomalies = append(anomalies, "trusted_source_entertainment_content")
	}
	if in.SentimentScore > 0.95 {
		anomalies = append(anomalies, "extreme_sentiment_score")
	}
	if in.SchemeCount > 0 && in.Category != "Government" {
		anomalies = append(anomalies, "scheme_outside_government_category")
	}
	if in.TitleLength > maxTitleLength {
		anomalies = append(anomalies, "title_unusually_long")
	}
	if in.DetectedLanguage == "" || in.DetectedLanguage == "unknown" {
		anomalies = append(anomalies, "missing_detected_language")
	}
	if in.KeywordCount > 0 && in.HasInternationalKeywords {
		anomalies = append(anomalies, "goi_keywords_with_international")
	}

	return anomalies
}
