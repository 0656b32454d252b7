package nlp

import (
	"fmt"
	"strings"
)

// positiveKeywords mark good-news government coverage. Transliterated Hindi
// terms are included because translated text often keeps them as-is.
var positiveKeywords = []string{
	"launch", "launched", "inaugurate", "inaugurated", "approve", "approved",
	"benefit", "benefits", "success", "successful", "achievement", "achieve",
	"growth", "improve", "improved", "improvement", "progress", "develop",
	"development", "expand", "expansion", "boost", "welfare", "empower",
	"empowerment", "milestone", "record high", "award", "subsidy", "relief",
	"scholarship", "free treatment", "new scheme", "completed", "commissioned",
	"vikas", "pragati", "labh", "safalta", "unnati", "kalyan",
	"ayushman", "ujjwala", "swachh", "jal jeevan",
}

// negativeKeywords mark grievance and failure coverage.
var negativeKeywords = []string{
	"corruption", "scam", "fraud", "bribe", "bribery", "embezzlement",
	"delay", "delayed", "pending", "failure", "failed", "fail", "shortage",
	"crisis", "protest", "strike", "complaint", "grievance", "irregularity",
	"irregularities", "misuse", "negligence", "collapse", "denied", "denial",
	"scrapped", "stalled", "lapse", "leakage", "arrears", "unpaid",
	"bhrashtachar", "ghotala", "samasya", "gadbadi", "dhandli", "shikayat",
	"vilamb", "atka",
}

// neutralKeywords dilute an adjustment: procedural coverage full of them is
// usually neither praise nor grievance.
var neutralKeywords = []string{
	"announce", "announced", "announcement", "meeting", "review", "reviewed",
	"discussion", "discussed", "proposal", "proposed", "plan", "planned",
	"statement", "said", "stated", "committee", "report", "survey",
	"tender", "notification", "circular", "guidelines", "baithak", "ghoshna",
	"yojana", "pariyojana",
}

// strongPositivePhrases get double weight: they settle the story's tone by
// themselves.
var strongPositivePhrases = []string{
	"successfully completed", "record enrollment", "record enrolment",
	"historic achievement", "major milestone", "crores of beneficiaries",
	"lakhs of beneficiaries", "ahead of schedule", "100% coverage",
	"fully electrified", "open defecation free",
}

// strongNegativePhrases get double weight on the negative side.
var strongNegativePhrases = []string{
	"major scam", "massive corruption", "crores embezzled", "funds siphoned",
	"scheme failed", "complete failure", "total failure", "months of delay",
	"years of delay", "no funds released", "workers unpaid", "cbi probe",
	"ed raid", "vigilance inquiry",
}

// Adjuster nudges model sentiment with domain keyword evidence. The model
// score is treated as a positivity value in [0, 1].
type Adjuster struct {
	enabled bool
	boost   float64
}

// NewAdjuster builds an adjuster with the configured per-keyword boost.
func NewAdjuster(enabled bool, boost float64) *Adjuster {
	if boost <= 0 {
		boost = 0.15
	}
	return &Adjuster{enabled: enabled, boost: boost}
}

// Adjust applies keyword evidence to a normalized sentiment and returns the
// final result, keeping the pre-adjustment values for auditability.
func (a *Adjuster) Adjust(text, label string, score float64) Sentiment {
	out := Sentiment{
		Label:         label,
		Score:         score,
		OriginalLabel: label,
		OriginalScore: score,
	}
	if !a.enabled {
		out.Polarity = Polarity(out.Label, out.Score)
		return out
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		out.AdjustmentReason = "no_text"
		out.Polarity = Polarity(out.Label, out.Score)
		return out
	}

	pos := countHits(lower, positiveKeywords)
	neg := countHits(lower, negativeKeywords)
	neutral := countHits(lower, neutralKeywords)
	strongPos := countHits(lower, strongPositivePhrases)
	strongNeg := countHits(lower, strongNegativePhrases)

	if pos == 0 && neg == 0 && neutral == 0 && strongPos == 0 && strongNeg == 0 {
		out.AdjustmentReason = "no_keywords_found"
		out.Polarity = Polarity(out.Label, out.Score)
		return out
	}

	strongBoost := 2 * a.boost
	adjustment := strongBoost*float64(strongPos) - strongBoost*float64(strongNeg)

	total := pos + neg + neutral
	if total > 0 {
		if pos > neg {
			adjustment += a.boost * float64(pos-neg) / float64(total)
		} else if neg > pos {
			adjustment -= a.boost * float64(neg-pos) / float64(total)
		}
		if neutral > 0 {
			// Neutral-heavy text dilutes the push, up to half.
			adjustment *= 1 - (float64(neutral)/float64(total))*0.5
		}
	}

	adjusted := clamp01(score + adjustment)

	out.Score = adjusted
	switch {
	case adjusted >= 0.6:
		out.Label = LabelPositive
	case adjusted <= 0.4:
		out.Label = LabelNegative
	default:
		out.Label = LabelNeutral
	}
	out.AdjustmentReason = adjustmentReason(strongPos, strongNeg, pos, neg, neutral)
	out.Polarity = Polarity(out.Label, out.Score)
	return out
}

// adjustmentReason renders the keyword evidence in a compact audit string.
func adjustmentReason(strongPos, strongNeg, pos, neg, neutral int) string {
	var parts []string
	if strongPos > 0 {
		parts = append(parts, fmt.Sprintf("+%d_strong_positive", strongPos))
	}
	if strongNeg > 0 {
		parts = append(parts, fmt.Sprintf("-%d_strong_negative", strongNeg))
	}
	if pos > 0 {
		parts = append(parts, fmt.Sprintf("+%d_positive_keywords", pos))
	}
	if neg > 0 {
		parts = append(parts, fmt.Sprintf("-%d_negative_keywords", neg))
	}
	if neutral > 0 {
		parts = append(parts, fmt.Sprintf("~%d_neutral_keywords", neutral))
	}
	if len(parts) == 0 {
		return "no_adjustment"
	}
	return strings.Join(parts, " | ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
