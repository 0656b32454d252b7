// Package nlp enriches articles with sentiment through batched model
// inference, a rule-based adjustment layer, and a keyword fallback that keeps
// the pipeline alive when every model backend is down.
package nlp

import (
	"strings"
)

// Sentiment labels.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Score is one raw model prediction.
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Sentiment is the final enrichment result for one text.
type Sentiment struct {
	Label            string  `json:"label"`
	Score            float64 `json:"score"`
	Polarity         float64 `json:"polarity"`
	OriginalLabel    string  `json:"original_label,omitempty"`
	OriginalScore    float64 `json:"original_score,omitempty"`
	AdjustmentReason string  `json:"adjustment_reason,omitempty"`
}

// labelMap folds the label vocabularies of the different model families into
// the canonical three labels. Star ratings map 1-2 to negative, 3 to neutral,
// 4-5 to positive.
var labelMap = map[string]string{
	"label_0": LabelNegative,
	"label_1": LabelNeutral,
	"label_2": LabelPositive,
	"1 star":  LabelNegative,
	"2 stars": LabelNegative,
	"3 stars": LabelNeutral,
	"4 stars": LabelPositive,
	"5 stars": LabelPositive,
	"pos":     LabelPositive,
	"neg":     LabelNegative,
	"neu":     LabelNeutral,
}

// Normalize maps any model output to a canonical (label, score) pair and
// applies the confidence thresholds: a confident prediction (score >= 0.6)
// keeps its label, a very unconfident one (score <= 0.4) flips polarity, and
// the middle band collapses to neutral.
func Normalize(label string, score float64) (string, float64) {
	lower := strings.ToLower(strings.TrimSpace(label))
	if mapped, ok := labelMap[lower]; ok {
		lower = mapped
	}

	switch {
	case score >= 0.6:
		// Confident: trust the label.
	case score <= 0.4:
		if lower == LabelPositive {
			lower = LabelNegative
		} else if lower == LabelNegative {
			lower = LabelPositive
		}
	default:
		lower = LabelNeutral
	}

	if lower != LabelPositive && lower != LabelNegative && lower != LabelNeutral {
		lower = LabelNeutral
	}
	return lower, score
}

// Polarity maps a (label, score) pair onto [-1, +1]: positive carries the
// score, negative its negation, neutral zero.
func Polarity(label string, score float64) float64 {
	switch label {
	case LabelPositive:
		return score
	case LabelNegative:
		return -score
	default:
		return 0
	}
}
