// Package relevance decides whether a story is Government-of-India coverage
// and how strongly, using per-language keyword sets, a ministry list, and a
// scheme gazetteer with multilingual aliases.
package relevance

import (
	"context"
	"strings"

	"github.com/newsscope/newswatch/internal/cache"
	"github.com/newsscope/newswatch/internal/models"
)

const (
	perKeywordWeight = 0.10
	keywordScoreCap  = 0.50
	ministryWeight   = 0.20
	schemeFloorScore = 0.80

	// goiScoreThreshold is the keyword-only bar for is_goi when neither a
	// scheme nor a ministry is present.
	goiScoreThreshold = 0.30
)

// Result is the relevance verdict for one story.
type Result struct {
	IsGOI        bool            `json:"is_goi"`
	Score        float64         `json:"score"`
	Ministries   []string        `json:"ministries"`
	Schemes      []string        `json:"schemes"`
	Entities     []models.Entity `json:"goi_entities"`
	MatchedTerms []string        `json:"matched_terms"`
}

// Classifier scans text against the static dictionaries. Scheme detection is
// cached because the gazetteer scan is the widest.
type Classifier struct {
	cache *cache.Cache
}

// New builds a relevance classifier. A nil cache disables caching only.
func New(c *cache.Cache) *Classifier {
	return &Classifier{cache: c}
}

// Analyze scores the combined text of one story. lang selects the keyword
// set; the English set is always scanned too, since enrichment runs on
// translated text.
func (cl *Classifier) Analyze(ctx context.Context, title, summary, content, lang string) Result {
	text := strings.ToLower(title + " " + summary + " " + content)

	res := Result{
		Ministries:   []string{},
		Schemes:      cl.DetectSchemes(ctx, text),
		Entities:     extractEntities(text),
		MatchedTerms: []string{},
	}

	for _, kw := range keywordsFor(lang) {
		if strings.Contains(text, kw) {
			res.MatchedTerms = append(res.MatchedTerms, kw)
		}
	}
	for _, m := range ministries {
		if strings.Contains(text, m) {
			res.Ministries = append(res.Ministries, m)
		}
	}

	score := perKeywordWeight * float64(len(res.MatchedTerms))
	if score > keywordScoreCap {
		score = keywordScoreCap
	}
	if len(res.Ministries) > 0 {
		score += ministryWeight
	}

	res.IsGOI = score >= goiScoreThreshold || len(res.Ministries) > 0
	if len(res.Schemes) > 0 {
		res.IsGOI = true
		if score < schemeFloorScore {
			score = schemeFloorScore
		}
	}
	if score > 1 {
		score = 1
	}
	res.Score = score
	return res
}

// DetectSchemes returns canonical scheme names whose aliases occur in text.
// Results are cached for a week; the gazetteer is static within a deploy.
func (cl *Classifier) DetectSchemes(ctx context.Context, text string) []string {
	text = strings.ToLower(text)

	var cached []string
	if cl.cache.GetJSON(ctx, cache.PrefixSchemes, text, &cached) {
		return cached
	}

	found := []string{}
	for _, s := range schemes {
		for _, alias := range s.aliases {
			if strings.Contains(text, alias) {
				found = append(found, s.name)
				break
			}
		}
	}

	cl.cache.SetJSON(ctx, cache.PrefixSchemes, text, found)
	return found
}

// keywordsFor returns the language's keyword set merged with English.
func keywordsFor(lang string) []string {
	en := goiKeywords["en"]
	if lang == "" || lang == "en" {
		return en
	}
	extra, ok := goiKeywords[lang]
	if !ok {
		return en
	}
	merged := make([]string, 0, len(en)+len(extra))
	merged = append(merged, en...)
	merged = append(merged, extra...)
	return merged
}

// extractEntities matches the static gazetteer. Offsets point at the first
// alias occurrence in the lowercased text.
func extractEntities(text string) []models.Entity {
	out := []models.Entity{}
	for _, e := range entityGazetteer {
		for _, alias := range e.aliases {
			idx := strings.Index(text, alias)
			if idx < 0 {
				continue
			}
			out = append(out, models.Entity{
				Text:       e.text,
				Label:      e.typ,
				Type:       e.typ,
				Start:      idx,
				End:        idx + len(alias),
				Confidence: 1.0,
			})
			break
		}
	}
	return out
}
