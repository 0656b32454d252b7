package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const classifierTimeout = 60 * time.Second

// Classifier scores a batch of texts. Implementations must return exactly one
// Score per input text, in order.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, texts []string) ([]Score, error)
}

// httpClassifier calls a sentiment model served over HTTP with a batched
// JSON contract.
type httpClassifier struct {
	name       string
	baseURL    string
	maxLength  int
	httpClient *http.Client
}

func newHTTPClassifier(name, baseURL string, maxLength int) *httpClassifier {
	if maxLength <= 0 {
		maxLength = 512
	}
	return &httpClassifier{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxLength:  maxLength,
		httpClient: &http.Client{Timeout: classifierTimeout},
	}
}

func (c *httpClassifier) Name() string { return c.name }

type classifyRequest struct {
	Texts     []string `json:"texts"`
	MaxLength int      `json:"max_length"`
}

type classifyResponse struct {
	Results []Score `json:"results"`
}

func (c *httpClassifier) Classify(ctx context.Context, texts []string) ([]Score, error) {
	trimmed := make([]string, len(texts))
	for i, t := range texts {
		r := []rune(t)
		if len(r) > c.maxLength {
			r = r[:c.maxLength]
		}
		trimmed[i] = string(r)
	}

	body, err := json.Marshal(classifyRequest{Texts: trimmed, MaxLength: c.maxLength})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", c.name, resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	if len(out.Results) != len(texts) {
		return nil, fmt.Errorf("%s: got %d results for %d texts", c.name, len(out.Results), len(texts))
	}
	return out.Results, nil
}

// ruleClassifier is the last-resort backend: it counts sentiment keywords so
// the pipeline still produces a triplet when every model is unreachable.
type ruleClassifier struct{}

func (ruleClassifier) Name() string { return "rule" }

func (ruleClassifier) Classify(ctx context.Context, texts []string) ([]Score, error) {
	out := make([]Score, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		pos := countHits(lower, positiveKeywords)
		neg := countHits(lower, negativeKeywords)

		switch {
		case pos > neg:
			out[i] = Score{Label: LabelPositive, Score: keywordConfidence(pos - neg)}
		case neg > pos:
			out[i] = Score{Label: LabelNegative, Score: keywordConfidence(neg - pos)}
		default:
			out[i] = Score{Label: LabelNeutral, Score: 0.5}
		}
	}
	return out, nil
}

// keywordConfidence grows with the net keyword margin but stays below what a
// real model would report, so downstream scoring weighs it accordingly.
func keywordConfidence(net int) float64 {
	conf := 0.55 + 0.05*float64(net)
	if conf > 0.75 {
		conf = 0.75
	}
	return conf
}

// indicLanguages are routed to the Indic model when it is configured.
var indicLanguages = map[string]bool{
	"hi": true, "mr": true, "bn": true, "pa": true, "gu": true, "or": true,
	"ta": true, "te": true, "kn": true, "ml": true, "ur": true,
}

// Router picks a classifier per language: English model for en, Indic model
// for the Indian languages, multilingual model otherwise, keyword rules when
// nothing is configured.
type Router struct {
	english      Classifier
	indic        Classifier
	multilingual Classifier
	fallback     Classifier
}

// NewRouter wires classifiers from the configured model URLs. Empty URLs
// leave that slot to the multilingual model, and finally to keyword rules.
func NewRouter(englishURL, indicURL, multilingualURL string, maxLength int) *Router {
	r := &Router{fallback: ruleClassifier{}}
	if englishURL != "" {
		r.english = newHTTPClassifier("english", englishURL, maxLength)
	}
	if indicURL != "" {
		r.indic = newHTTPClassifier("indic", indicURL, maxLength)
	}
	if multilingualURL != "" {
		r.multilingual = newHTTPClassifier("multilingual", multilingualURL, maxLength)
	}
	return r
}

// NewRouterWithClassifiers injects explicit backends, used by tests.
func NewRouterWithClassifiers(english, indic, multilingual Classifier) *Router {
	return &Router{english: english, indic: indic, multilingual: multilingual, fallback: ruleClassifier{}}
}

// Route returns the classifier for a language code, never nil.
func (r *Router) Route(lang string) Classifier {
	if lang == "en" && r.english != nil {
		return r.english
	}
	if indicLanguages[lang] && r.indic != nil {
		return r.indic
	}
	if r.multilingual != nil {
		return r.multilingual
	}
	if lang == "en" || indicLanguages[lang] {
		// Preferred model missing and no multilingual backstop.
		if r.english != nil {
			return r.english
		}
		if r.indic != nil {
			return r.indic
		}
	}
	return r.fallback
}

// Fallback returns the keyword classifier used when a model call fails.
func (r *Router) Fallback() Classifier { return r.fallback }

func countHits(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}
