// Package models defines the persisted data types and their pgx-backed stores.
package models

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entity is a named entity attached to an article.
type Entity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Type       string  `json:"type"`
}

// Article is the persisted shape of a fully enriched news item.
type Article struct {
	ID                  uuid.UUID  `json:"id"`
	URL                 string     `json:"url"`
	Title               string     `json:"title"`
	Summary             string     `json:"summary,omitempty"`
	Content             string     `json:"content,omitempty"`
	Source              string     `json:"source"`
	SourceType          string     `json:"source_type"`
	Region              string     `json:"region,omitempty"`
	Language            string     `json:"language,omitempty"`
	DetectedLanguage    string     `json:"detected_language,omitempty"`
	DetectedScript      string     `json:"detected_script,omitempty"`
	LanguageConfidence  float64    `json:"language_confidence"`
	TranslatedTitle     string     `json:"translated_title,omitempty"`
	TranslatedSummary   string     `json:"translated_summary,omitempty"`
	PublishedAt         time.Time  `json:"published_at"`
	CollectedAt         time.Time  `json:"collected_at"`
	SentimentLabel      string     `json:"sentiment_label,omitempty"`
	SentimentScore      float64    `json:"sentiment_score"`
	SentimentPolarity   float64    `json:"sentiment_polarity"`
	TopicLabels         []string   `json:"topic_labels,omitempty"`
	Entities            []Entity   `json:"entities,omitempty"`
	Hash                string     `json:"hash"`
	IsGOI               bool       `json:"is_goi"`
	RelevanceScore      float64    `json:"relevance_score"`
	GOIMinistries       []string   `json:"goi_ministries,omitempty"`
	GOISchemes          []string   `json:"goi_schemes,omitempty"`
	GOIEntities         []Entity   `json:"goi_entities,omitempty"`
	GOIMatchedTerms     []string   `json:"goi_matched_terms,omitempty"`
	ContentCategory     string     `json:"content_category,omitempty"`
	ContentSubCategory  string     `json:"content_sub_category,omitempty"`
	ClassificationConf  float64    `json:"classification_confidence"`
	ClassificationWords []string   `json:"classification_keywords,omitempty"`
	ShouldShowPIB       bool       `json:"should_show_pib"`
	FilterReason        *string    `json:"filter_reason,omitempty"`
}

// ArticleHash computes the stable dedup fingerprint for an article:
// SHA-256 over url, title and the RFC 3339 published timestamp, separated by
// pipes. A zero published time contributes an empty segment so that items
// without a feed date still hash deterministically.
func ArticleHash(url, title string, publishedAt time.Time) string {
	published := ""
	if !publishedAt.IsZero() {
		published = publishedAt.UTC().Format(time.RFC3339)
	}
	h := sha256.Sum256([]byte(url + "|" + title + "|" + published))
	return fmt.Sprintf("%x", h)
}

// ArticleStore provides data access methods for articles.
type ArticleStore struct {
	pool *pgxpool.Pool
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(pool *pgxpool.Pool) *ArticleStore {
	return &ArticleStore{pool: pool}
}

// Pool returns the underlying connection pool for direct queries.
func (s *ArticleStore) Pool() *pgxpool.Pool {
	return s.pool
}

const articleColumns = `
	id, url, title, summary, content, source, source_type, region, language,
	detected_language, detected_script, language_confidence,
	translated_title, translated_summary, published_at, collected_at,
	sentiment_label, sentiment_score, sentiment_polarity, topic_labels,
	entities, hash, is_goi, relevance_score, goi_ministries, goi_schemes,
	goi_entities, goi_matched_terms, content_category, content_sub_category,
	classification_confidence, classification_keywords, should_show_pib,
	filter_reason`

// scannable is an interface for pgx Row and Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanArticleFromRow scans a single article from a row, handling all nullable
// columns.
func scanArticleFromRow(row scannable) (*Article, error) {
	var a Article
	var entitiesRaw, goiEntitiesRaw []byte
	var summary, content, region, language *string
	var detLang, detScript, transTitle, transSummary *string
	var sentLabel, category, subCategory *string
	var langConf, sentScore, sentPolarity, classConf *float64
	if err := row.Scan(
		&a.ID, &a.URL, &a.Title, &summary, &content, &a.Source, &a.SourceType,
		&region, &language, &detLang, &detScript, &langConf,
		&transTitle, &transSummary, &a.PublishedAt, &a.CollectedAt,
		&sentLabel, &sentScore, &sentPolarity, &a.TopicLabels,
		&entitiesRaw, &a.Hash, &a.IsGOI, &a.RelevanceScore, &a.GOIMinistries,
		&a.GOISchemes, &goiEntitiesRaw, &a.GOIMatchedTerms, &category,
		&subCategory, &classConf, &a.ClassificationWords, &a.ShouldShowPIB,
		&a.FilterReason,
	); err != nil {
		return nil, fmt.Errorf("article scan: %w", err)
	}

	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&a.Summary, summary)
	setIf(&a.Content, content)
	setIf(&a.Region, region)
	setIf(&a.Language, language)
	setIf(&a.DetectedLanguage, detLang)
	setIf(&a.DetectedScript, detScript)
	setIf(&a.TranslatedTitle, transTitle)
	setIf(&a.TranslatedSummary, transSummary)
	setIf(&a.SentimentLabel, sentLabel)
	setIf(&a.ContentCategory, category)
	setIf(&a.ContentSubCategory, subCategory)
	if langConf != nil {
		a.LanguageConfidence = *langConf
	}
	if sentScore != nil {
		a.SentimentScore = *sentScore
	}
	if sentPolarity != nil {
		a.SentimentPolarity = *sentPolarity
	}
	if classConf != nil {
		a.ClassificationConf = *classConf
	}
	if len(entitiesRaw) > 0 {
		_ = json.Unmarshal(entitiesRaw, &a.Entities)
	}
	if len(goiEntitiesRaw) > 0 {
		_ = json.Unmarshal(goiEntitiesRaw, &a.GOIEntities)
	}
	return &a, nil
}

// GetByID returns a single article by its UUID.
func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	return scanArticleFromRow(row)
}

// GetByHash returns a single article by its content hash.
func (s *ArticleStore) GetByHash(ctx context.Context, hash string) (*Article, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE hash = $1`, hash)
	return scanArticleFromRow(row)
}

// Upsert inserts the article, or refreshes the mutable enrichment fields of an
// existing row matched by url or hash. The stored collected_at is preserved on
// update. Returns true when a new row was created.
func (s *ArticleStore) Upsert(ctx context.Context, a *Article) (bool, error) {
	entitiesJSON, err := json.Marshal(orEmptyEntities(a.Entities))
	if err != nil {
		return false, fmt.Errorf("article marshal entities: %w", err)
	}
	goiEntitiesJSON, err := json.Marshal(orEmptyEntities(a.GOIEntities))
	if err != nil {
		return false, fmt.Errorf("article marshal goi_entities: %w", err)
	}

	var existingID uuid.UUID
	var collectedAt time.Time
	err = s.pool.QueryRow(ctx,
		`SELECT id, collected_at FROM articles WHERE url = $1 OR hash = $2 LIMIT 1`,
		a.URL, a.Hash,
	).Scan(&existingID, &collectedAt)
	if err != nil && !isNotFound(err) {
		// A transient lookup failure must not fall through to INSERT.
		return false, fmt.Errorf("article lookup: %w", err)
	}

	if err == nil {
		// Existing row: refresh enrichment, keep collected_at.
		a.ID = existingID
		a.CollectedAt = collectedAt
		_, err = s.pool.Exec(ctx, `
			UPDATE articles SET
				url = $1, title = $2, summary = $3, content = $4, source = $5,
				source_type = $6, region = $7, language = $8,
				detected_language = $9, detected_script = $10,
				language_confidence = $11, translated_title = $12,
				translated_summary = $13, published_at = $14,
				sentiment_label = $15, sentiment_score = $16,
				sentiment_polarity = $17, topic_labels = $18, entities = $19,
				hash = $20, is_goi = $21, relevance_score = $22,
				goi_ministries = $23, goi_schemes = $24, goi_entities = $25,
				goi_matched_terms = $26, content_category = $27,
				content_sub_category = $28, classification_confidence = $29,
				classification_keywords = $30, should_show_pib = $31,
				filter_reason = $32
			WHERE id = $33
		`,
			a.URL, a.Title, a.Summary, a.Content, a.Source,
			a.SourceType, a.Region, a.Language,
			a.DetectedLanguage, a.DetectedScript,
			a.LanguageConfidence, a.TranslatedTitle,
			a.TranslatedSummary, a.PublishedAt,
			a.SentimentLabel, a.SentimentScore,
			a.SentimentPolarity, orEmpty(a.TopicLabels), entitiesJSON,
			a.Hash, a.IsGOI, a.RelevanceScore,
			orEmpty(a.GOIMinistries), orEmpty(a.GOISchemes), goiEntitiesJSON,
			orEmpty(a.GOIMatchedTerms), a.ContentCategory,
			a.ContentSubCategory, a.ClassificationConf,
			orEmpty(a.ClassificationWords), a.ShouldShowPIB,
			a.FilterReason, existingID,
		)
		if err != nil {
			return false, fmt.Errorf("article update: %w", err)
		}
		return false, nil
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO articles (
			id, url, title, summary, content, source, source_type, region,
			language, detected_language, detected_script, language_confidence,
			translated_title, translated_summary, published_at,
			sentiment_label, sentiment_score, sentiment_polarity,
			topic_labels, entities, hash, is_goi, relevance_score,
			goi_ministries, goi_schemes, goi_entities, goi_matched_terms,
			content_category, content_sub_category, classification_confidence,
			classification_keywords, should_show_pib, filter_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
		        $27, $28, $29, $30, $31, $32, $33)
		RETURNING collected_at
	`,
		a.ID, a.URL, a.Title, a.Summary, a.Content, a.Source, a.SourceType,
		a.Region, a.Language, a.DetectedLanguage, a.DetectedScript,
		a.LanguageConfidence, a.TranslatedTitle, a.TranslatedSummary,
		a.PublishedAt, a.SentimentLabel, a.SentimentScore, a.SentimentPolarity,
		orEmpty(a.TopicLabels), entitiesJSON, a.Hash, a.IsGOI,
		a.RelevanceScore, orEmpty(a.GOIMinistries), orEmpty(a.GOISchemes),
		goiEntitiesJSON, orEmpty(a.GOIMatchedTerms), a.ContentCategory,
		a.ContentSubCategory, a.ClassificationConf,
		orEmpty(a.ClassificationWords), a.ShouldShowPIB, a.FilterReason,
	).Scan(&a.CollectedAt)
	if err != nil {
		return false, fmt.Errorf("article insert: %w", err)
	}
	return true, nil
}

// CountToday returns the number of articles collected since local midnight.
func (s *ArticleStore) CountToday(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM articles WHERE collected_at >= date_trunc('day', now())`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("article count today: %w", err)
	}
	return count, nil
}

// isNotFound reports whether a QueryRow scan failed because no row matched.
func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// orEmpty maps a nil slice to an empty one so array columns never store NULL.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyEntities(e []Entity) []Entity {
	if e == nil {
		return []Entity{}
	}
	return e
}
