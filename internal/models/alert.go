package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAlertExists is returned when an alert row already exists for an article.
var ErrAlertExists = errors.New("alert already exists for article")

// PIBAlert is a review alert raised for a negative-sentiment government
// article. At most one alert exists per article.
type PIBAlert struct {
	ID             uuid.UUID  `json:"id"`
	ArticleID      uuid.UUID  `json:"article_id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary,omitempty"`
	Link           string     `json:"link"`
	Language       string     `json:"language,omitempty"`
	SentimentScore float64    `json:"sentiment_score"`
	IsReviewed     bool       `json:"is_reviewed"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy     string     `json:"reviewed_by,omitempty"`
	EmailSent      bool       `json:"email_sent"`
	EmailSentAt    *time.Time `json:"email_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AlertStore provides data access methods for PIB alerts.
type AlertStore struct {
	pool *pgxpool.Pool
}

// NewAlertStore creates a new AlertStore.
func NewAlertStore(pool *pgxpool.Pool) *AlertStore {
	return &AlertStore{pool: pool}
}

// Create inserts a new alert row. Returns ErrAlertExists if an alert for the
// same article is already present; duplicate triggers must be skipped, not
// duplicated.
func (s *AlertStore) Create(ctx context.Context, alert *PIBAlert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}

	var existing uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM pib_alerts WHERE article_id = $1`, alert.ArticleID,
	).Scan(&existing)
	if err == nil {
		alert.ID = existing
		return ErrAlertExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("alert lookup: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO pib_alerts (id, article_id, title, summary, link, language,
		                        sentiment_score, is_reviewed, email_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, false)
		ON CONFLICT (article_id) DO NOTHING
		RETURNING created_at
	`,
		alert.ID, alert.ArticleID, alert.Title, alert.Summary, alert.Link,
		alert.Language, alert.SentimentScore,
	).Scan(&alert.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a race with a concurrent insert.
		return ErrAlertExists
	}
	if err != nil {
		return fmt.Errorf("alert create: %w", err)
	}
	return nil
}

// MarkEmailSent records the outcome of the notification attempt.
func (s *AlertStore) MarkEmailSent(ctx context.Context, id uuid.UUID, sent bool) error {
	var sentAt *time.Time
	if sent {
		now := time.Now().UTC()
		sentAt = &now
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE pib_alerts SET email_sent = $1, email_sent_at = $2, updated_at = now()
		WHERE id = $3
	`, sent, sentAt, id)
	if err != nil {
		return fmt.Errorf("alert mark email sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert not found: %s", id)
	}
	return nil
}

// MarkReviewed records a reviewer decision on an alert.
func (s *AlertStore) MarkReviewed(ctx context.Context, id uuid.UUID, reviewer string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE pib_alerts
		SET is_reviewed = true, reviewed_at = now(), reviewed_by = $1, updated_at = now()
		WHERE id = $2
	`, reviewer, id)
	if err != nil {
		return fmt.Errorf("alert mark reviewed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert not found: %s", id)
	}
	return nil
}

// CountUnreviewed returns the number of alerts awaiting review.
func (s *AlertStore) CountUnreviewed(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pib_alerts WHERE is_reviewed = false`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("alert count unreviewed: %w", err)
	}
	return count, nil
}

// GetByArticleID returns the alert for an article, if any.
func (s *AlertStore) GetByArticleID(ctx context.Context, articleID uuid.UUID) (*PIBAlert, error) {
	var a PIBAlert
	var summary, language, reviewedBy *string
	err := s.pool.QueryRow(ctx, `
		SELECT id, article_id, title, summary, link, language, sentiment_score,
		       is_reviewed, reviewed_at, reviewed_by, email_sent, email_sent_at,
		       created_at, updated_at
		FROM pib_alerts
		WHERE article_id = $1
	`, articleID).Scan(
		&a.ID, &a.ArticleID, &a.Title, &summary, &a.Link, &language,
		&a.SentimentScore, &a.IsReviewed, &a.ReviewedAt, &reviewedBy,
		&a.EmailSent, &a.EmailSentAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("alert get by article: %w", err)
	}
	if summary != nil {
		a.Summary = *summary
	}
	if language != nil {
		a.Language = *language
	}
	if reviewedBy != nil {
		a.ReviewedBy = *reviewedBy
	}
	return &a, nil
}
