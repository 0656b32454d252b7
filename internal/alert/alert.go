// Package alert raises review alerts for negative coverage of government
// schemes and notifies reviewers by email.
package alert

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/newsscope/newswatch/internal/config"
	"github.com/newsscope/newswatch/internal/models"
	"github.com/newsscope/newswatch/internal/nlp"
)

// alertStore is the slice of AlertStore the dispatcher uses.
type alertStore interface {
	Create(ctx context.Context, alert *models.PIBAlert) error
	MarkEmailSent(ctx context.Context, id uuid.UUID, sent bool) error
}

// Dispatcher evaluates stored articles against the alert predicate and
// raises at most one alert per article.
type Dispatcher struct {
	cfg    config.AlertConfig
	store  alertStore
	mailer Mailer
}

// NewDispatcher builds a dispatcher. mailer may be nil when SMTP is disabled;
// alert rows are still created.
func NewDispatcher(cfg config.AlertConfig, store alertStore, mailer Mailer) *Dispatcher {
	return &Dispatcher{cfg: cfg, store: store, mailer: mailer}
}

// ShouldAlert reports whether a stored article meets the alert predicate:
// negative sentiment at or above the threshold, with at least one scheme.
func (d *Dispatcher) ShouldAlert(a *models.Article) bool {
	return d.cfg.Enabled &&
		a.SentimentLabel == nlp.LabelNegative &&
		a.SentimentScore >= d.cfg.NegativeThreshold &&
		len(a.GOISchemes) > 0
}

// Dispatch raises an alert for the article when the predicate holds. It
// reports whether a new alert row was created. The alert row is committed
// before the email attempt; a failed send never rolls it back, it is just
// recorded on the row.
func (d *Dispatcher) Dispatch(ctx context.Context, a *models.Article) (bool, error) {
	if !d.ShouldAlert(a) {
		return false, nil
	}

	title := a.TranslatedTitle
	if title == "" {
		title = a.Title
	}
	summary := a.TranslatedSummary
	if summary == "" {
		summary = a.Summary
	}

	al := &models.PIBAlert{
		ArticleID:      a.ID,
		Title:          title,
		Summary:        summary,
		Link:           a.URL,
		Language:       a.Language,
		SentimentScore: a.SentimentScore,
	}

	err := d.store.Create(ctx, al)
	if errors.Is(err, models.ErrAlertExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	slog.Info("alert: raised", "article_id", a.ID, "schemes", a.GOISchemes, "score", a.SentimentScore)

	if d.mailer == nil {
		return true, nil
	}
	if err := d.mailer.Send(ctx, al, a); err != nil {
		slog.Warn("alert: email failed, row retained for retry", "alert_id", al.ID, "err", err)
		if markErr := d.store.MarkEmailSent(ctx, al.ID, false); markErr != nil {
			slog.Error("alert: record email failure", "alert_id", al.ID, "err", markErr)
		}
		return true, nil
	}
	if err := d.store.MarkEmailSent(ctx, al.ID, true); err != nil {
		slog.Error("alert: record email success", "alert_id", al.ID, "err", err)
	}
	return true, nil
}
