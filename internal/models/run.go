package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectionRun records the counters of one collection cycle.
type CollectionRun struct {
	ID            uuid.UUID  `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	SourcesTotal  int        `json:"sources_total"`
	Fetched       int        `json:"fetched"`
	Parsed        int        `json:"parsed"`
	RejectedEarly int        `json:"rejected_early"`
	Enriched      int        `json:"enriched"`
	Created       int        `json:"created"`
	Updated       int        `json:"updated"`
	AlertsSent    int        `json:"alerts_sent"`
	Errors        int        `json:"errors"`
}

// RunStore provides data access methods for collection runs.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Start inserts a new run row marking the start of a cycle.
func (s *RunStore) Start(ctx context.Context, run *CollectionRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO collection_runs (id, started_at, sources_total)
		VALUES ($1, $2, $3)
	`, run.ID, run.StartedAt, run.SourcesTotal)
	if err != nil {
		return fmt.Errorf("run start: %w", err)
	}
	return nil
}

// Finish writes the final counters for a cycle.
func (s *RunStore) Finish(ctx context.Context, run *CollectionRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	tag, err := s.pool.Exec(ctx, `
		UPDATE collection_runs
		SET finished_at = $1, sources_total = $2, fetched = $3, parsed = $4,
		    rejected_early = $5, enriched = $6, created = $7, updated = $8,
		    alerts_sent = $9, errors = $10
		WHERE id = $11
	`,
		run.FinishedAt, run.SourcesTotal, run.Fetched, run.Parsed,
		run.RejectedEarly, run.Enriched, run.Created, run.Updated,
		run.AlertsSent, run.Errors, run.ID,
	)
	if err != nil {
		return fmt.Errorf("run finish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	return nil
}

// Latest returns the most recently started run.
func (s *RunStore) Latest(ctx context.Context) (*CollectionRun, error) {
	var r CollectionRun
	err := s.pool.QueryRow(ctx, `
		SELECT id, started_at, finished_at, sources_total, fetched, parsed,
		       rejected_early, enriched, created, updated, alerts_sent, errors
		FROM collection_runs
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(
		&r.ID, &r.StartedAt, &r.FinishedAt, &r.SourcesTotal, &r.Fetched,
		&r.Parsed, &r.RejectedEarly, &r.Enriched, &r.Created, &r.Updated,
		&r.AlertsSent, &r.Errors,
	)
	if err != nil {
		return nil, fmt.Errorf("run latest: %w", err)
	}
	return &r, nil
}
