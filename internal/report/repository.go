package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/trendscan/internal/scan"
)

// Repository persists scan results to Postgres.
// ⭐ SSOT: scan persistence happens here only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new scan repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the scan tables when they do not exist yet.
// Idempotent; called once at startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id           BIGSERIAL PRIMARY KEY,
			strategy_id  TEXT        NOT NULL,
			ran_at       TIMESTAMPTZ NOT NULL,
			duration     TEXT        NOT NULL,
			universe_len INT         NOT NULL,
			result       JSONB       NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scan_rankings (
			scan_id        BIGINT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			rank           INT    NOT NULL,
			ticker         TEXT   NOT NULL,
			combined_score DOUBLE PRECISION NOT NULL,
			in_hot_theme   BOOLEAN NOT NULL,
			sources        TEXT    NOT NULL,
			summary        TEXT    NOT NULL,
			PRIMARY KEY (scan_id, ticker)
		)`,
		`CREATE TABLE IF NOT EXISTS scan_short_candidates (
			scan_id         BIGINT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			rank            INT    NOT NULL,
			ticker          TEXT   NOT NULL,
			short_score     DOUBLE PRECISION NOT NULL,
			squeeze_warning BOOLEAN NOT NULL,
			signals         TEXT    NOT NULL,
			PRIMARY KEY (scan_id, ticker)
		)`,
	}

	for _, stmt := range ddl {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Save writes the scan row plus per-ticker ranking and short
// candidate rows in one transaction.
func (r *Repository) Save(ctx context.Context, result *scan.Result) (int64, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var scanID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO scans (strategy_id, ran_at, duration, universe_len, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, result.StrategyID, result.RanAt, result.Duration, len(result.Universe), payload).Scan(&scanID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	if err := r.saveRankings(ctx, tx, scanID, result); err != nil {
		return 0, err
	}
	if err := r.saveShortCandidates(ctx, tx, scanID, result); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return scanID, nil
}

func (r *Repository) saveRankings(ctx context.Context, tx pgx.Tx, scanID int64, result *scan.Result) error {
	for i, ranking := range result.Rankings {
		_, err := tx.Exec(ctx, `
			INSERT INTO scan_rankings (scan_id, rank, ticker, combined_score, in_hot_theme, sources, summary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, scanID, i+1, ranking.Ticker, ranking.Score, ranking.InHotTheme,
			joinSources(ranking.Sources), ranking.Summary)
		if err != nil {
			return fmt.Errorf("failed to insert ranking for %s: %w", ranking.Ticker, err)
		}
	}
	return nil
}

func (r *Repository) saveShortCandidates(ctx context.Context, tx pgx.Tx, scanID int64, result *scan.Result) error {
	for i, candidate := range result.ShortCandidates {
		_, err := tx.Exec(ctx, `
			INSERT INTO scan_short_candidates (scan_id, rank, ticker, short_score, squeeze_warning, signals)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, scanID, i+1, candidate.Ticker, candidate.Score, candidate.SqueezeWarning,
			strings.Join(candidate.BearishSignals, ","))
		if err != nil {
			return fmt.Errorf("failed to insert short candidate for %s: %w", candidate.Ticker, err)
		}
	}
	return nil
}

// Latest retrieves the most recent stored scan result.
func (r *Repository) Latest(ctx context.Context) (*scan.Result, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `
		SELECT result FROM scans ORDER BY ran_at DESC LIMIT 1
	`).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest scan: %w", err)
	}

	var result scan.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal stored result: %w", err)
	}
	return &result, nil
}
