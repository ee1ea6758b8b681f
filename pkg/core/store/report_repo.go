package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"finsight/pkg/core/interpret"
)

// ErrNotFound signals that no report exists for the requested symbol.
var ErrNotFound = errors.New("report not found")

// ReportRepository persists interpretation reports. The interface exists so
// handlers and the CLI can run against a fake in tests.
type ReportRepository interface {
	Save(ctx context.Context, report *interpret.Report) error
	Load(ctx context.Context, symbol string) (*interpret.Report, error)
}

// ReportRepo stores one report per symbol as a JSONB blob.
type ReportRepo struct{}

func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// Save upserts the report keyed by symbol, replacing any earlier run.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS interpretation_reports (
//   symbol TEXT PRIMARY KEY,
//   report_id UUID,
//   report_json JSONB,
//   generated_at TIMESTAMPTZ,
//   updated_at TIMESTAMPTZ
// );
func (r *ReportRepo) Save(ctx context.Context, report *interpret.Report) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO interpretation_reports (symbol, report_id, report_json, generated_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol)
		DO UPDATE SET
			report_id = EXCLUDED.report_id,
			report_json = EXCLUDED.report_json,
			generated_at = EXCLUDED.generated_at,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query, report.Symbol, report.ID, jsonData, report.GeneratedAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Load retrieves the latest report for a symbol.
func (r *ReportRepo) Load(ctx context.Context, symbol string) (*interpret.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT report_json FROM interpretation_reports WHERE symbol = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, symbol).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report interpret.Report
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}
