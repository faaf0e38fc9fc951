// Package reports persists analysis reports.
package reports

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/utils"
)

// DefaultListLimit caps a listing without an explicit limit
const DefaultListLimit = 50

// Repository stores reports as msgpack blobs keyed by UUID
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new report repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "reports").Logger(),
	}
}

// Save assigns the report an ID and stores it
func (r *Repository) Save(ctx context.Context, report *domain.AnalysisReport) (string, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	payload, err := encode(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reports (id, symbols, period, quality, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, utils.JoinCSV(report.Symbols), report.Period, string(report.Quality), report.CreatedAt.UnixMilli(), payload)
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}

	r.log.Info().
		Str("id", report.ID).
		Int("bytes", len(payload)).
		Msg("Report saved")

	return report.ID, nil
}

// Get loads one report
func (r *Repository) Get(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM reports WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report %s: %w", id, err)
	}

	report, err := decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return report, nil
}

// List returns report metadata, newest first
func (r *Repository) List(ctx context.Context, limit int) ([]domain.ReportMeta, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, symbols, period, quality, created_at
		FROM reports
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	metas := []domain.ReportMeta{}
	for rows.Next() {
		var m domain.ReportMeta
		var symbols, quality string
		var created int64
		if err := rows.Scan(&m.ID, &symbols, &m.Period, &quality, &created); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		m.Symbols = utils.ParseCSV(symbols)
		m.Quality = domain.AnalysisQuality(quality)
		m.CreatedAt = time.UnixMilli(created).UTC()
		metas = append(metas, m)
	}

	return metas, rows.Err()
}

// Delete removes one report
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteOlderThan removes reports created before cutoff
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	done := utils.MeasureDBQuery("delete_old_reports", r.log)

	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete old reports: %w", err)
	}
	done(n)
	return n, nil
}

func encode(report *domain.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(payload []byte) (*domain.AnalysisReport, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag("json")

	var report domain.AnalysisReport
	if err := dec.Decode(&report); err != nil {
		return nil, err
	}
	report.CreatedAt = report.CreatedAt.UTC()
	return &report, nil
}
