// Package marketdata stores pre-fetched market inputs and serves them to
// the analysis pipeline.
package marketdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/database"
	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/utils"
)

// DefaultArticleLimit caps the articles returned per symbol
const DefaultArticleLimit = 50

// ErrInvalidBar rejects a bar with a non-finite or negative field
var ErrInvalidBar = errors.New("invalid price bar")

// Repository persists market inputs in the marketdata database
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new market data repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "marketdata").Logger(),
	}
}

// ReplaceBars replaces the stored series for symbol. Bars sharing a date
// keep the last one given.
func (r *Repository) ReplaceBars(ctx context.Context, symbol string, bars []domain.PriceBar) error {
	for i, b := range bars {
		if err := validateBar(b); err != nil {
			return fmt.Errorf("bar %d of %s: %w", i, symbol, err)
		}
	}

	done := utils.MeasureDBQuery("replace_bars", r.log)

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM price_bars WHERE symbol = ?`, symbol); err != nil {
			return fmt.Errorf("failed to clear bars: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO price_bars (symbol, date, open, high, low, close, volume)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare bar insert: %w", err)
		}
		defer stmt.Close()

		for _, b := range bars {
			if _, err := stmt.ExecContext(ctx, symbol, dayStart(b.Date).Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
				return fmt.Errorf("failed to insert bar: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	done(int64(len(bars)))

	r.log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("Price bars replaced")
	return nil
}

func validateBar(b domain.PriceBar) error {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrInvalidBar
		}
	}
	if b.Date.IsZero() {
		return fmt.Errorf("missing date: %w", ErrInvalidBar)
	}
	return nil
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetBars returns bars dated on or after since, ascending by date
func (r *Repository) GetBars(ctx context.Context, symbol string, since time.Time) ([]domain.PriceBar, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, open, high, low, close, volume
		FROM price_bars
		WHERE symbol = ? AND date >= ?
		ORDER BY date ASC
	`, symbol, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []domain.PriceBar
	for rows.Next() {
		var b domain.PriceBar
		var date int64
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		b.Date = time.Unix(date, 0).UTC()
		bars = append(bars, b)
	}

	return bars, rows.Err()
}

// LatestBarDate returns the date of the newest bar, nil without bars
func (r *Repository) LatestBarDate(ctx context.Context, symbol string) (*time.Time, error) {
	var latest sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(date) FROM price_bars WHERE symbol = ?`, symbol).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest bar for %s: %w", symbol, err)
	}
	if !latest.Valid {
		return nil, nil
	}
	t := time.Unix(latest.Int64, 0).UTC()
	return &t, nil
}

// SaveFundamentals stores the metrics for symbol, replacing earlier ones
func (r *Repository) SaveFundamentals(ctx context.Context, symbol string, metrics domain.FundamentalMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to encode fundamentals: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO fundamentals (symbol, metrics, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET metrics = excluded.metrics, updated_at = excluded.updated_at
	`, symbol, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save fundamentals for %s: %w", symbol, err)
	}
	return nil
}

// GetFundamentals returns the stored metrics, nil when none are stored
func (r *Repository) GetFundamentals(ctx context.Context, symbol string) (*domain.FundamentalMetrics, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT metrics FROM fundamentals WHERE symbol = ?`, symbol).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fundamentals for %s: %w", symbol, err)
	}

	var metrics domain.FundamentalMetrics
	if err := json.Unmarshal([]byte(payload), &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode fundamentals for %s: %w", symbol, err)
	}
	return &metrics, nil
}

// AddArticles appends scored or unscored articles for symbol
func (r *Repository) AddArticles(ctx context.Context, symbol string, articles []domain.Article) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO articles (symbol, title, source, url, published_at, polarity, subjectivity)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare article insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range articles {
			var polarity, subjectivity sql.NullFloat64
			if a.Sentiment != nil {
				polarity = sql.NullFloat64{Float64: a.Sentiment.Polarity, Valid: true}
				subjectivity = sql.NullFloat64{Float64: a.Sentiment.Subjectivity, Valid: true}
			}
			published := a.PublishedAt
			if published.IsZero() {
				published = time.Now()
			}
			if _, err := stmt.ExecContext(ctx, symbol, a.Title, a.Source, a.URL, published.Unix(), polarity, subjectivity); err != nil {
				return fmt.Errorf("failed to insert article: %w", err)
			}
		}
		return nil
	})
}

// GetArticles returns the newest articles for symbol, newest first
func (r *Repository) GetArticles(ctx context.Context, symbol string, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = DefaultArticleLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT title, source, url, published_at, polarity, subjectivity
		FROM articles
		WHERE symbol = ?
		ORDER BY published_at DESC, id DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles for %s: %w", symbol, err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		var published int64
		var polarity, subjectivity sql.NullFloat64
		if err := rows.Scan(&a.Title, &a.Source, &a.URL, &published, &polarity, &subjectivity); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		a.PublishedAt = time.Unix(published, 0).UTC()
		if polarity.Valid {
			a.Sentiment = &domain.ArticleSentiment{Polarity: polarity.Float64, Subjectivity: subjectivity.Float64}
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// ReplaceIndices replaces the index quotes, keeping their order
func (r *Repository) ReplaceIndices(ctx context.Context, indices []domain.MarketIndex) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM market_indices`); err != nil {
			return fmt.Errorf("failed to clear indices: %w", err)
		}
		for i, idx := range indices {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO market_indices (symbol, name, current, change, change_percent, position)
				VALUES (?, ?, ?, ?, ?, ?)
			`, idx.Symbol, idx.Name, idx.Current, idx.Change, idx.ChangePercent, i)
			if err != nil {
				return fmt.Errorf("failed to insert index %s: %w", idx.Symbol, err)
			}
		}
		return nil
	})
}

// ReplaceSectors replaces the sector performance rows, keeping their order
func (r *Repository) ReplaceSectors(ctx context.Context, sectors []domain.SectorPerformance) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sector_performance`); err != nil {
			return fmt.Errorf("failed to clear sectors: %w", err)
		}
		for i, s := range sectors {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO sector_performance (sector, etf_symbol, current_price, change_percent, position)
				VALUES (?, ?, ?, ?, ?)
			`, s.Sector, s.ETFSymbol, s.CurrentPrice, s.ChangePercent, i)
			if err != nil {
				return fmt.Errorf("failed to insert sector %s: %w", s.Sector, err)
			}
		}
		return nil
	})
}

// Snapshot returns the stored indices and sectors in insertion order
func (r *Repository) Snapshot(ctx context.Context) (*domain.MarketSnapshot, error) {
	indices, err := r.indices(ctx)
	if err != nil {
		return nil, err
	}
	sectors, err := r.sectors(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.MarketSnapshot{Indices: indices, Sectors: sectors}, nil
}

func (r *Repository) indices(ctx context.Context) ([]domain.MarketIndex, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, name, current, change, change_percent
		FROM market_indices ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query indices: %w", err)
	}
	defer rows.Close()

	indices := []domain.MarketIndex{}
	for rows.Next() {
		var idx domain.MarketIndex
		if err := rows.Scan(&idx.Symbol, &idx.Name, &idx.Current, &idx.Change, &idx.ChangePercent); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		indices = append(indices, idx)
	}
	return indices, rows.Err()
}

func (r *Repository) sectors(ctx context.Context) ([]domain.SectorPerformance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sector, etf_symbol, current_price, change_percent
		FROM sector_performance ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer rows.Close()

	sectors := []domain.SectorPerformance{}
	for rows.Next() {
		var s domain.SectorPerformance
		if err := rows.Scan(&s.Sector, &s.ETFSymbol, &s.CurrentPrice, &s.ChangePercent); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	return sectors, rows.Err()
}

// Symbols lists every symbol with stored bars or fundamentals
func (r *Repository) Symbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol FROM price_bars
		UNION
		SELECT symbol FROM fundamentals
		ORDER BY symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
