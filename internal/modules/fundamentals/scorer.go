// Package fundamentals scores company fundamentals on a 0-100 scale.
package fundamentals

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
)

// BaseScore is the starting point before rule adjustments
const BaseScore = 50.0

// Summary texts by score band
const (
	SummaryStrong = "Strong fundamental profile with good valuation and financial health"
	SummaryGood   = "Good fundamental profile with some positive indicators"
	SummaryMixed  = "Mixed fundamental profile with both strengths and weaknesses"
	SummaryWeak   = "Weak fundamental profile with concerning metrics"
)

// rule adjusts the score when its field is present
type rule struct {
	field string
	value func(*domain.FundamentalMetrics) *float64
	delta func(v float64) float64
}

var rules = []rule{
	{
		field: "pe_ratio",
		value: func(m *domain.FundamentalMetrics) *float64 { return m.PERatio },
		delta: func(v float64) float64 {
			switch {
			case v >= 10 && v <= 20:
				return 10
			case v < 10 || v > 30:
				return -10
			}
			return 0
		},
	},
	{
		field: "return_on_equity",
		value: func(m *domain.FundamentalMetrics) *float64 { return m.ReturnOnEquity },
		delta: func(v float64) float64 {
			switch {
			case v > 0.15:
				return 15
			case v < 0.05:
				return -15
			}
			return 0
		},
	},
	{
		field: "profit_margin",
		value: func(m *domain.FundamentalMetrics) *float64 { return m.ProfitMargin },
		delta: func(v float64) float64 {
			switch {
			case v > 0.10:
				return 10
			case v < 0:
				return -20
			}
			return 0
		},
	},
	{
		field: "debt_to_equity",
		value: func(m *domain.FundamentalMetrics) *float64 { return m.DebtToEquity },
		delta: func(v float64) float64 {
			switch {
			case v < 0.5:
				return 10
			case v > 2:
				return -15
			}
			return 0
		},
	},
	{
		field: "current_ratio",
		value: func(m *domain.FundamentalMetrics) *float64 { return m.CurrentRatio },
		delta: func(v float64) float64 {
			switch {
			case v > 1.5:
				return 5
			case v < 1:
				return -10
			}
			return 0
		},
	},
}

// Scorer maps FundamentalMetrics to a FundamentalScore
type Scorer struct {
	log zerolog.Logger
}

// NewScorer creates a new fundamental scorer
func NewScorer(log zerolog.Logger) *Scorer {
	return &Scorer{
		log: log.With().Str("component", "fundamental_scorer").Logger(),
	}
}

// Score applies every rule whose field is present and clamps to [0, 100].
// Absent fields skip their rule. A nil metrics record is an error.
func (s *Scorer) Score(symbol string, metrics *domain.FundamentalMetrics) (*domain.FundamentalScore, error) {
	if metrics == nil {
		return nil, fmt.Errorf("no fundamentals for %s: %w", symbol, domain.ErrMissingField)
	}

	score := BaseScore
	adjustments := []domain.ScoreAdjustment{}
	skipped := 0

	for _, r := range rules {
		v := r.value(metrics)
		if v == nil || math.IsNaN(*v) {
			skipped++
			continue
		}
		d := r.delta(*v)
		if d == 0 {
			continue
		}
		score += d
		adjustments = append(adjustments, domain.ScoreAdjustment{Field: r.field, Value: *v, Delta: d})
	}

	score = Clamp(score)

	s.log.Debug().
		Str("symbol", symbol).
		Float64("score", score).
		Int("skipped_rules", skipped).
		Msg("Fundamentals scored")

	return &domain.FundamentalScore{
		Symbol:      symbol,
		Score:       score,
		Summary:     Summary(score),
		Adjustments: adjustments,
		Metrics:     *metrics,
	}, nil
}

// Clamp bounds a score to [0, 100]
func Clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}

// Summary returns the qualitative text for a score band
func Summary(score float64) string {
	switch {
	case score >= 70:
		return SummaryStrong
	case score >= 60:
		return SummaryGood
	case score >= 40:
		return SummaryMixed
	}
	return SummaryWeak
}
