// Package market classifies the macro trend, ranks sectors and aggregates
// news sentiment.
package market

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/pkg/formulas"
)

// Market trend cut-offs on the share of indices with a positive change
const (
	BullishRatio   = 0.6
	BearishRatio   = 0.4
	SentimentRatio = 0.5
)

// Sector trend cut-offs on change percent
const (
	StrongSectorChange = 2.0
	WeakSectorChange   = -2.0
)

// RankedSectors is how many leading and lagging sectors are reported
const RankedSectors = 3

// Sentiment cut-offs on mean polarity
const (
	ImpactThreshold = 0.2
	LabelThreshold  = 0.1
)

// Aggregator produces MarketAnalysis and sentiment impact records
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a new market/sentiment aggregator
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{
		log: log.With().Str("component", "market_aggregator").Logger(),
	}
}

// AnalyzeMarket classifies the market trend and sectors
func (a *Aggregator) AnalyzeMarket(snapshot domain.MarketSnapshot) *domain.MarketAnalysis {
	trend, ratio := MarketTrend(snapshot.Indices)

	sentiment := domain.TrendNeutral
	if ratio != nil {
		sentiment = domain.TrendBearish
		if *ratio > SentimentRatio {
			sentiment = domain.TrendBullish
		}
	}

	sectorTrends := make(map[string]domain.SectorTrend, len(snapshot.Sectors))
	for _, s := range snapshot.Sectors {
		sectorTrends[s.Sector] = ClassifySector(s.ChangePercent)
	}

	leading, lagging := RankSectors(snapshot.Sectors, RankedSectors)

	a.log.Debug().
		Str("trend", string(trend)).
		Int("indices", len(snapshot.Indices)).
		Int("sectors", len(snapshot.Sectors)).
		Msg("Market analyzed")

	return &domain.MarketAnalysis{
		MarketTrend:     trend,
		MarketSentiment: sentiment,
		PositiveRatio:   ratio,
		SectorTrends:    sectorTrends,
		LeadingSectors:  leading,
		LaggingSectors:  lagging,
	}
}

// MarketTrend classifies by the share of indices with a positive change.
// No indices is neutral with a nil ratio.
func MarketTrend(indices []domain.MarketIndex) (domain.Trend, *float64) {
	if len(indices) == 0 {
		return domain.TrendNeutral, nil
	}

	positive := 0
	for _, idx := range indices {
		if idx.ChangePercent > 0 {
			positive++
		}
	}
	ratio := float64(positive) / float64(len(indices))

	switch {
	case ratio > BullishRatio:
		return domain.TrendBullish, &ratio
	case ratio < BearishRatio:
		return domain.TrendBearish, &ratio
	}
	return domain.TrendNeutral, &ratio
}

// ClassifySector buckets a sector change percent
func ClassifySector(changePct float64) domain.SectorTrend {
	switch {
	case changePct > StrongSectorChange:
		return domain.SectorStrongPositive
	case changePct > 0:
		return domain.SectorPositive
	case changePct > WeakSectorChange:
		return domain.SectorNeutral
	}
	return domain.SectorNegative
}

// RankSectors returns the top and bottom n sectors by change percent.
// Ties keep input order.
func RankSectors(sectors []domain.SectorPerformance, n int) (leading, lagging []string) {
	desc := append([]domain.SectorPerformance(nil), sectors...)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].ChangePercent > desc[j].ChangePercent })

	asc := append([]domain.SectorPerformance(nil), sectors...)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].ChangePercent < asc[j].ChangePercent })

	return sectorNames(desc, n), sectorNames(asc, n)
}

func sectorNames(sectors []domain.SectorPerformance, n int) []string {
	if len(sectors) < n {
		n = len(sectors)
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = sectors[i].Sector
	}
	return names
}

// SentimentImpact averages polarity over the scored articles. Articles
// without sentiment are excluded; nil when none are scored.
func (a *Aggregator) SentimentImpact(symbol string, articles []domain.Article) *domain.SentimentImpact {
	polarities := make([]float64, 0, len(articles))
	for _, art := range articles {
		if art.Sentiment != nil {
			polarities = append(polarities, art.Sentiment.Polarity)
		}
	}
	if len(polarities) == 0 {
		return nil
	}

	avg := formulas.Mean(polarities)

	impact := domain.SentimentNeutral
	switch {
	case avg > ImpactThreshold:
		impact = domain.SentimentPositive
	case avg < -ImpactThreshold:
		impact = domain.SentimentNegative
	}

	return &domain.SentimentImpact{
		Symbol:         symbol,
		SentimentScore: avg,
		ImpactLevel:    impact,
		ArticleCount:   len(polarities),
		Recommendation: sentimentAdvice(avg),
	}
}

func sentimentAdvice(polarity float64) string {
	switch {
	case polarity > LabelThreshold:
		return "Consider positive sentiment"
	case polarity < -LabelThreshold:
		return "Monitor negative sentiment"
	}
	return "Neutral sentiment impact"
}

// Label classifies a single polarity at the ±0.1 threshold
func Label(polarity float64) domain.SentimentLabel {
	switch {
	case polarity > LabelThreshold:
		return domain.SentimentPositive
	case polarity < -LabelThreshold:
		return domain.SentimentNegative
	}
	return domain.SentimentNeutral
}

// OverallSentiment averages every scored article across all symbols
func (a *Aggregator) OverallSentiment(articles map[string][]domain.Article) *domain.OverallSentiment {
	var polarities, subjectivities []float64
	for _, list := range articles {
		for _, art := range list {
			if art.Sentiment == nil {
				continue
			}
			polarities = append(polarities, art.Sentiment.Polarity)
			subjectivities = append(subjectivities, art.Sentiment.Subjectivity)
		}
	}

	if len(polarities) == 0 {
		return &domain.OverallSentiment{Label: domain.SentimentNeutral}
	}

	polarity := formulas.Mean(polarities)
	return &domain.OverallSentiment{
		Polarity:     polarity,
		Subjectivity: formulas.Mean(subjectivities),
		Label:        Label(polarity),
		ArticleCount: len(polarities),
	}
}
