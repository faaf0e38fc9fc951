package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aristath/finwell/internal/domain"
)

// TopN is the number of buy and sell calls in the executive summary
const TopN = 3

// Grade rates a run: good without failures, partial when fewer than half
// of the symbols failed a stage, poor otherwise. A market failure alone
// makes the run partial.
func Grade(total, failedSymbols int, marketFailed bool) domain.AnalysisQuality {
	switch {
	case failedSymbols == 0 && !marketFailed:
		return domain.QualityGood
	case failedSymbols*2 < total:
		return domain.QualityPartial
	}
	return domain.QualityPoor
}

// Summarize builds the executive summary of a finished report
func Summarize(report *domain.AnalysisReport) domain.ExecutiveSummary {
	summary := domain.ExecutiveSummary{
		Overview: domain.AnalysisOverview{
			SymbolsAnalyzed: len(report.Symbols),
			AnalysisPeriod:  report.Period,
			AnalysisQuality: report.Quality,
		},
		KeyFindings:    []string{},
		RiskHighlights: []string{},
		PortfolioSummary: domain.PortfolioSummary{
			RecommendedStockAllocation: fmt.Sprintf("%.1f%%", report.Allocation.TotalInvestedPct),
			RecommendedCashAllocation:  fmt.Sprintf("%.1f%%", report.Allocation.CashAllocationPct),
			NumberOfPositions:          len(report.Allocation.StockAllocations),
		},
		InvestmentStrategy: report.Strategy.Strategy,
		MarketOutlook:      report.Strategy.MarketOutlook,
	}

	if m := report.Market; m != nil {
		summary.KeyFindings = append(summary.KeyFindings, fmt.Sprintf("Overall market trend: %s", m.MarketTrend))
		if len(m.LeadingSectors) > 0 {
			summary.KeyFindings = append(summary.KeyFindings, "Leading sectors: "+strings.Join(m.LeadingSectors, ", "))
		}
	}

	if pr := report.PortfolioRisk; pr != nil {
		summary.RiskHighlights = append(summary.RiskHighlights,
			fmt.Sprintf("Portfolio risk level: %s", pr.RiskLevel),
			fmt.Sprintf("Average risk score: %.1f/100", pr.AverageRiskScore),
		)
	}

	var buys, sells []domain.RankedRecommendation
	for _, symbol := range report.Symbols {
		a, ok := report.Results[symbol]
		if !ok || a.Recommendation == nil {
			continue
		}
		rec := a.Recommendation
		ranked := domain.RankedRecommendation{
			Symbol:      symbol,
			Action:      rec.Action,
			Confidence:  rec.Confidence,
			TargetPrice: rec.TargetPrice,
		}
		switch {
		case rec.Action.IsBuy():
			buys = append(buys, ranked)
		case rec.Action.IsSell():
			sells = append(sells, ranked)
		}
	}
	summary.TopRecommendations = domain.TopRecommendations{
		Buy:  topByConfidence(buys, TopN),
		Sell: topByConfidence(sells, TopN),
	}

	return summary
}

func topByConfidence(recs []domain.RankedRecommendation, n int) []domain.RankedRecommendation {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Confidence > recs[j].Confidence })
	if len(recs) > n {
		recs = recs[:n]
	}
	if recs == nil {
		return []domain.RankedRecommendation{}
	}
	return recs
}
