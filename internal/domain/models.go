// Package domain provides the records exchanged between the analysis modules.
//
// Optional values are pointers: nil means unknown or not computable, never zero.
package domain

import (
	"fmt"
	"sort"
	"time"
)

// PriceBar is one OHLCV observation. Series are ordered ascending by date.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// SortBars returns a copy of bars ordered ascending by date. Two bars on the
// same UTC calendar day are rejected with ErrDuplicateBar.
func SortBars(bars []PriceBar) ([]PriceBar, error) {
	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i := 1; i < len(sorted); i++ {
		prev, cur := barDay(sorted[i-1].Date), barDay(sorted[i].Date)
		if prev == cur {
			return nil, fmt.Errorf("two bars on %s: %w", cur, ErrDuplicateBar)
		}
	}
	return sorted, nil
}

func barDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Closes extracts closing prices from a bar series
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// FundamentalMetrics holds company fundamentals. Any field may be absent.
type FundamentalMetrics struct {
	// Valuation
	MarketCap       *float64 `json:"market_cap,omitempty"`
	PERatio         *float64 `json:"pe_ratio,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PEGRatio        *float64 `json:"peg_ratio,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	PriceToSales    *float64 `json:"price_to_sales,omitempty"`
	EnterpriseValue *float64 `json:"enterprise_value,omitempty"`
	EVToRevenue     *float64 `json:"ev_to_revenue,omitempty"`
	EVToEBITDA      *float64 `json:"ev_to_ebitda,omitempty"`

	// Profitability
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	ReturnOnAssets  *float64 `json:"return_on_assets,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`

	// Financial health
	TotalCash    *float64 `json:"total_cash,omitempty"`
	TotalDebt    *float64 `json:"total_debt,omitempty"`
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	QuickRatio   *float64 `json:"quick_ratio,omitempty"`
	FreeCashflow *float64 `json:"free_cashflow,omitempty"`

	// Dividends
	DividendYield            *float64 `json:"dividend_yield,omitempty"`
	DividendRate             *float64 `json:"dividend_rate,omitempty"`
	PayoutRatio              *float64 `json:"payout_ratio,omitempty"`
	FiveYearAvgDividendYield *float64 `json:"five_year_avg_dividend_yield,omitempty"`
}

// FundamentalScore is the Fundamental Scorer output
type FundamentalScore struct {
	Symbol      string             `json:"symbol"`
	Score       float64            `json:"fundamental_score"`
	Summary     string             `json:"fundamental_summary"`
	Adjustments []ScoreAdjustment  `json:"adjustments"`
	Metrics     FundamentalMetrics `json:"metrics"`
}

// ScoreAdjustment records one applied scoring rule
type ScoreAdjustment struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Delta float64 `json:"delta"`
}

// Article is a pre-scored news item. Sentiment is nil when the article
// was not scored.
type Article struct {
	Title       string            `json:"title"`
	Source      string            `json:"source,omitempty"`
	URL         string            `json:"url,omitempty"`
	PublishedAt time.Time         `json:"published_at"`
	Sentiment   *ArticleSentiment `json:"sentiment,omitempty"`
}

// ArticleSentiment is the polarity/subjectivity pair computed upstream
type ArticleSentiment struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// MarketIndex is a benchmark index quote
type MarketIndex struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// SectorPerformance is a sector proxy quote
type SectorPerformance struct {
	Sector        string  `json:"sector"`
	ETFSymbol     string  `json:"etf_symbol"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"price_change_percent"`
}

// SymbolData bundles the pre-fetched inputs for one symbol. Err carries a
// collaborator failure for the symbol.
type SymbolData struct {
	Symbol       string              `json:"symbol"`
	Bars         []PriceBar          `json:"bars"`
	Fundamentals *FundamentalMetrics `json:"fundamentals,omitempty"`
	Articles     []Article           `json:"articles,omitempty"`
	Err          error               `json:"-"`
}

// CurrentPrice returns the latest close, nil for an empty series
func (d SymbolData) CurrentPrice() *float64 {
	if len(d.Bars) == 0 {
		return nil
	}
	p := d.Bars[len(d.Bars)-1].Close
	return &p
}

// PriceChangePercent is the last close against the one before it, 0 with
// fewer than two bars
func (d SymbolData) PriceChangePercent() float64 {
	n := len(d.Bars)
	if n < 2 || d.Bars[n-2].Close == 0 {
		return 0
	}
	prev := d.Bars[n-2].Close
	return (d.Bars[n-1].Close - prev) / prev * 100
}

// MarketSnapshot is the market-wide input
type MarketSnapshot struct {
	Indices []MarketIndex       `json:"indices"`
	Sectors []SectorPerformance `json:"sectors"`
}
