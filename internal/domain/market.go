package domain

// Trend is a market or sentiment direction label
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// SectorTrend buckets a sector's change percent
type SectorTrend string

const (
	SectorStrongPositive SectorTrend = "strong_positive"
	SectorPositive       SectorTrend = "positive"
	SectorNeutral        SectorTrend = "neutral"
	SectorNegative       SectorTrend = "negative"
)

// MarketAnalysis is the market-wide classification
type MarketAnalysis struct {
	MarketTrend     Trend                  `json:"market_trend"`
	MarketSentiment Trend                  `json:"market_sentiment"`
	PositiveRatio   *float64               `json:"positive_ratio"`
	SectorTrends    map[string]SectorTrend `json:"sector_trends"`
	LeadingSectors  []string               `json:"leading_sectors"`
	LaggingSectors  []string               `json:"lagging_sectors"`
}

// SentimentLabel classifies a polarity
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentImpact is the per-symbol news sentiment aggregate
type SentimentImpact struct {
	Symbol         string         `json:"symbol"`
	SentimentScore float64        `json:"sentiment_score"`
	ImpactLevel    SentimentLabel `json:"impact_level"`
	ArticleCount   int            `json:"article_count"`
	Recommendation string         `json:"recommendation"`
}

// OverallSentiment is the aggregate over every scored article
type OverallSentiment struct {
	Polarity     float64        `json:"polarity"`
	Subjectivity float64        `json:"subjectivity"`
	Label        SentimentLabel `json:"label"`
	ArticleCount int            `json:"article_count"`
}
