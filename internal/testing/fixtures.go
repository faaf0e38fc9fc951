package testing

import (
	"time"

	"github.com/aristath/finwell/internal/domain"
)

// DailyBars builds one flat bar per day from start, one per close
func DailyBars(start time.Time, closes ...float64) []domain.PriceBar {
	bars := make([]domain.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = domain.PriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return bars
}

// TrendingBars builds n daily bars whose close rises by step from base,
// with a one-unit high/low range
func TrendingBars(start time.Time, n int, base, step float64) []domain.PriceBar {
	bars := make([]domain.PriceBar, n)
	for i := range bars {
		c := base + float64(i)*step
		bars[i] = domain.PriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return bars
}
