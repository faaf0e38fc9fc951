package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	got := CalculateSMA(ramp(20), 20)
	require.NotNil(t, got)
	assert.InDelta(t, 10.5, *got, 1e-9)

	got = CalculateSMA(ramp(25), 20)
	require.NotNil(t, got)
	assert.InDelta(t, 15.5, *got, 1e-9)

	assert.Nil(t, CalculateSMA(ramp(5), 20))
}

func TestCalculateEMA(t *testing.T) {
	got := CalculateEMA([]float64{1, 2, 3, 4}, 3)
	require.NotNil(t, got)
	// seed = mean(1,2,3) = 2, then (4-2)*0.5 + 2
	assert.InDelta(t, 3.0, *got, 1e-12)

	got = CalculateEMA(flat(30, 5), 12)
	require.NotNil(t, got)
	assert.InDelta(t, 5.0, *got, 1e-12)

	// SMA seed: on a linear ramp the EMA lags by exactly (span-1)/2 from the
	// first defined bar onwards
	got = CalculateEMA(ramp(30), 12)
	require.NotNil(t, got)
	assert.InDelta(t, 24.5, *got, 1e-9)

	assert.Nil(t, CalculateEMA(ramp(11), 12))
}

func TestCalculateMACD(t *testing.T) {
	t.Run("too short for slow EMA", func(t *testing.T) {
		assert.Nil(t, CalculateMACD(ramp(25), 12, 26, 9))
	})

	t.Run("line without signal", func(t *testing.T) {
		m := CalculateMACD(ramp(30), 12, 26, 9)
		require.NotNil(t, m)
		assert.Greater(t, m.Line, 0.0)
		assert.Nil(t, m.Signal)
		assert.Nil(t, m.Histogram)
	})

	t.Run("full output", func(t *testing.T) {
		m := CalculateMACD(ramp(40), 12, 26, 9)
		require.NotNil(t, m)
		require.NotNil(t, m.Signal)
		require.NotNil(t, m.Histogram)
		require.NotNil(t, m.PrevHistogram)
		assert.InDelta(t, m.Line-*m.Signal, *m.Histogram, 1e-12)
	})

	t.Run("flat series", func(t *testing.T) {
		m := CalculateMACD(flat(40, 10), 12, 26, 9)
		require.NotNil(t, m)
		assert.InDelta(t, 0.0, m.Line, 1e-12)
		assert.InDelta(t, 0.0, *m.Histogram, 1e-12)
	})
}

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		expected float64
	}{
		{name: "only gains", closes: ramp(16), expected: 100},
		{name: "flat", closes: flat(15, 10), expected: 50},
		{name: "alternating", closes: []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10}, expected: 50},
		{name: "only losses", closes: []float64{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRSI(tt.closes, 14)
			require.NotNil(t, got)
			assert.InDelta(t, tt.expected, *got, 1e-9)
		})
	}

	t.Run("three to one", func(t *testing.T) {
		// 14 deltas: six +1 and two -1 across an otherwise flat window
		closes := []float64{10, 11, 12, 13, 12, 13, 14, 15, 14, 14, 14, 14, 14, 14, 14}
		got := CalculateRSI(closes, 14)
		require.NotNil(t, got)
		assert.InDelta(t, 75.0, *got, 1e-9)
	})

	assert.Nil(t, CalculateRSI(ramp(14), 14))
}

func TestCalculateBollingerBands(t *testing.T) {
	t.Run("flat series collapses bands", func(t *testing.T) {
		bb := CalculateBollingerBands(flat(20, 50), 20, 2)
		require.NotNil(t, bb)
		assert.InDelta(t, 50.0, bb.Upper, 1e-9)
		assert.InDelta(t, 50.0, bb.Lower, 1e-9)
		assert.Equal(t, 0.5, bb.BandPosition(50))
	})

	t.Run("ramp uses sample deviation", func(t *testing.T) {
		bb := CalculateBollingerBands(ramp(20), 20, 2)
		require.NotNil(t, bb)
		assert.InDelta(t, 10.5, bb.Middle, 1e-9)
		// sample stddev of 1..20 is sqrt(35)
		assert.InDelta(t, 10.5+2*5.916079783099616, bb.Upper, 1e-6)
		assert.InDelta(t, 10.5-2*5.916079783099616, bb.Lower, 1e-6)
	})

	t.Run("band width matches sample stddev of the window", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 + float64(i%9)
		}
		window := closes[len(closes)-20:]

		bb := CalculateBollingerBands(closes, 20, 2)
		require.NotNil(t, bb)
		assert.InDelta(t, Mean(window), bb.Middle, 1e-9)
		assert.InDelta(t, 2*StdDev(window), bb.Upper-bb.Middle, 1e-6)
		assert.InDelta(t, 2*StdDev(window), bb.Middle-bb.Lower, 1e-6)
	})

	t.Run("position is clamped", func(t *testing.T) {
		bb := BollingerBands{Upper: 110, Middle: 100, Lower: 90}
		assert.Equal(t, 1.0, bb.BandPosition(200))
		assert.Equal(t, 0.0, bb.BandPosition(10))
		assert.InDelta(t, 0.75, bb.BandPosition(105), 1e-12)
	})

	assert.Nil(t, CalculateBollingerBands(ramp(19), 20, 2))
}

func TestRollingHighLow(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}

	high := RollingHigh(values, 3)
	require.NotNil(t, high)
	assert.Equal(t, 9.0, *high)

	low := RollingLow(values, 3)
	require.NotNil(t, low)
	assert.Equal(t, 2.0, *low)

	assert.Nil(t, RollingHigh(values, 20))
	assert.Nil(t, RollingLow(values, 20))
}
