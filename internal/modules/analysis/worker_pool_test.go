package analysis

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/finwell/internal/domain"
)

func TestWorkerPool_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool(3)

	var symbols []string
	for i := 0; i < 20; i++ {
		symbols = append(symbols, fmt.Sprintf("S%d", i))
	}

	var calls int32
	units := pool.AnalyzeBatch(symbols, func(symbol string) Unit {
		atomic.AddInt32(&calls, 1)
		return Unit{Analysis: &domain.SymbolAnalysis{Symbol: symbol}}
	})

	assert.Equal(t, int32(20), calls)
	for i, u := range units {
		assert.Equal(t, symbols[i], u.Analysis.Symbol)
	}
}

func TestWorkerPool_Defaults(t *testing.T) {
	assert.Equal(t, DefaultWorkers, NewWorkerPool(0).Workers())
	assert.Equal(t, DefaultWorkers, NewWorkerPool(-3).Workers())
	assert.Empty(t, NewWorkerPool(2).AnalyzeBatch(nil, nil))
}
