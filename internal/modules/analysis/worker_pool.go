package analysis

import (
	"sync"

	"github.com/aristath/finwell/internal/domain"
)

// DefaultWorkers is used when the configured worker count is not positive
const DefaultWorkers = 10

// Unit is the result of analyzing one symbol
type Unit struct {
	Analysis *domain.SymbolAnalysis
	Articles []domain.Article
}

// UnitFunc analyzes one symbol
type UnitFunc func(symbol string) Unit

// WorkerPool runs per-symbol units on a fixed number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	return &WorkerPool{
		numWorkers: numWorkers,
	}
}

// Workers returns the pool size
func (wp *WorkerPool) Workers() int { return wp.numWorkers }

// AnalyzeBatch runs analyze for every symbol and returns once all units
// have finished. Results are in input order.
func (wp *WorkerPool) AnalyzeBatch(symbols []string, analyze UnitFunc) []Unit {
	numSymbols := len(symbols)
	if numSymbols == 0 {
		return []Unit{}
	}

	jobs := make(chan jobItem, numSymbols)
	results := make(chan resultItem, numSymbols)

	var wg sync.WaitGroup
	numActualWorkers := wp.numWorkers
	if numSymbols < numActualWorkers {
		numActualWorkers = numSymbols
	}

	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(jobs, results, analyze)
		}()
	}

	for idx, symbol := range symbols {
		jobs <- jobItem{
			index:  idx,
			symbol: symbol,
		}
	}
	close(jobs)

	// Join: every unit has reported before aggregation starts
	wg.Wait()
	close(results)

	units := make([]Unit, numSymbols)
	for result := range results {
		units[result.index] = result.unit
	}

	return units
}

type jobItem struct {
	symbol string
	index  int
}

type resultItem struct {
	unit  Unit
	index int
}

func worker(jobs <-chan jobItem, results chan<- resultItem, analyze UnitFunc) {
	for job := range jobs {
		results <- resultItem{
			index: job.index,
			unit:  analyze(job.symbol),
		}
	}
}
