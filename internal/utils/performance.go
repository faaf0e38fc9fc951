package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Slow thresholds above which a measurement is logged at warn level
const (
	SlowOperation = 30 * time.Second
	SlowQuery     = 5 * time.Second
)

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	func (o *Orchestrator) Analyze(...) {
//	    defer utils.OperationTimer("analysis", o.log)()
//	}
func OperationTimer(operation string, log zerolog.Logger) func() time.Duration {
	start := time.Now()

	return func() time.Duration {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		if duration > SlowOperation {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("Slow operation detected")
		}
		return duration
	}
}

// MeasureDBQuery measures database query performance
func MeasureDBQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) time.Duration {
	start := time.Now()

	return func(rowsAffected int64) time.Duration {
		duration := time.Since(start)

		log.Debug().
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("Database query completed")

		if duration > SlowQuery {
			log.Warn().
				Str("query", queryName).
				Dur("duration", duration).
				Int64("rows_affected", rowsAffected).
				Msg("Slow database query detected")
		}
		return duration
	}
}
