package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/database"
)

// CheckDatabasesJob verifies database integrity and truncates the WAL
type CheckDatabasesJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewCheckDatabasesJob creates a new CheckDatabasesJob
func NewCheckDatabasesJob(log zerolog.Logger, databases ...*database.DB) *CheckDatabasesJob {
	return &CheckDatabasesJob{
		databases: databases,
		log:       log.With().Str("job", "check_databases").Logger(),
	}
}

// Name returns the job name
func (j *CheckDatabasesJob) Name() string {
	return "check_databases"
}

// Run checks every database, stopping at the first failure
func (j *CheckDatabasesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, db := range j.databases {
		if db == nil {
			continue
		}

		if err := db.HealthCheck(ctx); err != nil {
			j.log.Error().
				Err(err).
				Str("database", db.Name()).
				Msg("Database integrity check failed")
			return fmt.Errorf("database %s failed integrity check: %w", db.Name(), err)
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
		}

		j.log.Debug().Str("database", db.Name()).Msg("Database integrity OK")
	}

	return nil
}
