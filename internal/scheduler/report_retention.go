package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ReportPruner deletes stored reports older than a cutoff
type ReportPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReportRetentionJob deletes reports past the retention window
type ReportRetentionJob struct {
	pruner    ReportPruner
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewReportRetentionJob creates a new ReportRetentionJob
func NewReportRetentionJob(pruner ReportPruner, retentionDays int, log zerolog.Logger) *ReportRetentionJob {
	return &ReportRetentionJob{
		pruner:    pruner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
		log:       log.With().Str("job", "report_retention").Logger(),
	}
}

// Name returns the job name
func (j *ReportRetentionJob) Name() string {
	return "report_retention"
}

// Run deletes expired reports. A zero retention keeps everything.
func (j *ReportRetentionJob) Run() error {
	if j.retention <= 0 {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := j.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune reports: %w", err)
	}

	j.log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Expired reports pruned")

	return nil
}
