package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/config"
	"github.com/aristath/finwell/internal/scheduler"
)

// checkDatabasesSchedule runs the integrity check and WAL checkpoint hourly
const checkDatabasesSchedule = "0 0 * * * *"

// RegisterJobs creates the background jobs and registers them with sched
func RegisterJobs(container *Container, sched *scheduler.Scheduler, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	jobs := &JobInstances{
		ReportRetention: scheduler.NewReportRetentionJob(container.ReportRepo, cfg.Reports.RetentionDays, log),
		CheckDatabases:  scheduler.NewCheckDatabasesJob(log, container.Databases()...),
	}

	if err := sched.AddJob(cfg.Reports.CleanupSchedule, jobs.ReportRetention); err != nil {
		return nil, fmt.Errorf("failed to register report_retention job: %w", err)
	}
	if err := sched.AddJob(checkDatabasesSchedule, jobs.CheckDatabases); err != nil {
		return nil, fmt.Errorf("failed to register check_databases job: %w", err)
	}

	log.Info().Int("jobs", sched.Entries()).Msg("Background jobs registered")
	return jobs, nil
}
