package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/notewise/notewise/internal/service"
)

// JobCleanupJob evicts stale summary jobs from the in-memory registry so
// abandoned polls do not accumulate forever.
type JobCleanupJob struct {
	jobs   *service.JobManager
	maxAge time.Duration
}

func NewJobCleanupJob(jobs *service.JobManager, maxAge time.Duration) *JobCleanupJob {
	return &JobCleanupJob{jobs: jobs, maxAge: maxAge}
}

func (j *JobCleanupJob) Name() string {
	return "summary_job_cleanup"
}

func (j *JobCleanupJob) Run(ctx context.Context) error {
	if j.jobs == nil {
		return nil
	}
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	removed := j.jobs.Cleanup(maxAge)
	if removed > 0 {
		logutil.GetLogger(ctx).Info("stale summary jobs removed", zap.Int("count", removed))
	}
	return nil
}
