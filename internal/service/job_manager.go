package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// SummaryJob is the in-memory record of one background generation. Jobs are
// not persisted; a restart loses them, but the summaries they produced are in
// the database.
type SummaryJob struct {
	ID          string         `json:"id"`
	NoteID      string         `json:"note_id"`
	Status      JobStatus      `json:"status"`
	Progress    int            `json:"progress"`
	Summary     *model.Summary `json:"summary,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// JobManager runs summary generations on background goroutines and tracks
// their state for polling. The worker persists the summary before marking the
// job completed, so a completed job always carries a stored record.
type JobManager struct {
	mu        sync.RWMutex
	jobs      map[string]*SummaryJob
	summaries *SummaryService
}

func NewJobManager(summaries *SummaryService) *JobManager {
	return &JobManager{
		jobs:      map[string]*SummaryJob{},
		summaries: summaries,
	}
}

// Submit registers a pending job and starts a worker for it. The returned
// snapshot is copied before the worker starts, so the caller never reads a
// record the worker is mutating.
func (m *JobManager) Submit(note *model.Note, req SummaryRequest) *SummaryJob {
	job := &SummaryJob{
		ID:        uuid.NewString(),
		NoteID:    note.ID,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
	}
	snapshot := *job
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	go m.run(job.ID, note, req)
	return &snapshot
}

// SubmitCompleted registers an already-finished job wrapping a stored
// summary, so callers that got a cached result still poll the same way.
func (m *JobManager) SubmitCompleted(noteID string, summary *model.Summary) *SummaryJob {
	now := time.Now()
	job := &SummaryJob{
		ID:          uuid.NewString(),
		NoteID:      noteID,
		Status:      JobStatusCompleted,
		Progress:    100,
		Summary:     summary,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	snapshot := *job
	return &snapshot
}

func (m *JobManager) run(jobID string, note *model.Note, req SummaryRequest) {
	ctx := context.Background()
	m.update(jobID, func(job *SummaryJob) {
		job.Status = JobStatusProcessing
		job.Progress = 10
	})
	// The submit path already served any reusable stored summary, so the
	// worker always generates.
	req.ForceRegenerate = true
	summary, err := m.summaries.Generate(ctx, note, req)
	now := time.Now()
	if err != nil {
		msg := classifyJobError(err)
		m.update(jobID, func(job *SummaryJob) {
			job.Status = JobStatusFailed
			job.Error = msg
			job.CompletedAt = &now
		})
		logutil.GetLogger(ctx).Error("summary job failed",
			zap.String("job_id", jobID), zap.String("note_id", note.ID), zap.Error(err))
		return
	}
	m.update(jobID, func(job *SummaryJob) {
		job.Status = JobStatusCompleted
		job.Progress = 100
		job.Summary = summary
		job.CompletedAt = &now
	})
	logutil.GetLogger(ctx).Info("summary job completed",
		zap.String("job_id", jobID), zap.String("note_id", note.ID), zap.String("summary_id", summary.ID))
}

func (m *JobManager) update(jobID string, apply func(job *SummaryJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[jobID]; ok {
		apply(job)
	}
}

// Get returns a snapshot of the job.
func (m *JobManager) Get(jobID string) (*SummaryJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	snapshot := *job
	return &snapshot, nil
}

// Cleanup drops finished jobs whose completion is older than maxAge and
// returns how many were removed. Jobs still pending or processing are left
// alone so a running worker never updates a deleted record.
func (m *JobManager) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, job := range m.jobs {
		if job.Status != JobStatusCompleted && job.Status != JobStatusFailed {
			continue
		}
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

// classifyJobError turns provider failures into messages safe to show to the
// caller. Anything unrecognized passes through as-is.
func classifyJobError(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "rate_limit") || strings.Contains(msg, "429"):
		return "AI service rate limit reached. Please wait a few minutes and try again."
	case strings.Contains(lower, "api_key") || strings.Contains(lower, "api key") || strings.Contains(lower, "authentication"):
		return "AI service authentication error. Please check the API configuration."
	default:
		return msg
	}
}
