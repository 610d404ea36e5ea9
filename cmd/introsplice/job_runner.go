package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"introsplice/internal/history"
	"introsplice/internal/intro"
	"introsplice/internal/logging"
	"introsplice/internal/services"
)

// recordingRunner runs pipeline jobs and appends each outcome to the ledger.
// A nil store disables recording.
type recordingRunner struct {
	pipeline *intro.Pipeline
	store    *history.Store
	logger   *slog.Logger
}

func (r *recordingRunner) Run(ctx context.Context, job intro.RenderJob) (intro.RenderResult, error) {
	started := time.Now()
	result, err := r.pipeline.Run(ctx, job)
	if r.store == nil {
		return result, err
	}

	entry := history.Entry{
		JobID:             result.JobID,
		VideoPath:         job.VideoPath,
		ImagePath:         job.ImagePath,
		Style:             string(job.Transition.Style),
		IntroSeconds:      job.IntroSeconds,
		TransitionSeconds: job.Transition.DurationSeconds,
		Status:            history.StatusSucceeded,
		OutputPath:        result.OutputPath,
		StartedAt:         started,
		FinishedAt:        time.Now(),
	}
	if !result.StartedAt.IsZero() {
		entry.StartedAt = result.StartedAt
	}
	if entry.JobID == "" {
		entry.JobID = uuid.NewString()
	}
	if err != nil {
		entry.Status = services.FailureStatus(err)
		entry.ErrorMessage = err.Error()
	}

	// The ledger uses its own context so cancelled jobs are still recorded.
	if _, recordErr := r.store.Record(context.WithoutCancel(ctx), entry); recordErr != nil {
		r.logger.Warn("history record failed",
			logging.String(logging.FieldJobID, entry.JobID),
			logging.Error(recordErr),
		)
	}
	return result, err
}
