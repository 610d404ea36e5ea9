package harness

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"introsplice/internal/intro"
	"introsplice/internal/logging"
)

// JobRunner executes one render job.
type JobRunner interface {
	Run(ctx context.Context, job intro.RenderJob) (intro.RenderResult, error)
}

// NamedJob pairs a job with the batch name it was expanded from.
type NamedJob struct {
	Name string
	Job  intro.RenderJob
}

// Outcome is the result of one batch job.
type Outcome struct {
	Name    string
	Job     intro.RenderJob
	Result  intro.RenderResult
	Err     error
	Elapsed time.Duration
}

// Succeeded reports whether the job produced an output.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Summary counts batch outcomes.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Run executes jobs with at most concurrency in flight and returns one outcome
// per job in input order. A failing job never stops the others; cancelling ctx
// stops jobs that have not started.
func Run(ctx context.Context, runner JobRunner, jobs []NamedJob, concurrency int, logger *slog.Logger) []Outcome {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "batch")

	outcomes := make([]Outcome, len(jobs))
	group := new(errgroup.Group)
	group.SetLimit(concurrency)

	for i, named := range jobs {
		outcomes[i] = Outcome{Name: named.Name, Job: named.Job}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			started := time.Now()
			result, err := runner.Run(ctx, named.Job)
			outcomes[i].Result = result
			outcomes[i].Err = err
			outcomes[i].Elapsed = time.Since(started)
			if err != nil {
				logger.Error("batch job failed",
					logging.String("name", named.Name),
					logging.String(logging.FieldJobID, result.JobID),
					logging.Error(err),
				)
				return nil
			}
			logger.Info("batch job completed",
				logging.String("name", named.Name),
				logging.String(logging.FieldJobID, result.JobID),
				logging.String("output", result.OutputPath),
			)
			return nil
		})
	}
	_ = group.Wait()

	summary := Summarize(outcomes)
	logger.Info("batch finished",
		logging.Int("total", summary.Total),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
	)
	return outcomes
}
