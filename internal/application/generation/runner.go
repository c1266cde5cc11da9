package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appbilling "github.com/agencyhub/backend/internal/application/billing"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// RunnerConfig configures job execution
type RunnerConfig struct {
	// RetryBackoff is the base delay before a retried job becomes
	// claimable again; it scales linearly with the attempt count
	RetryBackoff time.Duration

	// RetryClassifier decides whether a step error is worth retrying.
	// Defaults to retrying everything except context cancellation.
	RetryClassifier func(error) bool
}

// Runner executes claimed generation jobs: it walks the job's steps in
// order, feeds each step's output into the next, persists every
// transition and settles the token reservation at the end.
type Runner struct {
	jobRepo    generation.JobRepository
	clientRepo client.Repository
	generator  ContentGenerator
	tokens     *appbilling.TokenService
	events     shared.EventPublisher
	logger     *zap.Logger
	config     RunnerConfig
}

// NewRunner creates a new Runner
func NewRunner(
	jobRepo generation.JobRepository,
	clientRepo client.Repository,
	generator ContentGenerator,
	tokens *appbilling.TokenService,
	logger *zap.Logger,
	config RunnerConfig,
) *Runner {
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = 30 * time.Second
	}
	if config.RetryClassifier == nil {
		config.RetryClassifier = func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
	}
	return &Runner{
		jobRepo:    jobRepo,
		clientRepo: clientRepo,
		generator:  generator,
		tokens:     tokens,
		logger:     logger,
		config:     config,
	}
}

// SetEventPublisher sets the publisher for domain events
func (r *Runner) SetEventPublisher(publisher shared.EventPublisher) {
	r.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (r *Runner) publishEvents(ctx context.Context, job *generation.Job) {
	if r.events == nil {
		return
	}
	for _, event := range job.GetDomainEvents() {
		_ = r.events.Publish(ctx, event)
	}
	job.ClearDomainEvents()
}

// Run executes a claimed job to a terminal state or a retry requeue.
// The job must already be in the running state.
func (r *Runner) Run(ctx context.Context, job *generation.Job) error {
	logger := r.logger.With(
		zap.String("job_id", job.ID.String()),
		zap.String("agency_id", job.AgencyID.String()),
		zap.Int("attempt", job.Attempts))

	stepCtx, err := r.buildStepContext(ctx, job)
	if err != nil {
		return r.handleStepFailure(ctx, job, nil, err, logger)
	}

	for i := range job.Steps {
		step := &job.Steps[i]
		if step.IsResolved() {
			// Completed on a previous attempt; replay its output into
			// the pipeline context.
			if step.Status == generation.StepStatusCompleted {
				if err := r.absorbOutput(stepCtx, step); err != nil {
					logger.Warn("Failed to reuse output of completed step",
						zap.String("step", string(step.Kind)),
						zap.Error(err))
				}
			}
			continue
		}

		cancelled, err := r.jobRepo.IsCancelRequested(ctx, job.ID)
		if err != nil {
			logger.Warn("Failed to read cancellation flag", zap.Error(err))
		}
		if cancelled {
			return r.finishCancelled(ctx, job, logger)
		}

		if err := r.runStep(ctx, job, step, stepCtx); err != nil {
			return r.handleStepFailure(ctx, job, step, err, logger)
		}

		logger.Info("Completed generation step",
			zap.String("step", string(step.Kind)),
			zap.Int64("tokens_used", step.TokensUsed))
	}

	consumed := job.ConsumedTokens()
	if err := job.Complete(consumed); err != nil {
		return err
	}
	if err := r.jobRepo.SaveWithLock(ctx, job); err != nil {
		return fmt.Errorf("failed to save completed job: %w", err)
	}
	r.publishEvents(ctx, job)

	if err := r.tokens.Settle(ctx, job.AgencyID, job.EstimatedTokens, consumed, job.ID); err != nil {
		logger.Error("Failed to settle token reservation", zap.Error(err))
	}

	logger.Info("Completed generation job",
		zap.Int64("actual_tokens", consumed))

	return nil
}

// buildStepContext assembles the brand-aware pipeline input for a job
func (r *Runner) buildStepContext(ctx context.Context, job *generation.Job) (*StepContext, error) {
	cl, err := r.clientRepo.FindByIDForAgency(ctx, job.AgencyID, job.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	return &StepContext{
		Brief:         job.Brief,
		BrandVoice:    cl.Brand.Voice,
		BrandKeywords: splitKeywords(cl.Brand.Keywords),
		Industry:      cl.Industry,
	}, nil
}

func splitKeywords(keywords string) []string {
	if strings.TrimSpace(keywords) == "" {
		return nil
	}
	parts := strings.Split(keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// runStep executes one pipeline step and persists its transitions
func (r *Runner) runStep(ctx context.Context, job *generation.Job, step *generation.Step, stepCtx *StepContext) error {
	input, err := json.Marshal(stepCtx)
	if err != nil {
		return fmt.Errorf("failed to marshal step input: %w", err)
	}

	if err := step.Start(string(input)); err != nil {
		return err
	}
	if err := r.jobRepo.SaveStep(ctx, step); err != nil {
		return fmt.Errorf("failed to save step start: %w", err)
	}

	output, usage, err := r.dispatch(ctx, step.Kind, stepCtx)
	if err != nil {
		// The generator may have burned tokens before erroring; keep
		// them on the step so settlement charges for them.
		if failErr := step.Fail(err.Error(), usage.Total()); failErr == nil {
			if saveErr := r.jobRepo.SaveStep(ctx, step); saveErr != nil {
				r.logger.Error("Failed to save step failure", zap.Error(saveErr))
			}
		}
		return err
	}

	outputJSON, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("failed to marshal step output: %w", err)
	}

	if err := step.Complete(string(outputJSON), usage.Total()); err != nil {
		return err
	}
	if err := r.jobRepo.SaveStep(ctx, step); err != nil {
		return fmt.Errorf("failed to save step completion: %w", err)
	}

	return nil
}

// dispatch routes a step to the generator and feeds its output forward
func (r *Runner) dispatch(ctx context.Context, kind generation.StepKind, stepCtx *StepContext) (any, Usage, error) {
	switch kind {
	case generation.StepKindIdea:
		out, usage, err := r.generator.GenerateIdea(ctx, *stepCtx)
		if err != nil {
			return nil, usage, err
		}
		stepCtx.Idea = out
		return out, usage, nil
	case generation.StepKindCopy:
		out, usage, err := r.generator.GenerateCopy(ctx, *stepCtx)
		if err != nil {
			return nil, usage, err
		}
		stepCtx.Copy = out
		return out, usage, nil
	case generation.StepKindImage:
		out, usage, err := r.generator.GenerateImage(ctx, *stepCtx)
		return out, usage, err
	case generation.StepKindDesign:
		out, usage, err := r.generator.GenerateDesign(ctx, *stepCtx)
		return out, usage, err
	default:
		return nil, Usage{}, fmt.Errorf("unknown step kind: %s", kind)
	}
}

// absorbOutput replays the persisted output of a completed step into
// the pipeline context on retry attempts
func (r *Runner) absorbOutput(stepCtx *StepContext, step *generation.Step) error {
	switch step.Kind {
	case generation.StepKindIdea:
		var out IdeaOutput
		if err := json.Unmarshal([]byte(step.OutputJSON), &out); err != nil {
			return err
		}
		stepCtx.Idea = &out
	case generation.StepKindCopy:
		var out CopyOutput
		if err := json.Unmarshal([]byte(step.OutputJSON), &out); err != nil {
			return err
		}
		stepCtx.Copy = &out
	}
	return nil
}

// handleStepFailure requeues the job with backoff when the error is
// retryable and attempts remain, otherwise fails it permanently and
// settles the reservation
func (r *Runner) handleStepFailure(ctx context.Context, job *generation.Job, step *generation.Step, cause error, logger *zap.Logger) error {
	consumed := job.ConsumedTokens()

	if r.config.RetryClassifier(cause) && job.ShouldRetry() {
		if step != nil {
			step.ResetForRetry()
		}
		backoff := r.config.RetryBackoff * time.Duration(job.Attempts)
		if err := job.ScheduleRetry(cause.Error(), backoff); err != nil {
			return err
		}
		if err := r.jobRepo.SaveWithLock(ctx, job); err != nil {
			return fmt.Errorf("failed to requeue job: %w", err)
		}

		logger.Warn("Requeued generation job after step failure",
			zap.Duration("backoff", backoff),
			zap.Error(cause))
		return nil
	}

	if err := job.Fail(cause.Error(), consumed); err != nil {
		return err
	}
	if err := r.jobRepo.SaveWithLock(ctx, job); err != nil {
		return fmt.Errorf("failed to save failed job: %w", err)
	}
	r.publishEvents(ctx, job)

	if err := r.tokens.Settle(ctx, job.AgencyID, job.EstimatedTokens, consumed, job.ID); err != nil {
		logger.Error("Failed to settle token reservation", zap.Error(err))
	}

	logger.Error("Generation job failed permanently",
		zap.Int64("consumed_tokens", consumed),
		zap.Error(cause))

	return nil
}

// finishCancelled honors a cooperative cancellation request
func (r *Runner) finishCancelled(ctx context.Context, job *generation.Job, logger *zap.Logger) error {
	consumed := job.ConsumedTokens()

	if err := job.ConfirmCancelled(consumed); err != nil {
		return err
	}
	if err := r.jobRepo.SaveWithLock(ctx, job); err != nil {
		return fmt.Errorf("failed to save cancelled job: %w", err)
	}
	r.publishEvents(ctx, job)

	if err := r.tokens.Settle(ctx, job.AgencyID, job.EstimatedTokens, consumed, job.ID); err != nil {
		logger.Error("Failed to settle token reservation", zap.Error(err))
	}

	logger.Info("Cancelled generation job at step boundary",
		zap.Int64("consumed_tokens", consumed))

	return nil
}
