package generation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/agencyhub/backend/internal/application/billing"
	"github.com/agencyhub/backend/internal/domain/generation"
)

type runnerEnv struct {
	jobs      *MockJobRepository
	clients   *MockClientRepository
	ledger    *MockLedgerRepository
	generator *fakeGenerator
}

func (e *runnerEnv) runner(config RunnerConfig) *Runner {
	logger := zap.NewNop()
	tokens := appbilling.NewTokenService(e.ledger, logger)
	return NewRunner(e.jobs, e.clients, e.generator, tokens, logger, config)
}

func newRunnerEnv() *runnerEnv {
	return &runnerEnv{
		jobs:      new(MockJobRepository),
		clients:   new(MockClientRepository),
		ledger:    new(MockLedgerRepository),
		generator: &fakeGenerator{tokensPerStep: 100},
	}
}

func claimedJob(t *testing.T, agencyID uuid.UUID, clientID uuid.UUID, jobType generation.JobType) *generation.Job {
	job, err := generation.NewJob(agencyID, clientID, uuid.New(), jobType, "Launch brief.", EstimateTokens(jobType))
	require.NoError(t, err)
	require.NoError(t, job.StartRun("worker-1"))
	return job
}

func TestRunner_Run_CompletesAllSteps(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()
	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeFullCampaign)

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil)
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)
	// Settlement: release of the reservation, then consume of actual usage.
	env.ledger.On("Append", ctx, agencyID).Return(int64(0), nil).Once()
	env.ledger.On("Append", ctx, agencyID).Return(int64(10000), nil).Once()

	err := env.runner(RunnerConfig{}).Run(ctx, job)

	assert.NoError(t, err)
	assert.Equal(t, generation.JobStatusCompleted, job.Status)
	assert.Equal(t, int64(400), job.ActualTokens)
	assert.Equal(t, []generation.StepKind{
		generation.StepKindIdea,
		generation.StepKindCopy,
		generation.StepKindImage,
		generation.StepKindDesign,
	}, env.generator.calls)

	for _, step := range job.Steps {
		assert.Equal(t, generation.StepStatusCompleted, step.Status)
		assert.NotEmpty(t, step.OutputJSON)
	}
	env.ledger.AssertNumberOfCalls(t, "Append", 2)
}

func TestRunner_Run_SinglePostSkipsIdea(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()
	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeSinglePost)

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil)
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)
	env.ledger.On("Append", ctx, agencyID).Return(int64(0), nil).Once()
	env.ledger.On("Append", ctx, agencyID).Return(int64(7500), nil).Once()

	err := env.runner(RunnerConfig{}).Run(ctx, job)

	assert.NoError(t, err)
	assert.NotContains(t, env.generator.calls, generation.StepKindIdea)
	assert.Len(t, env.generator.calls, 3)
}

func TestRunner_Run_RequeuesOnRetryableFailure(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()
	env.generator.failOn = generation.StepKindCopy
	env.generator.failErr = assert.AnError

	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeFullCampaign)

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil)
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)

	err := env.runner(RunnerConfig{RetryBackoff: time.Minute}).Run(ctx, job)

	assert.NoError(t, err)
	assert.Equal(t, generation.JobStatusQueued, job.Status)
	assert.True(t, job.RunAfter.After(time.Now()))
	// The idea step stays completed; the copy step is back to pending.
	assert.Equal(t, generation.StepStatusCompleted, job.Steps[0].Status)
	assert.Equal(t, generation.StepStatusPending, job.Steps[1].Status)
	// Reservation stays held across retries.
	env.ledger.AssertNotCalled(t, "Append")
}

func TestRunner_Run_FailsPermanentlyWhenNotRetryable(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()
	env.generator.failOn = generation.StepKindIdea
	env.generator.failErr = assert.AnError

	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeFullCampaign)

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil)
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)
	env.ledger.On("Append", ctx, agencyID).Return(int64(0), nil)

	config := RunnerConfig{RetryClassifier: func(error) bool { return false }}
	err := env.runner(config).Run(ctx, job)

	assert.NoError(t, err)
	assert.Equal(t, generation.JobStatusFailed, job.Status)
	assert.NotEmpty(t, job.LastError)
	assert.Equal(t, generation.StepStatusFailed, job.Steps[0].Status)
	// Only the release entry: nothing was consumed.
	env.ledger.AssertNumberOfCalls(t, "Append", 1)
}

func TestRunner_Run_BillsTokensBurnedByFailedStep(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()
	env.generator.failOn = generation.StepKindCopy
	env.generator.failErr = assert.AnError
	env.generator.failUsage = Usage{PromptTokens: 40, CompletionTokens: 0}

	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeFullCampaign)

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil)
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)
	env.ledger.On("Append", ctx, agencyID).Return(int64(0), nil).Once()
	env.ledger.On("Append", ctx, agencyID).Return(int64(10000), nil).Once()

	config := RunnerConfig{RetryClassifier: func(error) bool { return false }}
	err := env.runner(config).Run(ctx, job)

	assert.NoError(t, err)
	assert.Equal(t, generation.JobStatusFailed, job.Status)
	// The idea step's 100 tokens plus the 40 the copy step burned
	// before erroring are both settled.
	assert.Equal(t, int64(40), job.Steps[1].TokensUsed)
	assert.Equal(t, int64(140), job.ActualTokens)
	env.ledger.AssertNumberOfCalls(t, "Append", 2)
}

func TestRunner_Run_FailsPermanentlyAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()
	env.generator.failOn = generation.StepKindIdea
	env.generator.failErr = assert.AnError

	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeFullCampaign)
	job.Attempts = job.MaxAttempts

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil)
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)
	env.ledger.On("Append", ctx, agencyID).Return(int64(0), nil)

	err := env.runner(RunnerConfig{}).Run(ctx, job)

	assert.NoError(t, err)
	assert.Equal(t, generation.JobStatusFailed, job.Status)
}

func TestRunner_Run_HonorsCancellationAtStepBoundary(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()

	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeFullCampaign)

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	// Cancellation arrives before the second step.
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil).Once()
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(true, nil).Once()
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)
	env.ledger.On("Append", ctx, agencyID).Return(int64(0), nil).Once()
	env.ledger.On("Append", ctx, agencyID).Return(int64(10000), nil).Once()

	err := env.runner(RunnerConfig{}).Run(ctx, job)

	assert.NoError(t, err)
	assert.Equal(t, generation.JobStatusCancelled, job.Status)
	assert.Equal(t, []generation.StepKind{generation.StepKindIdea}, env.generator.calls)
	// Tokens used by the finished step are still billed.
	assert.Equal(t, int64(100), job.ActualTokens)
}

func TestRunner_Run_ReusesCompletedStepOutputsOnRetry(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newRunnerEnv()

	cl := activeClient(t, agencyID)
	job := claimedJob(t, agencyID, cl.ID, generation.JobTypeFullCampaign)
	// Simulate a prior attempt that finished the idea step.
	require.NoError(t, job.Steps[0].Start("{}"))
	require.NoError(t, job.Steps[0].Complete(`{"concept":"Prior concept","angles":null,"audience":"Prior audience"}`, 80))

	env.clients.On("FindByIDForAgency", ctx, agencyID, cl.ID).Return(cl, nil)
	env.jobs.On("IsCancelRequested", ctx, job.ID).Return(false, nil)
	env.jobs.On("SaveStep", ctx, mock.AnythingOfType("*generation.Step")).Return(nil)
	env.jobs.On("SaveWithLock", ctx, job).Return(nil)
	env.ledger.On("Append", ctx, agencyID).Return(int64(0), nil).Once()
	env.ledger.On("Append", ctx, agencyID).Return(int64(10000), nil).Once()

	err := env.runner(RunnerConfig{}).Run(ctx, job)

	assert.NoError(t, err)
	assert.Equal(t, generation.JobStatusCompleted, job.Status)
	assert.NotContains(t, env.generator.calls, generation.StepKindIdea)
	// 80 from the prior attempt plus 3 fresh steps at 100 each.
	assert.Equal(t, int64(380), job.ActualTokens)
}
