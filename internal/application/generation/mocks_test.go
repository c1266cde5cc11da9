package generation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// MockJobRepository is a mock implementation of generation.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*generation.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generation.Job), args.Error(1)
}

func (m *MockJobRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*generation.Job, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generation.Job), args.Error(1)
}

func (m *MockJobRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]generation.Job, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]generation.Job), args.Error(1)
}

func (m *MockJobRepository) ClaimNextQueued(ctx context.Context, workerID string, now time.Time) (*generation.Job, error) {
	args := m.Called(ctx, workerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generation.Job), args.Error(1)
}

func (m *MockJobRepository) RequeueStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, job *generation.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) SaveWithLock(ctx context.Context, job *generation.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) SaveStep(ctx context.Context, step *generation.Step) error {
	args := m.Called(ctx, step)
	return args.Error(0)
}

func (m *MockJobRepository) IsCancelRequested(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) CountByStatus(ctx context.Context, status generation.JobStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepository is a mock implementation of client.Repository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindBySlug(ctx context.Context, agencyID uuid.UUID, slug string) (*client.Client, error) {
	args := m.Called(ctx, agencyID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]client.Client, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]client.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) ExistsBySlug(ctx context.Context, agencyID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, agencyID, slug)
	return args.Bool(0), args.Error(1)
}

// MockLedgerRepository is a mock implementation of billing.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, agencyID uuid.UUID, apply func(balanceBefore int64) (*billing.LedgerEntry, error)) (*billing.LedgerEntry, error) {
	args := m.Called(ctx, agencyID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return apply(args.Get(0).(int64))
}

func (m *MockLedgerRepository) Balance(ctx context.Context, agencyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, agencyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]billing.LedgerEntry, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]billing.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// fakeGenerator is a scripted ContentGenerator for runner tests
type fakeGenerator struct {
	tokensPerStep int
	failOn        generation.StepKind
	failErr       error
	failUsage     Usage // tokens burned before the scripted failure
	calls         []generation.StepKind
}

func (f *fakeGenerator) usage() Usage {
	return Usage{PromptTokens: 0, CompletionTokens: f.tokensPerStep}
}

func (f *fakeGenerator) GenerateIdea(ctx context.Context, stepCtx StepContext) (*IdeaOutput, Usage, error) {
	f.calls = append(f.calls, generation.StepKindIdea)
	if f.failOn == generation.StepKindIdea {
		return nil, f.failUsage, f.failErr
	}
	return &IdeaOutput{Concept: "Concept", Audience: "Audience"}, f.usage(), nil
}

func (f *fakeGenerator) GenerateCopy(ctx context.Context, stepCtx StepContext) (*CopyOutput, Usage, error) {
	f.calls = append(f.calls, generation.StepKindCopy)
	if f.failOn == generation.StepKindCopy {
		return nil, f.failUsage, f.failErr
	}
	return &CopyOutput{Title: "Title", Body: "Body"}, f.usage(), nil
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, stepCtx StepContext) (*ImageOutput, Usage, error) {
	f.calls = append(f.calls, generation.StepKindImage)
	if f.failOn == generation.StepKindImage {
		return nil, f.failUsage, f.failErr
	}
	return &ImageOutput{Prompt: "Prompt", AltText: "Alt"}, f.usage(), nil
}

func (f *fakeGenerator) GenerateDesign(ctx context.Context, stepCtx StepContext) (*DesignOutput, Usage, error) {
	f.calls = append(f.calls, generation.StepKindDesign)
	if f.failOn == generation.StepKindDesign {
		return nil, f.failUsage, f.failErr
	}
	return &DesignOutput{Layout: "Layout"}, f.usage(), nil
}

var (
	_ generation.JobRepository = (*MockJobRepository)(nil)
	_ client.Repository        = (*MockClientRepository)(nil)
	_ billing.LedgerRepository = (*MockLedgerRepository)(nil)
	_ ContentGenerator         = (*fakeGenerator)(nil)
)
