package tour

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/tour"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByUser(ctx context.Context, agencyID, userID uuid.UUID) ([]tour.Progress, error) {
	args := m.Called(ctx, agencyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tour.Progress), args.Error(1)
}

func (m *MockRepository) FindByUserAndKey(ctx context.Context, agencyID, userID uuid.UUID, tourKey string) (*tour.Progress, error) {
	args := m.Called(ctx, agencyID, userID, tourKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Progress), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, progress *tour.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

var _ tour.Repository = (*MockRepository)(nil)

func TestService_RecordStep(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	userID := uuid.New()

	t.Run("creates progress on first touch", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUserAndKey", ctx, agencyID, userID, "dashboard-intro").Return(nil, shared.ErrNotFound)

		var saved *tour.Progress
		repo.On("Save", ctx, mock.AnythingOfType("*tour.Progress")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*tour.Progress)
		}).Return(nil)

		dto, err := svc.RecordStep(ctx, agencyID, userID, RecordStepInput{
			TourKey: "dashboard-intro",
			StepKey: "welcome",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"welcome"}, dto.CompletedSteps)
		assert.Equal(t, "welcome", dto.LastSeenStep)
		assert.False(t, dto.Completed)
		require.NotNil(t, saved)
		assert.Equal(t, userID, saved.UserID)
	})

	t.Run("appends steps to existing progress", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		existing, err := tour.NewProgress(agencyID, userID, "dashboard-intro")
		require.NoError(t, err)
		require.NoError(t, existing.RecordStep("welcome"))

		repo.On("FindByUserAndKey", ctx, agencyID, userID, "dashboard-intro").Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		dto, err := svc.RecordStep(ctx, agencyID, userID, RecordStepInput{
			TourKey:   "dashboard-intro",
			StepKey:   "create-client",
			Completed: true,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"welcome", "create-client"}, dto.CompletedSteps)
		assert.True(t, dto.Completed)
	})

	t.Run("rejects empty step keys", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUserAndKey", ctx, agencyID, userID, "dashboard-intro").Return(nil, shared.ErrNotFound)

		_, err := svc.RecordStep(ctx, agencyID, userID, RecordStepInput{
			TourKey: "dashboard-intro",
			StepKey: " ",
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestService_Dismiss(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	userID := uuid.New()

	t.Run("dismisses a tour never started", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUserAndKey", ctx, agencyID, userID, "dashboard-intro").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*tour.Progress")).Return(nil)

		dto, err := svc.Dismiss(ctx, agencyID, userID, "dashboard-intro")

		require.NoError(t, err)
		assert.True(t, dto.Dismissed)
		assert.False(t, dto.Completed)
	})
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	userID := uuid.New()

	t.Run("clears existing progress", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		existing, err := tour.NewProgress(agencyID, userID, "dashboard-intro")
		require.NoError(t, err)
		require.NoError(t, existing.RecordStep("welcome"))
		existing.MarkCompleted()

		repo.On("FindByUserAndKey", ctx, agencyID, userID, "dashboard-intro").Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		dto, err := svc.Reset(ctx, agencyID, userID, "dashboard-intro")

		require.NoError(t, err)
		assert.Empty(t, dto.CompletedSteps)
		assert.False(t, dto.Completed)
	})

	t.Run("resetting an unknown tour fails", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindByUserAndKey", ctx, agencyID, userID, "dashboard-intro").Return(nil, shared.ErrNotFound)

		_, err := svc.Reset(ctx, agencyID, userID, "dashboard-intro")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListProgress(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	userID := uuid.New()

	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	a, err := tour.NewProgress(agencyID, userID, "dashboard-intro")
	require.NoError(t, err)
	b, err := tour.NewProgress(agencyID, userID, "campaign-builder")
	require.NoError(t, err)

	repo.On("FindByUser", ctx, agencyID, userID).Return([]tour.Progress{*a, *b}, nil)

	dtos, err := svc.ListProgress(ctx, agencyID, userID)

	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "dashboard-intro", dtos[0].TourKey)
}
