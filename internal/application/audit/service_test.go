package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// MockRepository is a mock implementation of audit.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, log *audit.Log) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]audit.Log), args.Error(1)
}

func (m *MockRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

var _ audit.Repository = (*MockRepository)(nil)

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	actorID := uuid.New()

	t.Run("saves an entry with JSON metadata", func(t *testing.T) {
		repo := new(MockRepository)
		service := NewService(repo, zap.NewNop())

		var saved *audit.Log
		repo.On("Save", ctx, mock.AnythingOfType("*audit.Log")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*audit.Log)
		}).Return(nil)

		service.Record(ctx, Entry{
			AgencyID:   agencyID,
			ActorID:    &actorID,
			Action:     audit.ActionClientCreated,
			EntityType: "client",
			EntityID:   uuid.New(),
			Metadata:   map[string]interface{}{"name": "Acme Coffee"},
			RequestIP:  "10.0.0.1",
		})

		require.NotNil(t, saved)
		assert.Equal(t, audit.ActionClientCreated, saved.Action)
		assert.JSONEq(t, `{"name":"Acme Coffee"}`, saved.Metadata)
		assert.Equal(t, "10.0.0.1", saved.RequestIP)
	})

	t.Run("swallows save failures", func(t *testing.T) {
		repo := new(MockRepository)
		service := NewService(repo, zap.NewNop())

		repo.On("Save", ctx, mock.AnythingOfType("*audit.Log")).Return(assert.AnError)

		service.Record(ctx, Entry{
			AgencyID:   agencyID,
			Action:     audit.ActionPostPublished,
			EntityType: "post",
			EntityID:   uuid.New(),
		})

		repo.AssertExpectations(t)
	})

	t.Run("skips entries that fail domain validation", func(t *testing.T) {
		repo := new(MockRepository)
		service := NewService(repo, zap.NewNop())

		service.Record(ctx, Entry{
			AgencyID:   agencyID,
			Action:     "",
			EntityType: "client",
			EntityID:   uuid.New(),
		})

		repo.AssertNotCalled(t, "Save")
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()

	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	log, err := audit.NewLog(agencyID, nil, audit.ActionTokensGranted, "token_ledger", uuid.New(), "", "")
	require.NoError(t, err)

	filter := shared.DefaultFilter()
	repo.On("FindAllForAgency", ctx, agencyID, filter).Return([]audit.Log{*log}, nil)
	repo.On("CountForAgency", ctx, agencyID, filter).Return(int64(1), nil)

	result, err := service.List(ctx, agencyID, filter)

	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, audit.ActionTokensGranted, result.Items[0].Action)
}
