package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
)

type invitationServiceEnv struct {
	service     *InvitationService
	invitations *MockInvitationRepository
	users       *MockUserRepository
	subs        *MockSubscriptionRepository
	auditLog    *auditRepoStub
}

func newInvitationServiceEnv() *invitationServiceEnv {
	env := &invitationServiceEnv{
		invitations: new(MockInvitationRepository),
		users:       new(MockUserRepository),
		subs:        new(MockSubscriptionRepository),
		auditLog:    &auditRepoStub{},
	}
	env.service = NewInvitationService(InvitationServiceConfig{
		InvitationRepo:   env.invitations,
		UserRepo:         env.users,
		SubscriptionRepo: env.subs,
		JWTService:       newTestJWTService(),
		Audit:            newTestAuditService(env.auditLog),
		Logger:           zap.NewNop(),
	})
	return env
}

func TestInvitationService_CreateInvitation(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()

	input := CreateInvitationInput{
		Email:     "kim@northwind.example",
		Role:      string(identity.RoleCollaborator),
		InvitedBy: uuid.New(),
	}

	t.Run("creates an invitation and returns the raw token once", func(t *testing.T) {
		env := newInvitationServiceEnv()

		env.users.On("ExistsByEmail", ctx, agencyID, input.Email).Return(false, nil)
		env.invitations.On("FindPendingByEmail", ctx, agencyID, input.Email).Return(nil, shared.ErrNotFound)

		var saved *identity.Invitation
		env.invitations.On("Save", ctx, mock.AnythingOfType("*identity.Invitation")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*identity.Invitation)
		}).Return(nil)

		dto, err := env.service.CreateInvitation(ctx, agencyID, input)

		require.NoError(t, err)
		assert.NotEmpty(t, dto.Token)
		require.NotNil(t, saved)
		// Only the hash is persisted.
		assert.Equal(t, identity.HashInvitationToken(dto.Token), saved.TokenHash)
		assert.NotEqual(t, dto.Token, saved.TokenHash)
	})

	t.Run("rejects a second pending invitation for the same email", func(t *testing.T) {
		env := newInvitationServiceEnv()

		pending, _, err := identity.NewInvitation(agencyID, input.InvitedBy, input.Email, identity.RoleCollaborator)
		require.NoError(t, err)

		env.users.On("ExistsByEmail", ctx, agencyID, input.Email).Return(false, nil)
		env.invitations.On("FindPendingByEmail", ctx, agencyID, input.Email).Return(pending, nil)

		_, err = env.service.CreateInvitation(ctx, agencyID, input)

		assert.Error(t, err)
		env.invitations.AssertNotCalled(t, "Save")
	})

	t.Run("rejects emails that already belong to a user", func(t *testing.T) {
		env := newInvitationServiceEnv()

		env.users.On("ExistsByEmail", ctx, agencyID, input.Email).Return(true, nil)

		_, err := env.service.CreateInvitation(ctx, agencyID, input)

		assert.Error(t, err)
	})

	t.Run("rejects inviting an OWNER", func(t *testing.T) {
		env := newInvitationServiceEnv()
		ownerInput := input
		ownerInput.Role = string(identity.RoleOwner)

		env.users.On("ExistsByEmail", ctx, agencyID, input.Email).Return(false, nil)
		env.invitations.On("FindPendingByEmail", ctx, agencyID, input.Email).Return(nil, shared.ErrNotFound)

		_, err := env.service.CreateInvitation(ctx, agencyID, ownerInput)

		assert.Error(t, err)
	})
}

func TestInvitationService_AcceptInvitation(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()

	t.Run("creates the user and signs them in", func(t *testing.T) {
		env := newInvitationServiceEnv()

		invitation, token, err := identity.NewInvitation(agencyID, uuid.New(), "kim@northwind.example", identity.RoleManager)
		require.NoError(t, err)

		env.invitations.On("FindByTokenHash", ctx, identity.HashInvitationToken(token)).Return(invitation, nil)
		env.subs.On("FindByAgency", ctx, agencyID).Return(trialSub(t, agencyID), nil)
		env.users.On("CountForAgency", ctx, agencyID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)
		env.users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		env.invitations.On("SaveWithLock", ctx, invitation).Return(nil)

		result, err := env.service.AcceptInvitation(ctx, AcceptInvitationInput{
			Token:    token,
			Name:     "Kim Soto",
			Password: "sup3rsecret",
		})

		require.NoError(t, err)
		assert.Equal(t, string(identity.RoleManager), result.User.Role)
		assert.Equal(t, agencyID, result.User.AgencyID)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.Equal(t, identity.InvitationStatusAccepted, invitation.Status)
	})

	t.Run("marks expired invitations on first touch", func(t *testing.T) {
		env := newInvitationServiceEnv()

		invitation, token, err := identity.NewInvitation(agencyID, uuid.New(), "kim@northwind.example", identity.RoleManager)
		require.NoError(t, err)
		invitation.ExpiresAt = time.Now().Add(-time.Hour)

		env.invitations.On("FindByTokenHash", ctx, identity.HashInvitationToken(token)).Return(invitation, nil)
		env.invitations.On("SaveWithLock", ctx, invitation).Return(nil)

		_, err = env.service.AcceptInvitation(ctx, AcceptInvitationInput{
			Token:    token,
			Name:     "Kim Soto",
			Password: "sup3rsecret",
		})

		assert.Error(t, err)
		assert.Equal(t, identity.InvitationStatusExpired, invitation.Status)
		env.users.AssertNotCalled(t, "Save")
	})

	t.Run("rejects unknown tokens", func(t *testing.T) {
		env := newInvitationServiceEnv()

		env.invitations.On("FindByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound)

		_, err := env.service.AcceptInvitation(ctx, AcceptInvitationInput{
			Token:    "bogus",
			Name:     "Kim Soto",
			Password: "sup3rsecret",
		})

		assert.Error(t, err)
	})

	t.Run("enforces the plan's user limit", func(t *testing.T) {
		env := newInvitationServiceEnv()

		invitation, token, err := identity.NewInvitation(agencyID, uuid.New(), "kim@northwind.example", identity.RoleManager)
		require.NoError(t, err)

		env.invitations.On("FindByTokenHash", ctx, identity.HashInvitationToken(token)).Return(invitation, nil)
		env.subs.On("FindByAgency", ctx, agencyID).Return(trialSub(t, agencyID), nil)
		env.users.On("CountForAgency", ctx, agencyID, mock.AnythingOfType("shared.Filter")).Return(int64(3), nil)

		_, err = env.service.AcceptInvitation(ctx, AcceptInvitationInput{
			Token:    token,
			Name:     "Kim Soto",
			Password: "sup3rsecret",
		})

		assert.ErrorIs(t, err, shared.ErrPlanLimitReached)
		env.users.AssertNotCalled(t, "Save")
	})
}

func TestInvitationService_RevokeInvitation(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newInvitationServiceEnv()

	invitation, _, err := identity.NewInvitation(agencyID, uuid.New(), "kim@northwind.example", identity.RoleCollaborator)
	require.NoError(t, err)

	env.invitations.On("FindByIDForAgency", ctx, agencyID, invitation.ID).Return(invitation, nil)
	env.invitations.On("SaveWithLock", ctx, invitation).Return(nil)

	dto, err := env.service.RevokeInvitation(ctx, agencyID, uuid.New(), invitation.ID)

	require.NoError(t, err)
	assert.Equal(t, string(identity.InvitationStatusRevoked), dto.Status)
}
