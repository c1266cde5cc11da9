package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/auth"
)

// InvitationService handles inviting people into an agency
type InvitationService struct {
	invitationRepo   identity.InvitationRepository
	userRepo         identity.UserRepository
	subscriptionRepo billing.SubscriptionRepository
	jwtService       *auth.JWTService
	audit            *appaudit.Service
	events           shared.EventPublisher
	logger           *zap.Logger
}

// InvitationServiceConfig holds dependencies for InvitationService
type InvitationServiceConfig struct {
	InvitationRepo   identity.InvitationRepository
	UserRepo         identity.UserRepository
	SubscriptionRepo billing.SubscriptionRepository
	JWTService       *auth.JWTService
	Audit            *appaudit.Service
	Logger           *zap.Logger
}

// NewInvitationService creates a new invitation service
func NewInvitationService(cfg InvitationServiceConfig) *InvitationService {
	return &InvitationService{
		invitationRepo:   cfg.InvitationRepo,
		userRepo:         cfg.UserRepo,
		subscriptionRepo: cfg.SubscriptionRepo,
		jwtService:       cfg.JWTService,
		audit:            cfg.Audit,
		logger:           cfg.Logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *InvitationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *InvitationService) publishEvents(ctx context.Context, invitation *identity.Invitation) {
	if s.events == nil {
		return
	}
	for _, event := range invitation.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	invitation.ClearDomainEvents()
}

// CreateInvitationInput contains input for creating an invitation
type CreateInvitationInput struct {
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required"`
	InvitedBy uuid.UUID
	RequestIP string
}

// CreateInvitation creates a pending invitation and returns the raw
// token exactly once. One pending invitation per email per agency.
func (s *InvitationService) CreateInvitation(ctx context.Context, agencyID uuid.UUID, input CreateInvitationInput) (*CreatedInvitationDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, agencyID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	pending, err := s.invitationRepo.FindPendingByEmail(ctx, agencyID, input.Email)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if pending != nil && pending.IsPending() {
		return nil, shared.NewDomainError("INVITATION_EXISTS", "A pending invitation for this email already exists")
	}

	invitation, token, err := identity.NewInvitation(agencyID, input.InvitedBy, input.Email, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}

	if err := s.invitationRepo.Save(ctx, invitation); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invitation)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.InvitedBy,
		Action:     audit.ActionInviteCreated,
		EntityType: "invitation",
		EntityID:   invitation.ID,
		Metadata:   map[string]interface{}{"email": invitation.Email, "role": string(invitation.Role)},
		RequestIP:  input.RequestIP,
	})

	return &CreatedInvitationDTO{
		InvitationDTO: *ToInvitationDTO(invitation),
		Token:         token,
	}, nil
}

// ListInvitations returns the agency's invitations
func (s *InvitationService) ListInvitations(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[InvitationDTO], error) {
	invitations, err := s.invitationRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.invitationRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]InvitationDTO, len(invitations))
	for i := range invitations {
		dtos[i] = *ToInvitationDTO(&invitations[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// RevokeInvitation revokes a pending invitation
func (s *InvitationService) RevokeInvitation(ctx context.Context, agencyID, actorID, invitationID uuid.UUID) (*InvitationDTO, error) {
	invitation, err := s.invitationRepo.FindByIDForAgency(ctx, agencyID, invitationID)
	if err != nil {
		return nil, err
	}

	if err := invitation.Revoke(); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.SaveWithLock(ctx, invitation); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionInviteRevoked,
		EntityType: "invitation",
		EntityID:   invitationID,
	})

	return ToInvitationDTO(invitation), nil
}

// AcceptInvitationInput contains input for accepting an invitation
type AcceptInvitationInput struct {
	Token     string `json:"token" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required"`
	RequestIP string `json:"-"`
}

// AcceptInvitation redeems an invite token, creates the user with the
// invited role, and signs them in. Expired tokens are marked expired on
// first touch.
func (s *InvitationService) AcceptInvitation(ctx context.Context, input AcceptInvitationInput) (*LoginResultDTO, error) {
	invitation, err := s.invitationRepo.FindByTokenHash(ctx, identity.HashInvitationToken(input.Token))
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVALID_INVITATION", "Invitation not found or no longer valid")
		}
		return nil, err
	}

	if invitation.Status == identity.InvitationStatusPending && invitation.IsExpired() {
		if err := invitation.MarkExpired(); err == nil {
			if saveErr := s.invitationRepo.SaveWithLock(ctx, invitation); saveErr != nil {
				s.logger.Error("Failed to mark invitation expired",
					zap.String("invitation_id", invitation.ID.String()),
					zap.Error(saveErr))
			}
		}
		return nil, shared.NewDomainError("INVITATION_EXPIRED", "Invitation has expired")
	}

	if err := checkUserLimit(ctx, s.subscriptionRepo, s.userRepo, invitation.AgencyID); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(invitation.AgencyID, invitation.Email, input.Name, input.Password, invitation.Role)
	if err != nil {
		return nil, err
	}

	if err := invitation.Accept(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.SaveWithLock(ctx, invitation); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invitation)

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		AgencyID: user.AgencyID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   invitation.AgencyID,
		ActorID:    &user.ID,
		Action:     audit.ActionInviteAccepted,
		EntityType: "invitation",
		EntityID:   invitation.ID,
		RequestIP:  input.RequestIP,
	})

	return &LoginResultDTO{
		User:   ToUserDTO(user),
		Tokens: tokens,
	}, nil
}
