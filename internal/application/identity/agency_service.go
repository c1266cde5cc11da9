// Package identity implements agency registration, user and team
// management, invitations, API keys, and authentication.
package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	appbilling "github.com/agencyhub/backend/internal/application/billing"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/auth"
)

// AgencyService handles agency registration and tenant management
type AgencyService struct {
	agencyRepo    identity.AgencyRepository
	userRepo      identity.UserRepository
	clientRepo    client.Repository
	campaignRepo  campaign.Repository
	subscriptions *appbilling.SubscriptionService
	jwtService    *auth.JWTService
	audit         *appaudit.Service
	events        shared.EventPublisher
	logger        *zap.Logger
	trialDays     int
}

// AgencyServiceConfig holds dependencies for AgencyService
type AgencyServiceConfig struct {
	AgencyRepo    identity.AgencyRepository
	UserRepo      identity.UserRepository
	ClientRepo    client.Repository
	CampaignRepo  campaign.Repository
	Subscriptions *appbilling.SubscriptionService
	JWTService    *auth.JWTService
	Audit         *appaudit.Service
	Logger        *zap.Logger
	TrialDays     int
}

// NewAgencyService creates a new agency service
func NewAgencyService(cfg AgencyServiceConfig) *AgencyService {
	trialDays := cfg.TrialDays
	if trialDays <= 0 {
		trialDays = 14
	}
	return &AgencyService{
		agencyRepo:    cfg.AgencyRepo,
		userRepo:      cfg.UserRepo,
		clientRepo:    cfg.ClientRepo,
		campaignRepo:  cfg.CampaignRepo,
		subscriptions: cfg.Subscriptions,
		jwtService:    cfg.JWTService,
		audit:         cfg.Audit,
		logger:        cfg.Logger,
		trialDays:     trialDays,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *AgencyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *AgencyService) publishEvents(ctx context.Context, agency *identity.Agency) {
	if s.events == nil {
		return
	}
	for _, event := range agency.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	agency.ClearDomainEvents()
}

// RegisterInput contains input for agency registration
type RegisterInput struct {
	AgencyName string `json:"agency_name" binding:"required"`
	Slug       string `json:"slug" binding:"required"`
	OwnerName  string `json:"owner_name" binding:"required"`
	OwnerEmail string `json:"owner_email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RequestIP  string `json:"-"`
}

// Register creates a new agency with its OWNER user, provisions the
// trial subscription with its token grant, and signs the owner in.
func (s *AgencyService) Register(ctx context.Context, input RegisterInput) (*RegisterResultDTO, error) {
	taken, err := s.agencyRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLUG_TAKEN", "An agency with this slug already exists")
	}

	agency, err := identity.NewAgency(input.AgencyName, input.Slug, s.trialDays)
	if err != nil {
		return nil, err
	}

	owner, err := identity.NewUser(agency.ID, input.OwnerEmail, input.OwnerName, input.Password, identity.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := s.agencyRepo.Save(ctx, agency); err != nil {
		s.logger.Error("Failed to save agency", zap.Error(err))
		return nil, err
	}
	if err := s.userRepo.Save(ctx, owner); err != nil {
		s.logger.Error("Failed to save owner user",
			zap.String("agency_id", agency.ID.String()),
			zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, agency)

	if _, err := s.subscriptions.ProvisionTrial(ctx, agency.ID); err != nil {
		s.logger.Error("Failed to provision trial subscription",
			zap.String("agency_id", agency.ID.String()),
			zap.Error(err))
		return nil, err
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		AgencyID: agency.ID,
		UserID:   owner.ID,
		Email:    owner.Email,
		Role:     string(owner.Role),
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agency.ID,
		ActorID:    &owner.ID,
		Action:     audit.ActionUserCreated,
		EntityType: "user",
		EntityID:   owner.ID,
		Metadata:   map[string]interface{}{"role": string(owner.Role), "registration": true},
		RequestIP:  input.RequestIP,
	})

	s.logger.Info("Agency registered",
		zap.String("agency_id", agency.ID.String()),
		zap.String("slug", agency.Slug))

	return &RegisterResultDTO{
		Agency: ToAgencyDTO(agency),
		Owner:  ToUserDTO(owner),
		Tokens: tokens,
	}, nil
}

// GetAgency returns an agency by ID
func (s *AgencyService) GetAgency(ctx context.Context, agencyID uuid.UUID) (*AgencyDTO, error) {
	agency, err := s.agencyRepo.FindByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	return ToAgencyDTO(agency), nil
}

// UpdateProfileInput contains input for updating an agency profile
type UpdateProfileInput struct {
	Name      string `json:"name" binding:"required"`
	Website   string `json:"website"`
	Timezone  string `json:"timezone"`
	LogoURL   string `json:"logo_url"`
	ActorID   uuid.UUID
	RequestIP string
}

// UpdateProfile updates the agency's profile information
func (s *AgencyService) UpdateProfile(ctx context.Context, agencyID uuid.UUID, input UpdateProfileInput) (*AgencyDTO, error) {
	agency, err := s.agencyRepo.FindByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	if err := agency.UpdateProfile(input.Name, input.Website, input.Timezone); err != nil {
		return nil, err
	}
	if err := agency.SetLogoURL(input.LogoURL); err != nil {
		return nil, err
	}

	if err := s.agencyRepo.SaveWithLock(ctx, agency); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, agency)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.ActorID,
		Action:     audit.ActionAgencyUpdated,
		EntityType: "agency",
		EntityID:   agencyID,
		RequestIP:  input.RequestIP,
	})

	return ToAgencyDTO(agency), nil
}

// Suspend suspends an agency
func (s *AgencyService) Suspend(ctx context.Context, agencyID uuid.UUID) (*AgencyDTO, error) {
	agency, err := s.agencyRepo.FindByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if err := agency.Suspend(); err != nil {
		return nil, err
	}
	if err := s.agencyRepo.SaveWithLock(ctx, agency); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, agency)

	s.logger.Warn("Agency suspended", zap.String("agency_id", agencyID.String()))
	return ToAgencyDTO(agency), nil
}

// Reactivate restores a suspended agency
func (s *AgencyService) Reactivate(ctx context.Context, agencyID uuid.UUID) (*AgencyDTO, error) {
	agency, err := s.agencyRepo.FindByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if err := agency.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.agencyRepo.SaveWithLock(ctx, agency); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, agency)

	s.logger.Info("Agency reactivated", zap.String("agency_id", agencyID.String()))
	return ToAgencyDTO(agency), nil
}

// Stats summarizes the agency's footprint
func (s *AgencyService) Stats(ctx context.Context, agencyID uuid.UUID) (*AgencyStatsDTO, error) {
	users, err := s.userRepo.CountForAgency(ctx, agencyID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.CountForAgency(ctx, agencyID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	campaigns, err := s.campaignRepo.CountForAgency(ctx, agencyID, shared.Filter{})
	if err != nil {
		return nil, err
	}

	return &AgencyStatsDTO{
		Users:     users,
		Clients:   clients,
		Campaigns: campaigns,
	}, nil
}
