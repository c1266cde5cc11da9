// Package campaign orchestrates campaigns, their posts, and post media.
package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// CampaignService handles campaign lifecycle operations
type CampaignService struct {
	campaignRepo campaign.Repository
	clientRepo   client.Repository
	audit        *appaudit.Service
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaignRepo campaign.Repository, clientRepo client.Repository, auditSvc *appaudit.Service, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		clientRepo:   clientRepo,
		audit:        auditSvc,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *CampaignService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *CampaignService) publishEvents(ctx context.Context, camp *campaign.Campaign) {
	if s.events == nil {
		return
	}
	for _, event := range camp.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	camp.ClearDomainEvents()
}

// CreateCampaignInput contains input for creating a campaign
type CreateCampaignInput struct {
	ClientID  uuid.UUID       `json:"client_id" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Objective string          `json:"objective"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate time.Time       `json:"start_date" binding:"required"`
	EndDate   time.Time       `json:"end_date" binding:"required"`
	CreatedBy uuid.UUID
	RequestIP string
}

// CreateCampaign creates a draft campaign for an active client
func (s *CampaignService) CreateCampaign(ctx context.Context, agencyID uuid.UUID, input CreateCampaignInput) (*CampaignDTO, error) {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if cl.IsArchived() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot create a campaign for an archived client")
	}

	camp, err := campaign.NewCampaign(agencyID, input.ClientID, input.CreatedBy, input.Name, input.Budget, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if input.Objective != "" {
		camp.Objective = input.Objective
	}

	if err := s.campaignRepo.Save(ctx, camp); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, camp)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.CreatedBy,
		Action:     audit.ActionCampaignCreated,
		EntityType: "campaign",
		EntityID:   camp.ID,
		Metadata:   map[string]interface{}{"name": camp.Name, "client_id": camp.ClientID},
		RequestIP:  input.RequestIP,
	})

	return ToCampaignDTO(camp), nil
}

// GetCampaign returns a campaign scoped to the agency
func (s *CampaignService) GetCampaign(ctx context.Context, agencyID, campaignID uuid.UUID) (*CampaignDTO, error) {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, campaignID)
	if err != nil {
		return nil, err
	}
	return ToCampaignDTO(camp), nil
}

// ListCampaigns returns the agency's campaigns matching the filter.
// Status filters come through filter.Filters["status"].
func (s *CampaignService) ListCampaigns(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[CampaignDTO], error) {
	campaigns, err := s.campaignRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.campaignRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	return paginateCampaigns(campaigns, total, filter), nil
}

// ListByClient returns a client's campaigns
func (s *CampaignService) ListByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]CampaignDTO, error) {
	campaigns, err := s.campaignRepo.FindByClient(ctx, agencyID, clientID, filter)
	if err != nil {
		return nil, err
	}
	return toCampaignDTOs(campaigns), nil
}

// ListOverlapping returns campaigns whose window overlaps [from, to]
func (s *CampaignService) ListOverlapping(ctx context.Context, agencyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]CampaignDTO, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Range end cannot be before range start")
	}

	campaigns, err := s.campaignRepo.FindOverlapping(ctx, agencyID, from, to, filter)
	if err != nil {
		return nil, err
	}
	return toCampaignDTOs(campaigns), nil
}

// UpdateCampaignInput contains input for updating a campaign
type UpdateCampaignInput struct {
	Name      string          `json:"name" binding:"required"`
	Objective string          `json:"objective"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate time.Time       `json:"start_date" binding:"required"`
	EndDate   time.Time       `json:"end_date" binding:"required"`
	ActorID   uuid.UUID
	RequestIP string
}

// UpdateCampaign updates a draft or paused campaign
func (s *CampaignService) UpdateCampaign(ctx context.Context, agencyID, campaignID uuid.UUID, input UpdateCampaignInput) (*CampaignDTO, error) {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := camp.Update(input.Name, input.Objective, input.Budget, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.SaveWithLock(ctx, camp); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.ActorID,
		Action:     audit.ActionCampaignUpdated,
		EntityType: "campaign",
		EntityID:   campaignID,
		RequestIP:  input.RequestIP,
	})

	return ToCampaignDTO(camp), nil
}

// Activate transitions a draft or paused campaign to active. The campaign's
// client must not be archived.
func (s *CampaignService) Activate(ctx context.Context, agencyID, actorID, campaignID uuid.UUID) (*CampaignDTO, error) {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, campaignID)
	if err != nil {
		return nil, err
	}

	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, camp.ClientID)
	if err != nil {
		return nil, err
	}
	if cl.IsArchived() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot activate a campaign for an archived client")
	}

	return s.transition(ctx, agencyID, actorID, camp, camp.Activate)
}

// Pause pauses an active campaign
func (s *CampaignService) Pause(ctx context.Context, agencyID, actorID, campaignID uuid.UUID) (*CampaignDTO, error) {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, agencyID, actorID, camp, camp.Pause)
}

// Complete marks an active or paused campaign as completed
func (s *CampaignService) Complete(ctx context.Context, agencyID, actorID, campaignID uuid.UUID) (*CampaignDTO, error) {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, agencyID, actorID, camp, camp.Complete)
}

// Archive archives a non-active campaign
func (s *CampaignService) Archive(ctx context.Context, agencyID, actorID, campaignID uuid.UUID) (*CampaignDTO, error) {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, agencyID, actorID, camp, camp.Archive)
}

// DeleteCampaign deletes a campaign that is not currently active
func (s *CampaignService) DeleteCampaign(ctx context.Context, agencyID, actorID, campaignID uuid.UUID, requestIP string) error {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, campaignID)
	if err != nil {
		return err
	}
	if camp.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Pause or complete the campaign before deleting")
	}

	if err := s.campaignRepo.Delete(ctx, campaignID); err != nil {
		return err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     "campaign.deleted",
		EntityType: "campaign",
		EntityID:   campaignID,
		Metadata:   map[string]interface{}{"name": camp.Name},
		RequestIP:  requestIP,
	})

	return nil
}

func (s *CampaignService) transition(ctx context.Context, agencyID, actorID uuid.UUID, camp *campaign.Campaign, apply func() error) (*CampaignDTO, error) {
	from := camp.Status
	if err := apply(); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.SaveWithLock(ctx, camp); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, camp)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     "campaign.status_changed",
		EntityType: "campaign",
		EntityID:   camp.ID,
		Metadata:   map[string]interface{}{"from": string(from), "to": string(camp.Status)},
	})

	return ToCampaignDTO(camp), nil
}

func toCampaignDTOs(campaigns []campaign.Campaign) []CampaignDTO {
	dtos := make([]CampaignDTO, len(campaigns))
	for i := range campaigns {
		dtos[i] = *ToCampaignDTO(&campaigns[i])
	}
	return dtos
}

func paginateCampaigns(campaigns []campaign.Campaign, total int64, filter shared.Filter) *shared.Paginated[CampaignDTO] {
	result := shared.NewPaginated(toCampaignDTOs(campaigns), total, filter.Page, filter.PageSize)
	return &result
}
