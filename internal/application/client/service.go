// Package client manages the brands an agency works for.
package client

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Service handles client (brand) management
type Service struct {
	clientRepo       client.Repository
	campaignRepo     campaign.Repository
	subscriptionRepo billing.SubscriptionRepository
	audit            *appaudit.Service
	events           shared.EventPublisher
	logger           *zap.Logger
}

// NewService creates a new client service
func NewService(clientRepo client.Repository, campaignRepo campaign.Repository, subscriptionRepo billing.SubscriptionRepository, auditSvc *appaudit.Service, logger *zap.Logger) *Service {
	return &Service{
		clientRepo:       clientRepo,
		campaignRepo:     campaignRepo,
		subscriptionRepo: subscriptionRepo,
		audit:            auditSvc,
		logger:           logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *Service) publishEvents(ctx context.Context, cl *client.Client) {
	if s.events == nil {
		return
	}
	for _, event := range cl.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	cl.ClearDomainEvents()
}

// CreateClientInput contains input for creating a client
type CreateClientInput struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Industry  string `json:"industry"`
	Website   string `json:"website"`
	Notes     string `json:"notes"`
	CreatedBy uuid.UUID
	RequestIP string
}

// CreateClient creates a client, enforcing the plan's client limit and
// slug uniqueness within the agency
func (s *Service) CreateClient(ctx context.Context, agencyID uuid.UUID, input CreateClientInput) (*ClientDTO, error) {
	taken, err := s.clientRepo.ExistsBySlug(ctx, agencyID, input.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A client with this slug already exists")
	}

	if err := s.checkClientLimit(ctx, agencyID); err != nil {
		return nil, err
	}

	cl, err := client.NewClient(agencyID, input.CreatedBy, input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	if input.Industry != "" || input.Website != "" {
		if err := cl.Update(input.Name, input.Industry, input.Website); err != nil {
			return nil, err
		}
	}
	if input.Notes != "" {
		cl.SetNotes(input.Notes)
	}

	if err := s.clientRepo.Save(ctx, cl); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cl)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.CreatedBy,
		Action:     audit.ActionClientCreated,
		EntityType: "client",
		EntityID:   cl.ID,
		Metadata:   map[string]interface{}{"name": cl.Name, "slug": cl.Slug},
		RequestIP:  input.RequestIP,
	})

	return ToClientDTO(cl), nil
}

// GetClient returns a client scoped to the agency
func (s *Service) GetClient(ctx context.Context, agencyID, clientID uuid.UUID) (*ClientDTO, error) {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, clientID)
	if err != nil {
		return nil, err
	}
	return ToClientDTO(cl), nil
}

// ListClients returns the agency's clients
func (s *Service) ListClients(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[ClientDTO], error) {
	clients, err := s.clientRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.clientRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = *ToClientDTO(&clients[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateClientInput contains input for updating a client
type UpdateClientInput struct {
	Name      string           `json:"name" binding:"required"`
	Industry  string           `json:"industry"`
	Website   string           `json:"website"`
	Brand     *BrandProfileDTO `json:"brand"`
	Notes     *string          `json:"notes"`
	ActorID   uuid.UUID
	RequestIP string
}

// UpdateClient updates a client's profile and brand guidance
func (s *Service) UpdateClient(ctx context.Context, agencyID, clientID uuid.UUID, input UpdateClientInput) (*ClientDTO, error) {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, clientID)
	if err != nil {
		return nil, err
	}

	if err := cl.Update(input.Name, input.Industry, input.Website); err != nil {
		return nil, err
	}
	if input.Brand != nil {
		if err := cl.SetBrand(client.BrandProfile{
			Voice:    input.Brand.Voice,
			Colors:   input.Brand.Colors,
			Keywords: input.Brand.Keywords,
		}); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		cl.SetNotes(*input.Notes)
	}

	if err := s.clientRepo.SaveWithLock(ctx, cl); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.ActorID,
		Action:     audit.ActionClientUpdated,
		EntityType: "client",
		EntityID:   clientID,
		RequestIP:  input.RequestIP,
	})

	return ToClientDTO(cl), nil
}

// ArchiveClient archives a client. Archived clients keep their data but
// reject new campaigns and generation jobs.
func (s *Service) ArchiveClient(ctx context.Context, agencyID, actorID, clientID uuid.UUID) (*ClientDTO, error) {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, clientID)
	if err != nil {
		return nil, err
	}

	if err := cl.Archive(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.SaveWithLock(ctx, cl); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cl)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionClientArchived,
		EntityType: "client",
		EntityID:   clientID,
	})

	return ToClientDTO(cl), nil
}

// RestoreClient restores an archived client
func (s *Service) RestoreClient(ctx context.Context, agencyID, actorID, clientID uuid.UUID) (*ClientDTO, error) {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, clientID)
	if err != nil {
		return nil, err
	}

	if err := cl.Restore(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.SaveWithLock(ctx, cl); err != nil {
		return nil, err
	}

	return ToClientDTO(cl), nil
}

// DeleteClient deletes a client. A client with non-archived campaigns
// cannot be deleted; archiving is the soft path.
func (s *Service) DeleteClient(ctx context.Context, agencyID, actorID, clientID uuid.UUID, requestIP string) error {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, clientID)
	if err != nil {
		return err
	}

	active, err := s.campaignRepo.CountActiveByClient(ctx, agencyID, clientID)
	if err != nil {
		return err
	}
	if active > 0 {
		return shared.NewDomainError("CLIENT_HAS_CAMPAIGNS", "Client has non-archived campaigns; archive the client instead")
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		return err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionClientDeleted,
		EntityType: "client",
		EntityID:   clientID,
		Metadata:   map[string]interface{}{"name": cl.Name},
		RequestIP:  requestIP,
	})

	return nil
}

func (s *Service) checkClientLimit(ctx context.Context, agencyID uuid.UUID) error {
	sub, err := s.subscriptionRepo.FindByAgency(ctx, agencyID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("NO_SUBSCRIPTION", "Agency has no subscription")
		}
		return err
	}

	count, err := s.clientRepo.CountForAgency(ctx, agencyID, shared.Filter{})
	if err != nil {
		return err
	}
	if count >= int64(sub.Plan().MaxClients) {
		return shared.ErrPlanLimitReached
	}
	return nil
}
