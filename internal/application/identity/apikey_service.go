package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// APIKeyService manages API keys for the external bot surface
type APIKeyService struct {
	apiKeyRepo identity.APIKeyRepository
	audit      *appaudit.Service
	logger     *zap.Logger
}

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(apiKeyRepo identity.APIKeyRepository, auditSvc *appaudit.Service, logger *zap.Logger) *APIKeyService {
	return &APIKeyService{
		apiKeyRepo: apiKeyRepo,
		audit:      auditSvc,
		logger:     logger,
	}
}

// CreateAPIKeyInput contains input for creating an API key
type CreateAPIKeyInput struct {
	Name      string   `json:"name" binding:"required"`
	Scopes    []string `json:"scopes" binding:"required"`
	CreatedBy uuid.UUID
	RequestIP string
}

// CreateAPIKey creates a key and returns the raw secret exactly once
func (s *APIKeyService) CreateAPIKey(ctx context.Context, agencyID uuid.UUID, input CreateAPIKeyInput) (*CreatedAPIKeyDTO, error) {
	key, secret, err := identity.NewAPIKey(agencyID, input.CreatedBy, input.Name, input.Scopes)
	if err != nil {
		return nil, err
	}

	if err := s.apiKeyRepo.Save(ctx, key); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.CreatedBy,
		Action:     audit.ActionAPIKeyCreated,
		EntityType: "apikey",
		EntityID:   key.ID,
		Metadata:   map[string]interface{}{"name": key.Name, "scopes": key.Scopes},
		RequestIP:  input.RequestIP,
	})

	return &CreatedAPIKeyDTO{
		APIKeyDTO: *ToAPIKeyDTO(key),
		Secret:    secret,
	}, nil
}

// ListAPIKeys returns the agency's API keys
func (s *APIKeyService) ListAPIKeys(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[APIKeyDTO], error) {
	keys, err := s.apiKeyRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.apiKeyRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]APIKeyDTO, len(keys))
	for i := range keys {
		dtos[i] = *ToAPIKeyDTO(&keys[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// RevokeAPIKey revokes a key
func (s *APIKeyService) RevokeAPIKey(ctx context.Context, agencyID, actorID, keyID uuid.UUID) (*APIKeyDTO, error) {
	key, err := s.apiKeyRepo.FindByIDForAgency(ctx, agencyID, keyID)
	if err != nil {
		return nil, err
	}

	if err := key.Revoke(); err != nil {
		return nil, err
	}
	if err := s.apiKeyRepo.SaveWithLock(ctx, key); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionAPIKeyRevoked,
		EntityType: "apikey",
		EntityID:   keyID,
	})

	return ToAPIKeyDTO(key), nil
}

// AuthenticateAPIKey resolves a raw secret to its key for the bot API
// middleware. Revoked keys are rejected; last-used is updated
// best-effort.
func (s *APIKeyService) AuthenticateAPIKey(ctx context.Context, secret string) (*APIKeyDTO, error) {
	key, err := s.apiKeyRepo.FindByKeyHash(ctx, identity.HashAPIKey(secret))
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if key.IsRevoked() {
		return nil, shared.ErrUnauthorized
	}

	key.Touch()
	if err := s.apiKeyRepo.SaveWithLock(ctx, key); err != nil {
		s.logger.Warn("Failed to update API key last-used",
			zap.String("key_id", key.ID.String()),
			zap.Error(err))
	}

	return ToAPIKeyDTO(key), nil
}
