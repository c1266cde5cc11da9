package social

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
)

// AccountService manages client social account connections
type AccountService struct {
	accountRepo social.AccountRepository
	clientRepo  client.Repository
	refresher   TokenRefresher
	audit       *appaudit.Service
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo social.AccountRepository, clientRepo client.Repository, refresher TokenRefresher, auditSvc *appaudit.Service, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		refresher:   refresher,
		audit:       auditSvc,
		logger:      logger,
	}
}

// ConnectAccountInput contains input for connecting a social account
type ConnectAccountInput struct {
	ClientID       uuid.UUID  `json:"client_id" binding:"required"`
	Platform       string     `json:"platform" binding:"required"`
	Handle         string     `json:"handle" binding:"required"`
	AccessToken    string     `json:"access_token" binding:"required"`
	RefreshToken   string     `json:"refresh_token"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	ConnectedBy    uuid.UUID
	RequestIP      string
}

// ConnectAccount connects a social account for an active client. One
// connection per (client, platform) pair.
func (s *AccountService) ConnectAccount(ctx context.Context, agencyID uuid.UUID, input ConnectAccountInput) (*AccountDTO, error) {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, agencyID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if cl.IsArchived() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot connect accounts for an archived client")
	}

	platform := social.Platform(input.Platform)
	existing, err := s.accountRepo.FindByClientAndPlatform(ctx, agencyID, input.ClientID, platform)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil && existing.Status != social.AccountStatusRevoked {
		return nil, shared.NewDomainError("ALREADY_CONNECTED", "Client already has a "+input.Platform+" account connected")
	}

	account, err := social.NewAccount(agencyID, input.ClientID, input.ConnectedBy, platform, input.Handle, input.AccessToken, input.RefreshToken, input.TokenExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.ConnectedBy,
		Action:     "social_account.connected",
		EntityType: "social_account",
		EntityID:   account.ID,
		Metadata:   map[string]interface{}{"platform": input.Platform, "handle": account.Handle, "client_id": input.ClientID},
		RequestIP:  input.RequestIP,
	})

	return ToAccountDTO(account), nil
}

// GetAccount returns an account scoped to the agency
func (s *AccountService) GetAccount(ctx context.Context, agencyID, accountID uuid.UUID) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByIDForAgency(ctx, agencyID, accountID)
	if err != nil {
		return nil, err
	}
	return ToAccountDTO(account), nil
}

// ListAccounts returns the agency's connected accounts
func (s *AccountService) ListAccounts(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[AccountDTO], error) {
	accounts, err := s.accountRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.accountRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(toAccountDTOs(accounts), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByClient returns a client's connected accounts
func (s *AccountService) ListByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]AccountDTO, error) {
	accounts, err := s.accountRepo.FindByClient(ctx, agencyID, clientID, filter)
	if err != nil {
		return nil, err
	}
	return toAccountDTOs(accounts), nil
}

// RefreshAccount exchanges the account's refresh token for fresh
// credentials. A rejected refresh marks the account expired.
func (s *AccountService) RefreshAccount(ctx context.Context, agencyID, actorID, accountID uuid.UUID) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByIDForAgency(ctx, agencyID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == social.AccountStatusRevoked {
		return nil, shared.NewDomainError("ACCOUNT_REVOKED", "Cannot refresh a revoked account")
	}

	tokens, err := s.refresher.Refresh(ctx, account)
	if err != nil {
		s.logger.Warn("token refresh failed, marking account expired",
			zap.String("account_id", accountID.String()),
			zap.String("platform", string(account.Platform)),
			zap.Error(err))

		if markErr := account.MarkExpired(); markErr == nil {
			if saveErr := s.accountRepo.SaveWithLock(ctx, account); saveErr != nil {
				s.logger.Error("failed to persist expired status", zap.Error(saveErr))
			}
		}
		return nil, shared.NewDomainError("REFRESH_FAILED", "Platform rejected the token refresh")
	}

	if err := account.UpdateTokens(tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresAt); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	return ToAccountDTO(account), nil
}

// DisconnectAccount revokes an account connection and wipes its tokens
func (s *AccountService) DisconnectAccount(ctx context.Context, agencyID, actorID, accountID uuid.UUID, requestIP string) error {
	account, err := s.accountRepo.FindByIDForAgency(ctx, agencyID, accountID)
	if err != nil {
		return err
	}

	if err := account.Revoke(); err != nil {
		return err
	}
	if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
		return err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     "social_account.disconnected",
		EntityType: "social_account",
		EntityID:   accountID,
		Metadata:   map[string]interface{}{"platform": string(account.Platform), "handle": account.Handle},
		RequestIP:  requestIP,
	})

	return nil
}

func toAccountDTOs(accounts []social.Account) []AccountDTO {
	dtos := make([]AccountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = *ToAccountDTO(&accounts[i])
	}
	return dtos
}
