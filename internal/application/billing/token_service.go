package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Ledger source types
const (
	SourceTypeSubscription  = "subscription"
	SourceTypeGenerationJob = "generation_job"
	SourceTypeAdmin         = "admin"
)

// TokenService manages the append-only token ledger of an agency.
// All mutations go through LedgerRepository.Append, which serializes
// concurrent writers on the agency balance lock.
type TokenService struct {
	ledgerRepo billing.LedgerRepository
	logger     *zap.Logger
}

// NewTokenService creates a new TokenService
func NewTokenService(ledgerRepo billing.LedgerRepository, logger *zap.Logger) *TokenService {
	return &TokenService{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// Balance returns the current token balance of an agency
func (s *TokenService) Balance(ctx context.Context, agencyID uuid.UUID) (*BalanceDTO, error) {
	if agencyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENCY", "Agency ID cannot be empty")
	}

	balance, err := s.ledgerRepo.Balance(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	return &BalanceDTO{AgencyID: agencyID, Balance: balance}, nil
}

// History lists the ledger entries of an agency, newest first
func (s *TokenService) History(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[LedgerEntryDTO], error) {
	entries, err := s.ledgerRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.ledgerRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]LedgerEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = ToLedgerEntryDTO(&entries[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Grant credits tokens to an agency
func (s *TokenService) Grant(ctx context.Context, agencyID uuid.UUID, tokens int64, sourceType string, sourceID *uuid.UUID, metadata string) (*LedgerEntryDTO, error) {
	return s.append(ctx, agencyID, billing.LedgerKindGrant, tokens, sourceType, sourceID, metadata)
}

// Reserve holds tokens for a queued generation job. Fails with
// ErrInsufficientTokens when the balance cannot cover the hold.
func (s *TokenService) Reserve(ctx context.Context, agencyID uuid.UUID, tokens int64, jobID uuid.UUID) (*LedgerEntryDTO, error) {
	return s.append(ctx, agencyID, billing.LedgerKindReserve, tokens, SourceTypeGenerationJob, &jobID, "")
}

// Release returns a full reservation after a job was cancelled or failed
func (s *TokenService) Release(ctx context.Context, agencyID uuid.UUID, tokens int64, jobID uuid.UUID) (*LedgerEntryDTO, error) {
	return s.append(ctx, agencyID, billing.LedgerKindRelease, tokens, SourceTypeGenerationJob, &jobID, "")
}

// Settle converts a reservation into actual consumption after a job
// completed. The reservation is released in full, then the tokens the
// job actually used are consumed. If the consume step fails the agency
// keeps the released tokens; the error is returned for the caller to log.
func (s *TokenService) Settle(ctx context.Context, agencyID uuid.UUID, reserved, consumed int64, jobID uuid.UUID) error {
	if reserved > 0 {
		if _, err := s.Release(ctx, agencyID, reserved, jobID); err != nil {
			return err
		}
	}

	if consumed > 0 {
		if _, err := s.append(ctx, agencyID, billing.LedgerKindConsume, consumed, SourceTypeGenerationJob, &jobID, ""); err != nil {
			return err
		}
	}

	s.logger.Info("Settled token reservation",
		zap.String("agency_id", agencyID.String()),
		zap.String("job_id", jobID.String()),
		zap.Int64("reserved", reserved),
		zap.Int64("consumed", consumed))

	return nil
}

func (s *TokenService) append(ctx context.Context, agencyID uuid.UUID, kind billing.LedgerKind, tokens int64, sourceType string, sourceID *uuid.UUID, metadata string) (*LedgerEntryDTO, error) {
	if agencyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENCY", "Agency ID cannot be empty")
	}

	entry, err := s.ledgerRepo.Append(ctx, agencyID, func(balanceBefore int64) (*billing.LedgerEntry, error) {
		return billing.NewLedgerEntry(agencyID, kind, tokens, balanceBefore, sourceType, sourceID, metadata)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Appended ledger entry",
		zap.String("agency_id", agencyID.String()),
		zap.String("kind", string(kind)),
		zap.Int64("amount", entry.Amount),
		zap.Int64("balance_after", entry.BalanceAfter))

	dto := ToLedgerEntryDTO(entry)
	return &dto, nil
}
