package billing

import (
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerKind classifies a token ledger entry
type LedgerKind string

const (
	LedgerKindGrant   LedgerKind = "grant"   // Tokens added (plan allowance, admin grant)
	LedgerKindConsume LedgerKind = "consume" // Tokens spent by finished work
	LedgerKindReserve LedgerKind = "reserve" // Tokens held for a queued job
	LedgerKindRelease LedgerKind = "release" // Reservation returned (job cancelled/failed)
	LedgerKindRefund  LedgerKind = "refund"  // Unused reservation returned after settlement
)

// LedgerEntry is an immutable token ledger record. Entries are append-only;
// the agency balance is always the BalanceAfter of the latest entry.
type LedgerEntry struct {
	shared.BaseEntity
	AgencyID     uuid.UUID
	Kind         LedgerKind
	Amount       int64 // Signed: positive credits, negative debits
	BalanceAfter int64
	SourceType   string // e.g. "generation_job", "subscription", "admin"
	SourceID     *uuid.UUID
	Metadata     string
}

// IsCredit returns true for entry kinds that add tokens
func (k LedgerKind) IsCredit() bool {
	switch k {
	case LedgerKindGrant, LedgerKindRelease, LedgerKindRefund:
		return true
	}
	return false
}

// ValidateLedgerKind validates a ledger kind
func ValidateLedgerKind(kind LedgerKind) error {
	switch kind {
	case LedgerKindGrant, LedgerKindConsume, LedgerKindReserve, LedgerKindRelease, LedgerKindRefund:
		return nil
	default:
		return shared.NewDomainError("INVALID_LEDGER_KIND", "Invalid ledger kind")
	}
}

// NewLedgerEntry creates a ledger entry from a positive token magnitude
// and the balance before the entry. Debits that would push the balance
// negative are rejected. The caller must hold the agency balance lock.
func NewLedgerEntry(agencyID uuid.UUID, kind LedgerKind, tokens int64, balanceBefore int64, sourceType string, sourceID *uuid.UUID, metadata string) (*LedgerEntry, error) {
	if err := ValidateLedgerKind(kind); err != nil {
		return nil, err
	}
	if tokens <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Token amount must be positive")
	}

	amount := tokens
	if !kind.IsCredit() {
		amount = -tokens
	}

	balanceAfter := balanceBefore + amount
	if balanceAfter < 0 {
		return nil, shared.ErrInsufficientTokens
	}

	return &LedgerEntry{
		BaseEntity:   shared.NewBaseEntity(),
		AgencyID:     agencyID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		SourceType:   sourceType,
		SourceID:     sourceID,
		Metadata:     metadata,
	}, nil
}

// WebhookEvent records a processed billing-provider event for idempotent
// webhook handling. A provider event ID is only ever processed once.
type WebhookEvent struct {
	ProviderEventID string
	EventType       string
	ProcessedAt     time.Time
}

