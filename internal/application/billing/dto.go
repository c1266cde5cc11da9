// Package billing contains application services for subscriptions,
// the token ledger and Stripe webhook processing.
package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencyhub/backend/internal/domain/billing"
)

// PlanDTO describes a catalog plan
type PlanDTO struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	MonthlyPrice  decimal.Decimal `json:"monthly_price"`
	MonthlyTokens int64           `json:"monthly_tokens"`
	MaxClients    int             `json:"max_clients"`
	MaxUsers      int             `json:"max_users"`
}

// SubscriptionDTO is the API representation of a subscription
type SubscriptionDTO struct {
	ID                 uuid.UUID  `json:"id"`
	AgencyID           uuid.UUID  `json:"agency_id"`
	PlanCode           string     `json:"plan_code"`
	PlanName           string     `json:"plan_name"`
	Status             string     `json:"status"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// LedgerEntryDTO is the API representation of a token ledger entry
type LedgerEntryDTO struct {
	ID           uuid.UUID  `json:"id"`
	Kind         string     `json:"kind"`
	Amount       int64      `json:"amount"`
	BalanceAfter int64      `json:"balance_after"`
	SourceType   string     `json:"source_type,omitempty"`
	SourceID     *uuid.UUID `json:"source_id,omitempty"`
	Metadata     string     `json:"metadata,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BalanceDTO reports an agency's current token balance
type BalanceDTO struct {
	AgencyID uuid.UUID `json:"agency_id"`
	Balance  int64     `json:"balance"`
}

// CheckoutSessionDTO carries the hosted checkout URL back to the client
type CheckoutSessionDTO struct {
	URL string `json:"url"`
}

// PortalSessionDTO carries the billing portal URL back to the client
type PortalSessionDTO struct {
	URL string `json:"url"`
}

// ToPlanDTO converts a domain plan to a DTO
func ToPlanDTO(plan billing.Plan) PlanDTO {
	return PlanDTO{
		Code:          string(plan.Code),
		Name:          plan.Name,
		MonthlyPrice:  plan.MonthlyPrice,
		MonthlyTokens: plan.MonthlyTokens,
		MaxClients:    plan.MaxClients,
		MaxUsers:      plan.MaxUsers,
	}
}

// ToSubscriptionDTO converts a domain subscription to a DTO
func ToSubscriptionDTO(sub *billing.Subscription) *SubscriptionDTO {
	return &SubscriptionDTO{
		ID:                 sub.ID,
		AgencyID:           sub.AgencyID,
		PlanCode:           string(sub.PlanCode),
		PlanName:           sub.Plan().Name,
		Status:             string(sub.Status),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelledAt:        sub.CancelledAt,
		CreatedAt:          sub.CreatedAt,
	}
}

// ToLedgerEntryDTO converts a domain ledger entry to a DTO
func ToLedgerEntryDTO(entry *billing.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:           entry.ID,
		Kind:         string(entry.Kind),
		Amount:       entry.Amount,
		BalanceAfter: entry.BalanceAfter,
		SourceType:   entry.SourceType,
		SourceID:     entry.SourceID,
		Metadata:     entry.Metadata,
		CreatedAt:    entry.CreatedAt,
	}
}
