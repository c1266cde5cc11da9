package models

import (
	"time"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// SubscriptionModel is the persistence model for the Subscription domain entity.
type SubscriptionModel struct {
	AgencyAggregateModel
	PlanCode             billing.PlanCode           `gorm:"type:varchar(20);not null"`
	Status               billing.SubscriptionStatus `gorm:"type:varchar(20);not null;default:'trialing'"`
	CurrentPeriodStart   time.Time                  `gorm:"not null"`
	CurrentPeriodEnd     time.Time                  `gorm:"not null"`
	StripeCustomerID     string                     `gorm:"type:varchar(255);index"`
	StripeSubscriptionID string                     `gorm:"type:varchar(255);index"`
	CancelledAt          *time.Time
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription entity.
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	return &billing.Subscription{
		AgencyAggregateRoot:  m.agencyAggregateRoot(),
		PlanCode:             m.PlanCode,
		Status:               m.Status,
		CurrentPeriodStart:   m.CurrentPeriodStart,
		CurrentPeriodEnd:     m.CurrentPeriodEnd,
		StripeCustomerID:     m.StripeCustomerID,
		StripeSubscriptionID: m.StripeSubscriptionID,
		CancelledAt:          m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Subscription entity.
func (m *SubscriptionModel) FromDomain(s *billing.Subscription) {
	m.FromDomainAgencyAggregateRoot(s.AgencyAggregateRoot)
	m.PlanCode = s.PlanCode
	m.Status = s.Status
	m.CurrentPeriodStart = s.CurrentPeriodStart
	m.CurrentPeriodEnd = s.CurrentPeriodEnd
	m.StripeCustomerID = s.StripeCustomerID
	m.StripeSubscriptionID = s.StripeSubscriptionID
	m.CancelledAt = s.CancelledAt
}

// SubscriptionModelFromDomain creates a new persistence model from a domain Subscription entity.
func SubscriptionModelFromDomain(s *billing.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{}
	m.FromDomain(s)
	return m
}

// LedgerEntryModel is the persistence model for the LedgerEntry domain entity.
// Entries are append-only.
type LedgerEntryModel struct {
	BaseModel
	AgencyID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Kind         billing.LedgerKind `gorm:"type:varchar(20);not null"`
	Amount       int64              `gorm:"not null"`
	BalanceAfter int64              `gorm:"not null"`
	SourceType   string             `gorm:"type:varchar(50)"`
	SourceID     *uuid.UUID         `gorm:"type:uuid;index"`
	Metadata     string             `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "token_ledger"
}

// ToDomain converts the persistence model to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToDomain() *billing.LedgerEntry {
	return &billing.LedgerEntry{
		BaseEntity:   m.BaseModel.ToDomain(),
		AgencyID:     m.AgencyID,
		Kind:         m.Kind,
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		SourceType:   m.SourceType,
		SourceID:     m.SourceID,
		Metadata:     m.Metadata,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry entity.
func (m *LedgerEntryModel) FromDomain(e *billing.LedgerEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.AgencyID = e.AgencyID
	m.Kind = e.Kind
	m.Amount = e.Amount
	m.BalanceAfter = e.BalanceAfter
	m.SourceType = e.SourceType
	m.SourceID = e.SourceID
	m.Metadata = e.Metadata
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry entity.
func LedgerEntryModelFromDomain(e *billing.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// WebhookEventModel records processed billing provider events for idempotency.
type WebhookEventModel struct {
	ProviderEventID string    `gorm:"type:varchar(255);primary_key"`
	EventType       string    `gorm:"type:varchar(100);not null"`
	ProcessedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WebhookEventModel) TableName() string {
	return "billing_webhook_events"
}

// ToDomain converts the persistence model to a domain WebhookEvent.
func (m *WebhookEventModel) ToDomain() billing.WebhookEvent {
	return billing.WebhookEvent{
		ProviderEventID: m.ProviderEventID,
		EventType:       m.EventType,
		ProcessedAt:     m.ProcessedAt,
	}
}

// FromDomain populates the persistence model from a domain WebhookEvent.
func (m *WebhookEventModel) FromDomain(e billing.WebhookEvent) {
	m.ProviderEventID = e.ProviderEventID
	m.EventType = e.EventType
	m.ProcessedAt = e.ProcessedAt
}
