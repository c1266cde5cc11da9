package models

import (
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogModel is the persistence model for the audit Log domain entity.
// Rows are append-only.
type AuditLogModel struct {
	BaseModel
	AgencyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"type:varchar(100);not null;index"`
	EntityType string     `gorm:"type:varchar(50);not null;index"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Metadata   string     `gorm:"type:jsonb;default:'{}'"`
	RequestIP  string     `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain Log entity.
func (m *AuditLogModel) ToDomain() *audit.Log {
	return &audit.Log{
		BaseEntity: m.BaseModel.ToDomain(),
		AgencyID:   m.AgencyID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Metadata:   m.Metadata,
		RequestIP:  m.RequestIP,
	}
}

// FromDomain populates the persistence model from a domain Log entity.
func (m *AuditLogModel) FromDomain(l *audit.Log) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.AgencyID = l.AgencyID
	m.ActorID = l.ActorID
	m.Action = l.Action
	m.EntityType = l.EntityType
	m.EntityID = l.EntityID
	m.Metadata = l.Metadata
	m.RequestIP = l.RequestIP
}

// AuditLogModelFromDomain creates a new persistence model from a domain Log entity.
func AuditLogModelFromDomain(l *audit.Log) *AuditLogModel {
	m := &AuditLogModel{}
	m.FromDomain(l)
	return m
}
