// Package audit records and serves the append-only audit trail.
package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Service records audit entries and serves the audit log
type Service struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewService creates a new audit service
func NewService(repo audit.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Entry describes one mutating operation to record
type Entry struct {
	AgencyID   uuid.UUID
	ActorID    *uuid.UUID // nil for system-initiated actions
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Metadata   map[string]interface{}
	RequestIP  string
}

// Record appends an audit entry. Recording is best-effort: a failure is
// logged but never fails the operation being audited.
func (s *Service) Record(ctx context.Context, entry Entry) {
	metadata := ""
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			s.logger.Error("Failed to marshal audit metadata",
				zap.String("action", entry.Action),
				zap.Error(err))
		} else {
			metadata = string(raw)
		}
	}

	log, err := audit.NewLog(entry.AgencyID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, metadata, entry.RequestIP)
	if err != nil {
		s.logger.Error("Failed to build audit log entry",
			zap.String("action", entry.Action),
			zap.Error(err))
		return
	}

	if err := s.repo.Save(ctx, log); err != nil {
		s.logger.Error("Failed to save audit log entry",
			zap.String("action", entry.Action),
			zap.String("agency_id", entry.AgencyID.String()),
			zap.Error(err))
	}
}

// List returns audit entries of an agency, newest first
func (s *Service) List(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[LogDTO], error) {
	logs, err := s.repo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]LogDTO, len(logs))
	for i := range logs {
		dtos[i] = *ToLogDTO(&logs[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}
