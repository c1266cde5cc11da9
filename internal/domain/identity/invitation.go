package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvitationStatus represents the status of an invitation
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRevoked  InvitationStatus = "revoked"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// InvitationValidityDays is how long an invitation token stays valid
const InvitationValidityDays = 7

// Invitation represents an invitation for a person to join an agency.
// Only the SHA-256 hash of the token is stored; the raw token is
// returned once at creation time and embedded in the invite link.
type Invitation struct {
	shared.AgencyAggregateRoot
	Email      string
	Role       Role
	TokenHash  string
	Status     InvitationStatus
	ExpiresAt  time.Time
	InvitedBy  uuid.UUID
	AcceptedAt *time.Time
}

// NewInvitation creates a new pending invitation and returns the raw token
func NewInvitation(agencyID, invitedBy uuid.UUID, email string, role Role) (*Invitation, string, error) {
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if err := ValidateRole(role); err != nil {
		return nil, "", err
	}
	if role == RoleOwner {
		return nil, "", shared.NewDomainError("INVALID_ROLE", "Cannot invite a user as OWNER")
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, "", shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate invitation token")
	}

	invitation := &Invitation{
		AgencyAggregateRoot: shared.NewAgencyAggregateRootWithCreator(agencyID, invitedBy),
		Email:               strings.ToLower(strings.TrimSpace(email)),
		Role:                role,
		TokenHash:           HashInvitationToken(token),
		Status:              InvitationStatusPending,
		ExpiresAt:           time.Now().AddDate(0, 0, InvitationValidityDays),
		InvitedBy:           invitedBy,
	}

	invitation.AddDomainEvent(NewInvitationCreatedEvent(invitation))

	return invitation, token, nil
}

// Accept marks the invitation as accepted
func (i *Invitation) Accept() error {
	if i.Status != InvitationStatusPending {
		return shared.NewDomainError("INVITATION_NOT_PENDING", "Invitation is no longer pending")
	}
	if i.IsExpired() {
		return shared.NewDomainError("INVITATION_EXPIRED", "Invitation has expired")
	}

	now := time.Now()
	i.Status = InvitationStatusAccepted
	i.AcceptedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvitationAcceptedEvent(i))

	return nil
}

// Revoke revokes a pending invitation
func (i *Invitation) Revoke() error {
	if i.Status != InvitationStatusPending {
		return shared.NewDomainError("INVITATION_NOT_PENDING", "Only pending invitations can be revoked")
	}

	i.Status = InvitationStatusRevoked
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkExpired transitions a pending invitation past its expiry to expired
func (i *Invitation) MarkExpired() error {
	if i.Status != InvitationStatusPending {
		return shared.NewDomainError("INVITATION_NOT_PENDING", "Only pending invitations can expire")
	}

	i.Status = InvitationStatusExpired
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsExpired returns true if the invitation validity window has passed
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending returns true if the invitation is pending and not expired
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending && !i.IsExpired()
}

// HashInvitationToken returns the hex SHA-256 digest of a raw token
func HashInvitationToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
