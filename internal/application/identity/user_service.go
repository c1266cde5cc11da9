package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// UserService handles team member management within an agency
type UserService struct {
	userRepo         identity.UserRepository
	subscriptionRepo billing.SubscriptionRepository
	audit            *appaudit.Service
	events           shared.EventPublisher
	logger           *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, subscriptionRepo billing.SubscriptionRepository, auditSvc *appaudit.Service, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		audit:            auditSvc,
		logger:           logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.events == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	user.ClearDomainEvents()
}

// CreateUserInput contains input for creating a team member
type CreateUserInput struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required"`
	ActorID   uuid.UUID
	RequestIP string
}

// CreateUser adds a team member, enforcing the plan's user limit
func (s *UserService) CreateUser(ctx context.Context, agencyID uuid.UUID, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, agencyID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	if err := checkUserLimit(ctx, s.subscriptionRepo, s.userRepo, agencyID); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(agencyID, input.Email, input.Name, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.ActorID,
		Action:     audit.ActionUserCreated,
		EntityType: "user",
		EntityID:   user.ID,
		Metadata:   map[string]interface{}{"role": string(user.Role)},
		RequestIP:  input.RequestIP,
	})

	return ToUserDTO(user), nil
}

// GetUser returns a user scoped to the agency
func (s *UserService) GetUser(ctx context.Context, agencyID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// ListUsers returns the agency's team members
func (s *UserService) ListUsers(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	users, err := s.userRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = *ToUserDTO(&users[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateUserInput contains input for updating a user profile
type UpdateUserInput struct {
	Name      string `json:"name" binding:"required"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateUser updates a user's profile fields
func (s *UserService) UpdateUser(ctx context.Context, agencyID, userID uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.SetName(input.Name); err != nil {
		return nil, err
	}
	if err := user.SetAvatarURL(input.AvatarURL); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// ChangeRole changes a user's role. Demoting the last OWNER is rejected.
func (s *UserService) ChangeRole(ctx context.Context, agencyID, actorID, userID uuid.UUID, role string, requestIP string) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return nil, err
	}

	newRole := identity.Role(role)
	if user.IsOwner() && newRole != identity.RoleOwner {
		if err := s.ensureNotLastOwner(ctx, agencyID); err != nil {
			return nil, err
		}
	}

	oldRole := user.Role
	if err := user.ChangeRole(newRole); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionUserRoleChanged,
		EntityType: "user",
		EntityID:   userID,
		Metadata:   map[string]interface{}{"from": string(oldRole), "to": role},
		RequestIP:  requestIP,
	})

	return ToUserDTO(user), nil
}

// Activate reactivates a deactivated user
func (s *UserService) Activate(ctx context.Context, agencyID, actorID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionUserStatus,
		EntityType: "user",
		EntityID:   userID,
		Metadata:   map[string]interface{}{"status": string(identity.UserStatusActive)},
	})

	return ToUserDTO(user), nil
}

// Deactivate deactivates a user. The last active OWNER cannot be
// deactivated.
func (s *UserService) Deactivate(ctx context.Context, agencyID, actorID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return nil, err
	}

	if user.IsOwner() {
		if err := s.ensureNotLastOwner(ctx, agencyID); err != nil {
			return nil, err
		}
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionUserStatus,
		EntityType: "user",
		EntityID:   userID,
		Metadata:   map[string]interface{}{"status": string(identity.UserStatusInactive)},
	})

	return ToUserDTO(user), nil
}

// DeleteUser removes a user. Users cannot delete themselves, and the
// last OWNER cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, agencyID, actorID, userID uuid.UUID, requestIP string) error {
	if actorID == userID {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}

	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return err
	}

	if user.IsOwner() {
		if err := s.ensureNotLastOwner(ctx, agencyID); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionUserDeleted,
		EntityType: "user",
		EntityID:   userID,
		Metadata:   map[string]interface{}{"email": user.Email},
		RequestIP:  requestIP,
	})

	return nil
}

// ResetPassword sets a new password for a user without the current one
// (admin reset)
func (s *UserService) ResetPassword(ctx context.Context, agencyID, actorID, userID uuid.UUID, newPassword string) error {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}
	s.publishEvents(ctx, user)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionPasswordChanged,
		EntityType: "user",
		EntityID:   userID,
		Metadata:   map[string]interface{}{"reset": true},
	})

	return nil
}

func (s *UserService) ensureNotLastOwner(ctx context.Context, agencyID uuid.UUID) error {
	owners, err := s.userRepo.CountOwners(ctx, agencyID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return shared.NewDomainError("LAST_OWNER", "An agency must keep at least one active OWNER")
	}
	return nil
}

// checkUserLimit enforces the subscription plan's team size limit.
// Shared by direct user creation and invitation acceptance.
func checkUserLimit(ctx context.Context, subs billing.SubscriptionRepository, users identity.UserRepository, agencyID uuid.UUID) error {
	sub, err := subs.FindByAgency(ctx, agencyID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("NO_SUBSCRIPTION", "Agency has no subscription")
		}
		return err
	}

	count, err := users.CountForAgency(ctx, agencyID, shared.Filter{})
	if err != nil {
		return err
	}
	if count >= int64(sub.Plan().MaxUsers) {
		return shared.ErrPlanLimitReached
	}
	return nil
}
