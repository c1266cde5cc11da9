package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/auth"
)

// AuthService handles login, token refresh, logout, and password changes
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	audit      *appaudit.Service
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, auditSvc *appaudit.Service, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		audit:      auditSvc,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	if s.events == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	user.ClearDomainEvents()
}

// LoginInput contains login credentials
type LoginInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	RequestIP string `json:"-"`
}

// Login verifies credentials and issues a token pair. Unknown emails
// and wrong passwords return the same error so the endpoint does not
// leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResultDTO, error) {
	user, err := s.userRepo.FindByEmailGlobal(ctx, input.Email)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "This account has been deactivated")
	}

	user.RecordLogin(input.RequestIP)
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to record login",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		AgencyID: user.AgencyID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &LoginResultDTO{
		User:   ToUserDTO(user),
		Tokens: tokens,
	}, nil
}

// Refresh issues a new token pair from a valid refresh token. The
// user's current role is re-read so revoked privileges do not survive
// a refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.checkBlacklist(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "This account has been deactivated")
	}

	return s.jwtService.RefreshTokenPair(refreshToken, user.Email, string(user.Role))
}

// Logout blacklists the access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	return nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, agencyID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// ChangePasswordInput contains input for a password change
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	RequestIP       string `json:"-"`
}

// ChangePassword changes the user's own password and invalidates every
// token issued before the change.
func (s *AuthService) ChangePassword(ctx context.Context, agencyID, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByIDForAgency(ctx, agencyID, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}
	s.publishEvents(ctx, user)

	if err := s.blacklist.InvalidateUser(ctx, userID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to invalidate user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &userID,
		Action:     audit.ActionPasswordChanged,
		EntityType: "user",
		EntityID:   userID,
		RequestIP:  input.RequestIP,
	})

	return nil
}

// VerifyAccessClaims checks validated access token claims against the
// blacklist. Used by the auth middleware after signature validation.
func (s *AuthService) VerifyAccessClaims(ctx context.Context, claims *auth.Claims) error {
	return s.checkBlacklist(ctx, claims)
}

func (s *AuthService) checkBlacklist(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return auth.ErrTokenBlacklisted
	}

	invalidated, err := s.blacklist.IsUserInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return auth.ErrTokenBlacklisted
	}

	return nil
}
