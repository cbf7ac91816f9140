package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

type UserService struct {
	userRepo repositories.UserRepository
	auth     *AuthService
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, auth *AuthService, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, auth: auth, logger: logger}
}

type CreateUserInput struct {
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	Password string          `json:"password"`
}

// Create registers the auth principal first, then the profile document
// under the same id. A failure after the first step leaves an orphaned
// principal; that gap is logged, not compensated.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required to create a user", ErrValidation)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}

	principalID, err := s.auth.CreatePrincipal(ctx, username, in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       principalID,
		Username: username,
		Role:     in.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("profile creation failed after principal was created; principal is orphaned",
			zap.String("username", username),
			zap.String("principal_id", principalID.String()),
			zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *patch.Role)
	}
	return s.userRepo.Update(ctx, id, patch)
}

// Delete removes the profile document and revokes the user's sessions.
// The auth principal is left behind; cleaning it up belongs to an
// out-of-band job.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.auth.SignOutAll(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions for deleted user",
			zap.String("user_id", id.String()), zap.Error(err))
	}
	return nil
}
