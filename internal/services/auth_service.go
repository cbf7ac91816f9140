package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/controlx/backoffice/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthDomainSuffix turns a username into the synthetic address form the
// credential store is keyed on. Never shown to end users.
const AuthDomainSuffix = "@controlx.app"

func principalEmail(username string) string {
	return username + AuthDomainSuffix
}

// AuthService is the identity-provider adapter: it owns principals
// (credentials) and sessions, and mints the tokens the HTTP layer verifies.
type AuthService struct {
	principalRepo repositories.PrincipalRepository
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	jwtSecret     string
	jwtExpiry     time.Duration
}

type SignInResponse struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type TokenClaims struct {
	UserID    uuid.UUID
	SessionID string
}

func NewAuthService(
	principalRepo repositories.PrincipalRepository,
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		principalRepo: principalRepo,
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		jwtSecret:     jwtSecret,
		jwtExpiry:     jwtExpiry,
	}
}

// CreatePrincipal registers credentials for a username and returns the new
// principal id. The caller creates the matching profile afterwards.
func (s *AuthService) CreatePrincipal(ctx context.Context, username, password string) (uuid.UUID, error) {
	email := principalEmail(username)

	existing, err := s.principalRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return uuid.Nil, ErrUsernameExists
	}
	if err != nil && err != repositories.ErrNotFound {
		return uuid.Nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	principal := &models.Principal{
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.principalRepo.Create(ctx, principal); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create principal: %w", err)
	}
	return principal.ID, nil
}

// SignIn validates the username's credentials and opens a session. The
// profile document is loaded by the shared principal id; a principal with
// no profile is treated as invalid credentials.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*SignInResponse, error) {
	principal, err := s.principalRepo.GetByEmail(ctx, principalEmail(username))
	if err == repositories.ErrNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}

	if !utils.CheckPassword(principal.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, principal.ID)
	if err == repositories.ErrNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	sessionID := uuid.New().String()
	expiresAt := time.Now().Add(s.jwtExpiry)
	session := &models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.generateToken(user.ID, sessionID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &SignInResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *AuthService) generateToken(userID uuid.UUID, sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"jti": sessionID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyToken checks the signature and that the session is still live, so
// sign-out revokes tokens before their expiry.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sessionID, ok := claims["jti"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		UserID:    userID,
		SessionID: sessionID,
	}, nil
}

func (s *AuthService) SignOut(ctx context.Context, tokenString string) error {
	claims, err := s.VerifyToken(ctx, tokenString)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *AuthService) SignOutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to sign out all sessions: %w", err)
	}
	return nil
}
