package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"smartclinic-server/internal/models"
	"smartclinic-server/internal/repository"
	"smartclinic-server/internal/utils"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenProvider issues and verifies bearer tokens.
type TokenProvider interface {
	Issue(accountID string) (string, error)
	Verify(token string) (*utils.Claims, error)
}

// Denylist tracks revoked token ids.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=doctor nurse admin"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	User        models.UserSanitized `json:"user"`
}

// Session is an authenticated caller.
type Session struct {
	User   *models.User
	Claims *utils.Claims
}

type AuthService struct {
	users    UserRepository
	tokens   TokenProvider
	denylist Denylist
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService wires the credential service. denylist may be nil, in which
// case logout has no server-side effect.
func NewAuthService(users UserRepository, tokens TokenProvider, denylist Denylist, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims and lowercases the email.
func (r *RegisterRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// Normalize trims and lowercases the email.
func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	req.Normalize()
	if err := validateInput(&req); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrDuplicateIdentity
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleDoctor
	}

	user := models.User{
		BaseModel: models.BaseModel{ID: models.NewID()},
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      role,
		CreatedAt: models.NewTimestamp(s.now()),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.Create(ctx, &user); err != nil {
		// A concurrent registration can pass the lookup above; the unique index decides.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.tokenFor(&user)
}

// Authenticate checks credentials and returns a token.
func (s *AuthService) Authenticate(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	req.Normalize()
	if err := validateInput(&req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unknown emails pay the same bcrypt cost as a real check.
			burnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.tokenFor(user)
}

// ResolveToken verifies a bearer token and loads the account it names.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, fmt.Errorf("%w: token has been revoked", ErrTokenInvalid)
		}
	}

	user, err := s.users.FindByID(ctx, claims.AccountID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &Session{User: user, Claims: claims}, nil
}

// Logout revokes the session's token for the rest of its lifetime. It
// reports false when no denylist is configured.
func (s *AuthService) Logout(ctx context.Context, session *Session) (bool, error) {
	if s.denylist == nil || session.Claims.ID == "" {
		return false, nil
	}
	if err := s.denylist.Revoke(ctx, session.Claims.ID, session.Claims.Remaining(s.now())); err != nil {
		return false, err
	}
	s.logger.Info("token revoked", zap.String("user_id", session.User.ID))
	return true, nil
}

// ListAccounts returns every account without credentials.
func (s *AuthService) ListAccounts(ctx context.Context) ([]models.UserSanitized, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]models.UserSanitized, len(users))
	for i := range users {
		out[i] = users[i].Sanitize()
	}
	return out, nil
}

// DeleteAccount removes an account. Tokens it still holds stop resolving.
func (s *AuthService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("account deleted", zap.String("user_id", id))
	return nil
}

func (s *AuthService) tokenFor(user *models.User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Sanitize(),
	}, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("smartclinic-placeholder"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
