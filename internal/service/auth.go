package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/access"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/pkg/password"
	"github.com/vietanh2810/ticktopia-api/internal/repository"
)

var errWrongCredentials = domain.Unauthenticated("wrong credentials")

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Lastname string
}

type AuthService struct {
	repo     AuthUserRepository
	sessions SessionStore
}

func NewAuthService(repo AuthUserRepository, sessions SessionStore) *AuthService {
	return &AuthService{
		repo:     repo,
		sessions: sessions,
	}
}

// Register creates a plain client account. Nobody needs to be logged in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	return s.register(ctx, in, domain.RoleClient)
}

// RegisterManager creates an event-manager account on behalf of an admin.
func (s *AuthService) RegisterManager(ctx context.Context, p domain.Principal, in RegisterInput) (domain.User, error) {
	if err := access.Authorize(p, access.RegisterManager).Err(); err != nil {
		return domain.User{}, err
	}

	return s.register(ctx, in, domain.RoleEventManager)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role domain.Role) (domain.User, error) {
	if err := password.Validate(in.Password); err != nil {
		return domain.User{}, domain.Validation(err.Error())
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return domain.User{}, translate("auth.register", uuid.Nil, err)
	}

	user := domain.User{
		Email:    domain.NormalizeEmail(in.Email),
		Password: hash,
		Name:     strings.TrimSpace(in.Name),
		Lastname: strings.TrimSpace(in.Lastname),
		IsActive: true,
		Roles:    domain.NewRoles(role),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, translate("auth.register", uuid.Nil, fmt.Errorf("s.repo.Create -> %w", err))
	}

	return created, nil
}

// Login checks the credentials of an active user. Unknown email, wrong
// password and inactive account all answer the same way.
func (s *AuthService) Login(ctx context.Context, email, pw string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, errWrongCredentials
		}

		return domain.User{}, translate("auth.login", uuid.Nil, fmt.Errorf("s.repo.FindByEmail -> %w", err))
	}

	if !password.Verify(pw, user.Password) || !user.IsActive {
		return domain.User{}, errWrongCredentials
	}

	return user, nil
}

// Logout denylists the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, p domain.Principal, tokenID string, remaining time.Duration) error {
	if err := access.Authorize(p, access.Logout).Err(); err != nil {
		return err
	}

	if err := s.sessions.Revoke(ctx, tokenID, remaining); err != nil {
		return translate("auth.logout", p.ID, fmt.Errorf("s.sessions.Revoke -> %w", err))
	}

	return nil
}
