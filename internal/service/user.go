package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/access"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/repository"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// Authenticate turns a token subject into the request principal. Roles come
// from the store, so a role change applies to tokens already issued.
func (s *UserService) Authenticate(ctx context.Context, id uuid.UUID) (domain.Principal, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Principal{}, domain.Unauthenticated("user not found")
		}

		return domain.Principal{}, translate("user.authenticate", id, fmt.Errorf("s.repo.FindByID -> %w", err))
	}
	if !user.IsActive {
		return domain.Principal{}, domain.Unauthenticated("user is inactive")
	}

	return user.Principal(), nil
}

func (s *UserService) List(ctx context.Context, p domain.Principal, limit, offset int) ([]domain.User, error) {
	if err := access.Authorize(p, access.ListUsers).Err(); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, translate("user.list", uuid.Nil, fmt.Errorf("s.repo.List -> %w", err))
	}

	return users, nil
}

func (s *UserService) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.User, error) {
	if err := access.Authorize(p, access.ReadProfile, id).Err(); err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, translate("user.get", id, fmt.Errorf("s.repo.FindByID -> %w", err))
	}

	return user, nil
}

func (s *UserService) Update(ctx context.Context, p domain.Principal, id uuid.UUID, patch domain.UserPatch) (domain.User, error) {
	if err := access.Authorize(p, access.UpdateProfile, id).Err(); err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, translate("user.update", id, fmt.Errorf("s.repo.FindByID -> %w", err))
	}

	user = user.Apply(patch)
	if user.Email == "" || user.Name == "" || user.Lastname == "" {
		return domain.User{}, domain.Validation("email, name and lastname cannot be blank")
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, translate("user.update", id, fmt.Errorf("s.repo.Update -> %w", err))
	}

	return updated, nil
}

// Deactivate is the only way an account goes away; the row stays.
func (s *UserService) Deactivate(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.User, error) {
	if err := access.Authorize(p, access.DeactivateAccount, id).Err(); err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, translate("user.deactivate", id, fmt.Errorf("s.repo.FindByID -> %w", err))
	}
	if !user.IsActive {
		return domain.User{}, domain.InvalidState("user already deactivated")
	}

	user.IsActive = false
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, translate("user.deactivate", id, fmt.Errorf("s.repo.Update -> %w", err))
	}

	return updated, nil
}

func (s *UserService) SetRoles(ctx context.Context, p domain.Principal, id uuid.UUID, roles []domain.Role) (domain.User, error) {
	if err := access.Authorize(p, access.SetRoles).Err(); err != nil {
		return domain.User{}, err
	}
	if len(roles) == 0 {
		return domain.User{}, domain.Validation("at least one role is required")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, translate("user.setRoles", id, fmt.Errorf("s.repo.FindByID -> %w", err))
	}

	user.Roles = domain.NewRoles(roles...)
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, translate("user.setRoles", id, fmt.Errorf("s.repo.Update -> %w", err))
	}

	return updated, nil
}
