package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/repository/dao"
)

var (
	ErrUserEmailExists  = dao.ErrUserEmailExists
	ErrUserNotFound     = dao.ErrUserNotFound
	ErrConcurrentUpdate = dao.ErrConcurrentUpdate
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]dao.User, error)
	Update(ctx context.Context, user dao.User) (dao.User, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, userToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = userToDomain(u)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.Update(ctx, userToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return userToDomain(updated), nil
}

func userToDAO(u domain.User) dao.User {
	return dao.User{
		ID:       u.ID,
		Email:    u.Email,
		Password: u.Password,
		Name:     u.Name,
		Lastname: u.Lastname,
		IsActive: u.IsActive,
		Roles:    strings.Join(u.Roles.Strings(), ","),
	}
}

func userToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Lastname:  u.Lastname,
		IsActive:  u.IsActive,
		Roles:     rolesToDomain(u.Roles),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// rolesToDomain skips names that are no longer known roles.
func rolesToDomain(s string) domain.Roles {
	var roles []domain.Role
	for _, name := range strings.Split(s, ",") {
		if role, err := domain.ParseRole(strings.TrimSpace(name)); err == nil {
			roles = append(roles, role)
		}
	}

	return domain.NewRoles(roles...)
}

func userSummary(u dao.User) *domain.UserSummary {
	if u.ID == uuid.Nil {
		return nil
	}

	s := userToDomain(u).Summary()

	return &s
}
