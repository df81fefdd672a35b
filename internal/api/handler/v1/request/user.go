package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
}

func (req *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Lastname, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

func (req *UpdateUserRequest) Patch() domain.UserPatch {
	return domain.UserPatch{
		Email:    req.Email,
		Name:     req.Name,
		Lastname: req.Lastname,
	}
}

type SetRolesRequest struct {
	Roles []string `json:"roles"`
}

var knownRoles = validation.By(func(value interface{}) error {
	names, _ := value.([]string)
	for _, name := range names {
		if _, err := domain.ParseRole(name); err != nil {
			return err
		}
	}

	return nil
})

func (req *SetRolesRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Roles, validation.Required, knownRoles),
	)
}

// DomainRoles converts validated role names.
func (req *SetRolesRequest) DomainRoles() []domain.Role {
	roles := make([]domain.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		if role, err := domain.ParseRole(r); err == nil {
			roles = append(roles, role)
		}
	}

	return roles
}
