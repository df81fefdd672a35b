package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleEventManager  Role = "event-manager"
	RoleClient        Role = "client"
	RoleTicketChecker Role = "ticket-checker"
)

var validRoles = []Role{RoleAdmin, RoleEventManager, RoleClient, RoleTicketChecker}

func ParseRole(s string) (Role, error) {
	for _, r := range validRoles {
		if string(r) == s {
			return r, nil
		}
	}

	return "", fmt.Errorf("unknown role %q", s)
}

// Roles is a set of roles; order carries no meaning and duplicates are ignored.
type Roles []Role

func NewRoles(roles ...Role) Roles {
	out := make(Roles, 0, len(roles))
	for _, r := range roles {
		if !out.Has(r) {
			out = append(out, r)
		}
	}

	return out
}

func (r Roles) Has(role Role) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}

	return false
}

func (r Roles) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}

	return false
}

func (r Roles) Strings() []string {
	out := make([]string, len(r))
	for i, role := range r {
		out[i] = string(role)
	}

	return out
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Lastname  string    `json:"lastname"`
	IsActive  bool      `json:"is_active"`
	Roles     Roles     `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Principal() Principal {
	return Principal{ID: u.ID, Roles: NewRoles(u.Roles...)}
}

// Summary is the owner-safe projection attached to events crossing the API.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Lastname: u.Lastname}
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Lastname string    `json:"lastname"`
}

type UserPatch struct {
	Email    *string
	Name     *string
	Lastname *string
}

func (u User) Apply(p UserPatch) User {
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Lastname != nil {
		u.Lastname = strings.TrimSpace(*p.Lastname)
	}

	return u
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is the authenticated actor of one request. The zero value is the
// anonymous caller.
type Principal struct {
	ID    uuid.UUID
	Roles Roles
}

func Anonymous() Principal {
	return Principal{}
}

func (p Principal) Authenticated() bool {
	return p.ID != uuid.Nil
}

func (p Principal) Is(id uuid.UUID) bool {
	return p.Authenticated() && p.ID == id
}

func (p Principal) IsAdmin() bool {
	return p.Roles.Has(RoleAdmin)
}
