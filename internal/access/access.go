// Package access decides whether a principal may perform an action. Every rule
// lives in Authorize so the whole policy can be read and tested in one place.
package access

import (
	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type Action string

const (
	Register        Action = "register"
	RegisterManager Action = "register-manager"
	Logout          Action = "logout"

	ReadProfile       Action = "read-profile"
	UpdateProfile     Action = "update-profile"
	DeactivateAccount Action = "deactivate-account"
	ListUsers         Action = "list-users"
	SetRoles          Action = "set-roles"

	CreateEvent           Action = "create-event"
	UpdateEvent           Action = "update-event"
	DeleteEvent           Action = "delete-event"
	ReadPublicEvent       Action = "read-public-event"
	ListOwnedEvents       Action = "list-owned-events"
	ReadEventUnrestricted Action = "read-event-unrestricted"

	CreatePresentation           Action = "create-presentation"
	UpdatePresentation           Action = "update-presentation"
	DeletePresentation           Action = "delete-presentation"
	ListPresentationsForManager  Action = "list-presentations-for-manager"
	ReadPresentationUnrestricted Action = "read-presentation-unrestricted"

	IssueTicket      Action = "issue-ticket"
	RedeemTicket     Action = "redeem-ticket"
	DeactivateTicket Action = "deactivate-ticket"
	ReadTicket       Action = "read-ticket"
	ListOwnTickets   Action = "list-own-tickets"
)

// Decision is the outcome of one authorization. A denial carries the error
// kind the caller should surface: unauthenticated or forbidden.
type Decision struct {
	Allowed bool
	Kind    domain.ErrorKind
	Reason  string
}

func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Kind == domain.KindUnauthenticated {
		return domain.Unauthenticated("%s", d.Reason)
	}

	return domain.Forbidden("%s", d.Reason)
}

var allow = Decision{Allowed: true}

func forbid(reason string) Decision {
	return Decision{Kind: domain.KindForbidden, Reason: reason}
}

// Authorize evaluates action for p. owner is the id owning the target
// resource: the target user for profile actions, the event owner for event
// and presentation actions, the holder for ticket actions.
func Authorize(p domain.Principal, action Action, owner ...uuid.UUID) Decision {
	switch action {
	case Register:
		return allow
	case ReadPublicEvent:
		return allow
	}

	if !p.Authenticated() {
		return Decision{Kind: domain.KindUnauthenticated, Reason: "authentication required"}
	}

	var ownerID uuid.UUID
	if len(owner) > 0 {
		ownerID = owner[0]
	}
	isOwner := ownerID != uuid.Nil && p.Is(ownerID)

	switch action {
	case RegisterManager, ListUsers, SetRoles:
		if p.IsAdmin() {
			return allow
		}
		return forbid("admin role required")

	case ReadProfile:
		if isOwner || p.IsAdmin() {
			return allow
		}
		return forbid("cannot read another user's profile")

	case UpdateProfile, DeactivateAccount:
		if isOwner {
			return allow
		}
		return forbid("only the account holder can change this account")

	case CreateEvent, ListOwnedEvents:
		if p.Roles.HasAny(domain.RoleAdmin, domain.RoleEventManager) {
			return allow
		}
		return forbid("event-manager or admin role required")

	case UpdateEvent, DeleteEvent,
		CreatePresentation, UpdatePresentation, DeletePresentation,
		ListPresentationsForManager, ReadPresentationUnrestricted:
		if isOwner || p.IsAdmin() {
			return allow
		}
		return forbid("only the event owner can do this")

	case ReadEventUnrestricted:
		if p.IsAdmin() || (isOwner && p.Roles.Has(domain.RoleEventManager)) {
			return allow
		}
		return forbid("only the event owner can do this")

	case IssueTicket, ListOwnTickets, Logout:
		return allow

	case RedeemTicket:
		if p.Roles.HasAny(domain.RoleAdmin, domain.RoleTicketChecker) {
			return allow
		}
		return forbid("ticket-checker or admin role required")

	case DeactivateTicket:
		if isOwner || p.IsAdmin() {
			return allow
		}
		return forbid("only the ticket holder can deactivate it")

	case ReadTicket:
		if isOwner || p.Roles.HasAny(domain.RoleAdmin, domain.RoleTicketChecker) {
			return allow
		}
		return forbid("cannot read another user's ticket")
	}

	return forbid("unknown action " + string(action))
}
