package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/repository"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Transactor runs fn in one serializable unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// translate maps a repository failure onto the error taxonomy. Domain errors
// pass through untouched. Anything unexpected is logged here, once, and the
// caller only sees a generic internal error.
func translate(op string, id uuid.UUID, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return domain.NotFound("user not found")
	case errors.Is(err, repository.ErrEventNotFound):
		return domain.NotFound("event not found")
	case errors.Is(err, repository.ErrPresentationNotFound):
		return domain.NotFound("presentation not found")
	case errors.Is(err, repository.ErrTicketNotFound):
		return domain.NotFound("ticket not found")
	case errors.Is(err, repository.ErrUserEmailExists):
		return domain.Conflict(err, "email already registered")
	case errors.Is(err, repository.ErrEventHasTickets):
		return domain.InvalidState("cannot delete an event with sold tickets")
	case errors.Is(err, repository.ErrPresentationHasTickets):
		return domain.InvalidState("cannot delete a presentation with sold tickets")
	case errors.Is(err, repository.ErrConcurrentUpdate):
		return domain.Conflict(err, "the resource was modified concurrently, retry the request")
	}

	zap.L().Error("operation failed",
		zap.String("operation", op),
		zap.Stringer("entity_id", id),
		zap.Error(err),
	)

	return domain.Internal(err)
}

// clampPage applies the default and upper bound to a page request.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
