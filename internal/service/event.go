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

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uuid.UUID, publicOnly bool) (domain.Event, error)
	FindByName(ctx context.Context, name string, publicOnly bool) (domain.Event, error)
	FindPublic(ctx context.Context, limit, offset int) ([]domain.Event, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OwnerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

type EventInput struct {
	Name           string
	BannerPhotoURL string
	IsPublic       *bool
}

type EventService struct {
	repo  EventRepository
	users OwnerFinder
	guard *DeletionGuard
	tx    Transactor
}

func NewEventService(repo EventRepository, users OwnerFinder, guard *DeletionGuard, tx Transactor) *EventService {
	return &EventService{
		repo:  repo,
		users: users,
		guard: guard,
		tx:    tx,
	}
}

// Create persists a new event owned by the caller. The owner's roles are read
// from the store rather than trusted from the token.
func (s *EventService) Create(ctx context.Context, p domain.Principal, in EventInput) (domain.Event, error) {
	if err := access.Authorize(p, access.CreateEvent).Err(); err != nil {
		return domain.Event{}, err
	}

	owner, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return domain.Event{}, translate("event.create", p.ID, fmt.Errorf("s.users.FindByID -> %w", err))
	}
	if err = access.Authorize(owner.Principal(), access.CreateEvent).Err(); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		Name:           in.Name,
		BannerPhotoURL: in.BannerPhotoURL,
		IsPublic:       in.IsPublic == nil || *in.IsPublic,
		OwnerID:        owner.ID,
	}.Normalize()
	if event.Name == "" {
		return domain.Event{}, domain.Validation("name cannot be blank")
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, translate("event.create", p.ID, fmt.Errorf("s.repo.Create -> %w", err))
	}

	return created, nil
}

func (s *EventService) FindPublic(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	limit, offset = clampPage(limit, offset)

	events, err := s.repo.FindPublic(ctx, limit, offset)
	if err != nil {
		return nil, translate("event.findPublic", uuid.Nil, fmt.Errorf("s.repo.FindPublic -> %w", err))
	}

	return events, nil
}

func (s *EventService) FindOwned(ctx context.Context, p domain.Principal) ([]domain.Event, error) {
	if err := access.Authorize(p, access.ListOwnedEvents).Err(); err != nil {
		return nil, err
	}

	events, err := s.repo.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, translate("event.findOwned", p.ID, fmt.Errorf("s.repo.FindByOwner -> %w", err))
	}

	return events, nil
}

// Resolve finds an event by id, or by case-insensitive name when term is not
// an id. Anonymous and ordinary callers only see public events; a private
// event is visible to its owner and to admins and reads as not found to
// everybody else.
func (s *EventService) Resolve(ctx context.Context, p domain.Principal, term string) (domain.Event, error) {
	if err := access.Authorize(p, access.ReadPublicEvent).Err(); err != nil {
		return domain.Event{}, err
	}

	event, err := s.lookup(ctx, term, !p.IsAdmin())
	if errors.Is(err, repository.ErrEventNotFound) && p.Authenticated() && !p.IsAdmin() {
		hidden, hiddenErr := s.lookup(ctx, term, false)
		if hiddenErr == nil && hidden.OwnedBy(p.ID) {
			return hidden, nil
		}
	}
	if err != nil {
		return domain.Event{}, translate("event.resolve", uuid.Nil, err)
	}

	return event, nil
}

// ResolveUnrestricted skips the visibility filter for admins and the owning
// manager.
func (s *EventService) ResolveUnrestricted(ctx context.Context, p domain.Principal, term string) (domain.Event, error) {
	if !p.Authenticated() {
		return domain.Event{}, access.Authorize(p, access.ReadEventUnrestricted).Err()
	}

	event, err := s.lookup(ctx, term, false)
	if err != nil {
		return domain.Event{}, translate("event.resolveUnrestricted", uuid.Nil, err)
	}
	if err = access.Authorize(p, access.ReadEventUnrestricted, event.OwnerID).Err(); err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

func (s *EventService) lookup(ctx context.Context, term string, publicOnly bool) (domain.Event, error) {
	if id, err := uuid.Parse(term); err == nil {
		event, err := s.repo.FindByID(ctx, id, publicOnly)
		if err != nil {
			return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		return event, nil
	}

	event, err := s.repo.FindByName(ctx, term, publicOnly)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByName -> %w", err)
	}

	return event, nil
}

func (s *EventService) Update(ctx context.Context, p domain.Principal, id uuid.UUID, patch domain.EventPatch) (domain.Event, error) {
	var updated domain.Event

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.repo.FindByID(ctx, id, false)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		if err = access.Authorize(p, access.UpdateEvent, event.OwnerID).Err(); err != nil {
			return err
		}

		if patch.Hides() {
			sold, err := s.guard.HasSoldTicketsForEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("s.guard.HasSoldTicketsForEvent -> %w", err)
			}
			if sold {
				return domain.InvalidState("cannot hide an event with sold tickets")
			}
		}

		event = event.Apply(patch)
		if event.Name == "" {
			return domain.Validation("name cannot be blank")
		}

		updated, err = s.repo.Update(ctx, event)
		if err != nil {
			return fmt.Errorf("s.repo.Update -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Event{}, translate("event.update", id, err)
	}

	return updated, nil
}

// Delete removes the event and its presentations, children first, once the
// guard confirms no ticket exists beneath it.
func (s *EventService) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.repo.FindByID(ctx, id, false)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		if err = access.Authorize(p, access.DeleteEvent, event.OwnerID).Err(); err != nil {
			return err
		}

		sold, err := s.guard.HasSoldTicketsForEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("s.guard.HasSoldTicketsForEvent -> %w", err)
		}
		if sold {
			return domain.InvalidState("cannot delete an event with sold tickets")
		}

		if err = s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return nil
	})
	if err != nil {
		return translate("event.delete", id, err)
	}

	return nil
}
