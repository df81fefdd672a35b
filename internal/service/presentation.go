package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/access"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type PresentationRepository interface {
	Create(ctx context.Context, p domain.Presentation) (domain.Presentation, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Presentation, error)
	FindPublicByEvent(ctx context.Context, eventID uuid.UUID, openAfter time.Time) ([]domain.Presentation, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Presentation, error)
	Update(ctx context.Context, p domain.Presentation) (domain.Presentation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EventFinder interface {
	FindByID(ctx context.Context, id uuid.UUID, publicOnly bool) (domain.Event, error)
}

type PresentationService struct {
	repo   PresentationRepository
	events EventFinder
	guard  *DeletionGuard
	tx     Transactor
	clock  clock.Clock
}

func NewPresentationService(
	repo PresentationRepository,
	events EventFinder,
	guard *DeletionGuard,
	tx Transactor,
	clk clock.Clock,
) *PresentationService {
	return &PresentationService{
		repo:   repo,
		events: events,
		guard:  guard,
		tx:     tx,
		clock:  clk,
	}
}

func (s *PresentationService) Create(ctx context.Context, p domain.Principal, eventID uuid.UUID, in domain.Presentation) (domain.Presentation, error) {
	if !p.Authenticated() {
		return domain.Presentation{}, access.Authorize(p, access.CreatePresentation).Err()
	}

	event, err := s.events.FindByID(ctx, eventID, false)
	if err != nil {
		return domain.Presentation{}, translate("presentation.create", eventID, fmt.Errorf("s.events.FindByID -> %w", err))
	}
	if err = access.Authorize(p, access.CreatePresentation, event.OwnerID).Err(); err != nil {
		return domain.Presentation{}, err
	}

	in.ID = uuid.Nil
	in.EventID = event.ID
	if err = in.Validate(); err != nil {
		return domain.Presentation{}, err
	}

	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.Presentation{}, translate("presentation.create", eventID, fmt.Errorf("s.repo.Create -> %w", err))
	}

	return created, nil
}

// Update validates the stored presentation overlaid by patch, so a partial
// update can never produce a schedule that Create would reject.
func (s *PresentationService) Update(ctx context.Context, p domain.Principal, id uuid.UUID, patch domain.PresentationPatch) (domain.Presentation, error) {
	var updated domain.Presentation

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.owned(ctx, p, access.UpdatePresentation, id)
		if err != nil {
			return err
		}

		merged := existing.Apply(patch)
		if err = merged.Validate(); err != nil {
			return err
		}

		updated, err = s.repo.Update(ctx, merged)
		if err != nil {
			return fmt.Errorf("s.repo.Update -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Presentation{}, translate("presentation.update", id, err)
	}

	return updated, nil
}

// FindPublicByEvent lists the presentations of a public event that opened no
// more than domain.RelevanceWindow ago.
func (s *PresentationService) FindPublicByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Presentation, error) {
	openAfter := s.clock.Now().Add(-domain.RelevanceWindow)

	presentations, err := s.repo.FindPublicByEvent(ctx, eventID, openAfter)
	if err != nil {
		return nil, translate("presentation.findPublicByEvent", eventID, fmt.Errorf("s.repo.FindPublicByEvent -> %w", err))
	}

	return presentations, nil
}

func (s *PresentationService) FindByEventForManager(ctx context.Context, p domain.Principal, eventID uuid.UUID) ([]domain.Presentation, error) {
	if !p.Authenticated() {
		return nil, access.Authorize(p, access.ListPresentationsForManager).Err()
	}

	event, err := s.events.FindByID(ctx, eventID, false)
	if err != nil {
		return nil, translate("presentation.findByEventForManager", eventID, fmt.Errorf("s.events.FindByID -> %w", err))
	}
	if err = access.Authorize(p, access.ListPresentationsForManager, event.OwnerID).Err(); err != nil {
		return nil, err
	}

	presentations, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, translate("presentation.findByEventForManager", eventID, fmt.Errorf("s.repo.FindByEvent -> %w", err))
	}

	return presentations, nil
}

// Get returns a presentation only while its event is public.
func (s *PresentationService) Get(ctx context.Context, id uuid.UUID) (domain.Presentation, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Presentation{}, translate("presentation.get", id, fmt.Errorf("s.repo.FindByID -> %w", err))
	}
	if found.Event == nil || !found.Event.IsPublic {
		return domain.Presentation{}, domain.NotFound("presentation not found")
	}

	return found, nil
}

func (s *PresentationService) GetUnrestricted(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Presentation, error) {
	found, err := s.owned(ctx, p, access.ReadPresentationUnrestricted, id)
	if err != nil {
		return domain.Presentation{}, translate("presentation.getUnrestricted", id, err)
	}

	return found, nil
}

func (s *PresentationService) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, p, access.DeletePresentation, id); err != nil {
			return err
		}

		sold, err := s.guard.HasSoldTicketsForPresentation(ctx, id)
		if err != nil {
			return fmt.Errorf("s.guard.HasSoldTicketsForPresentation -> %w", err)
		}
		if sold {
			return domain.InvalidState("cannot delete a presentation with sold tickets")
		}

		if err = s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return nil
	})
	if err != nil {
		return translate("presentation.delete", id, err)
	}

	return nil
}

// owned loads the presentation and checks action against its event's owner.
func (s *PresentationService) owned(ctx context.Context, p domain.Principal, action access.Action, id uuid.UUID) (domain.Presentation, error) {
	if !p.Authenticated() {
		return domain.Presentation{}, access.Authorize(p, action).Err()
	}

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	var ownerID uuid.UUID
	if found.Event != nil {
		ownerID = found.Event.OwnerID
	} else {
		event, err := s.events.FindByID(ctx, found.EventID, false)
		if err != nil {
			return domain.Presentation{}, fmt.Errorf("s.events.FindByID -> %w", err)
		}
		ownerID = event.OwnerID
	}
	if err = access.Authorize(p, action, ownerID).Err(); err != nil {
		return domain.Presentation{}, err
	}

	return found, nil
}
