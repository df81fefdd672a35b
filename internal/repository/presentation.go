package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/repository/dao"
)

var (
	ErrPresentationNotFound   = dao.ErrPresentationNotFound
	ErrPresentationHasTickets = dao.ErrPresentationHasTickets
)

type PresentationDAO interface {
	Insert(ctx context.Context, p dao.Presentation) (dao.Presentation, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Presentation, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID, filter dao.PresentationFilter) ([]dao.Presentation, error)
	Update(ctx context.Context, p dao.Presentation) (dao.Presentation, error)
	DeleteIfNoTickets(ctx context.Context, id uuid.UUID) error
}

type PresentationRepository struct {
	dao PresentationDAO
}

func NewPresentationRepository(dao PresentationDAO) *PresentationRepository {
	return &PresentationRepository{
		dao: dao,
	}
}

func (r *PresentationRepository) Create(ctx context.Context, p domain.Presentation) (domain.Presentation, error) {
	created, err := r.dao.Insert(ctx, presentationToDAO(p))
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return presentationToDomain(created), nil
}

func (r *PresentationRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Presentation, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return presentationToDomain(found), nil
}

// FindPublicByEvent returns the presentations of a public event whose open
// date is not before openAfter.
func (r *PresentationRepository) FindPublicByEvent(ctx context.Context, eventID uuid.UUID, openAfter time.Time) ([]domain.Presentation, error) {
	found, err := r.dao.FindByEvent(ctx, eventID, dao.PresentationFilter{PublicOnly: true, OpenAfter: openAfter})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	return presentationsToDomain(found), nil
}

func (r *PresentationRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Presentation, error) {
	found, err := r.dao.FindByEvent(ctx, eventID, dao.PresentationFilter{})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	return presentationsToDomain(found), nil
}

func (r *PresentationRepository) Update(ctx context.Context, p domain.Presentation) (domain.Presentation, error) {
	updated, err := r.dao.Update(ctx, presentationToDAO(p))
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return presentationToDomain(updated), nil
}

func (r *PresentationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.dao.DeleteIfNoTickets(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteIfNoTickets -> %w", err)
	}

	return nil
}

func presentationToDAO(p domain.Presentation) dao.Presentation {
	return dao.Presentation{
		ID:                         p.ID,
		EventID:                    p.EventID,
		Place:                      p.Place,
		City:                       p.City,
		Capacity:                   p.Capacity,
		Price:                      p.Price,
		Latitude:                   p.Latitude,
		Longitude:                  p.Longitude,
		Description:                p.Description,
		OpenDate:                   p.OpenDate,
		StartDate:                  p.StartDate,
		TicketAvailabilityDate:     p.TicketAvailabilityDate,
		TicketSaleAvailabilityDate: p.TicketSaleAvailabilityDate,
	}
}

func presentationToDomain(p dao.Presentation) domain.Presentation {
	out := domain.Presentation{
		ID:          p.ID,
		EventID:     p.EventID,
		Place:       p.Place,
		City:        p.City,
		Capacity:    p.Capacity,
		Price:       p.Price,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Description: p.Description,
		Schedule: domain.Schedule{
			TicketSaleAvailabilityDate: p.TicketSaleAvailabilityDate,
			TicketAvailabilityDate:     p.TicketAvailabilityDate,
			OpenDate:                   p.OpenDate,
			StartDate:                  p.StartDate,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Event.ID != uuid.Nil {
		event := eventToDomain(p.Event)
		out.Event = &event
	}

	return out
}

func presentationsToDomain(found []dao.Presentation) []domain.Presentation {
	presentations := make([]domain.Presentation, len(found))
	for i, p := range found {
		presentations[i] = presentationToDomain(p)
	}

	return presentations
}
