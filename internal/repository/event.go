package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/repository/dao"
)

var (
	ErrEventNotFound   = dao.ErrEventNotFound
	ErrEventHasTickets = dao.ErrEventHasTickets
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindOne(ctx context.Context, lookup dao.EventLookup) (dao.Event, error)
	FindPublic(ctx context.Context, limit, offset int) ([]dao.Event, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	DeleteIfNoTickets(ctx context.Context, id uuid.UUID) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID, publicOnly bool) (domain.Event, error) {
	found, err := r.dao.FindOne(ctx, dao.EventLookup{ID: id, PublicOnly: publicOnly})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindOne -> %w", err)
	}

	return eventToDomain(found), nil
}

func (r *EventRepository) FindByName(ctx context.Context, name string, publicOnly bool) (domain.Event, error) {
	found, err := r.dao.FindOne(ctx, dao.EventLookup{Name: name, PublicOnly: publicOnly})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindOne -> %w", err)
	}

	return eventToDomain(found), nil
}

func (r *EventRepository) FindPublic(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	found, err := r.dao.FindPublic(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPublic -> %w", err)
	}

	return eventsToDomain(found), nil
}

func (r *EventRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Event, error) {
	found, err := r.dao.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOwner -> %w", err)
	}

	return eventsToDomain(found), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, eventToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.dao.DeleteIfNoTickets(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteIfNoTickets -> %w", err)
	}

	return nil
}

func eventToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:             e.ID,
		Name:           e.Name,
		BannerPhotoURL: e.BannerPhotoURL,
		IsPublic:       e.IsPublic,
		OwnerID:        e.OwnerID,
	}
}

func eventToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:             e.ID,
		Name:           e.Name,
		BannerPhotoURL: e.BannerPhotoURL,
		IsPublic:       e.IsPublic,
		OwnerID:        e.OwnerID,
		Owner:          userSummary(e.Owner),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func eventsToDomain(found []dao.Event) []domain.Event {
	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = eventToDomain(e)
	}

	return events
}
