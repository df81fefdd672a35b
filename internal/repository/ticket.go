package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/repository/dao"
)

var ErrTicketNotFound = dao.ErrTicketNotFound

type TicketDAO interface {
	Insert(ctx context.Context, t dao.Ticket) (dao.Ticket, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Ticket, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]dao.Ticket, error)
	UpdateState(ctx context.Context, t dao.Ticket) (dao.Ticket, error)
	CountByPresentation(ctx context.Context, presentationID uuid.UUID) (int64, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.Insert(ctx, ticketToDAO(t))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return ticketToDomain(created), nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Ticket, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return ticketToDomain(found), nil
}

func (r *TicketRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Ticket, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i, t := range found {
		tickets[i] = ticketToDomain(t)
	}

	return tickets, nil
}

func (r *TicketRepository) UpdateState(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	updated, err := r.dao.UpdateState(ctx, ticketToDAO(t))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.UpdateState -> %w", err)
	}

	return ticketToDomain(updated), nil
}

func (r *TicketRepository) ExistsForPresentation(ctx context.Context, presentationID uuid.UUID) (bool, error) {
	n, err := r.dao.CountByPresentation(ctx, presentationID)
	if err != nil {
		return false, fmt.Errorf("r.dao.CountByPresentation -> %w", err)
	}

	return n > 0, nil
}

func (r *TicketRepository) ExistsForEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	n, err := r.dao.CountByEvent(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("r.dao.CountByEvent -> %w", err)
	}

	return n > 0, nil
}

func ticketToDAO(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:             t.ID,
		PresentationID: t.PresentationID,
		UserID:         t.UserID,
		BuyDate:        t.BuyDate,
		IsActive:       t.IsActive,
		IsRedeemed:     t.IsRedeemed,
		Quantity:       t.Quantity,
	}
}

func ticketToDomain(t dao.Ticket) domain.Ticket {
	out := domain.Ticket{
		ID:             t.ID,
		PresentationID: t.PresentationID,
		UserID:         t.UserID,
		BuyDate:        t.BuyDate,
		IsActive:       t.IsActive,
		IsRedeemed:     t.IsRedeemed,
		Quantity:       t.Quantity,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.Presentation.ID != uuid.Nil {
		p := presentationToDomain(t.Presentation)
		out.Presentation = &p
	}

	return out
}
