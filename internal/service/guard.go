package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type TicketCounter interface {
	ExistsForEvent(ctx context.Context, eventID uuid.UUID) (bool, error)
	ExistsForPresentation(ctx context.Context, presentationID uuid.UUID) (bool, error)
}

// DeletionGuard answers whether a ticket of any state exists under an event
// or presentation. It always reads the store; call it inside the same
// transaction as the write it protects.
type DeletionGuard struct {
	tickets TicketCounter
}

func NewDeletionGuard(tickets TicketCounter) *DeletionGuard {
	return &DeletionGuard{
		tickets: tickets,
	}
}

func (g *DeletionGuard) HasSoldTicketsForEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	ok, err := g.tickets.ExistsForEvent(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("g.tickets.ExistsForEvent -> %w", err)
	}

	return ok, nil
}

func (g *DeletionGuard) HasSoldTicketsForPresentation(ctx context.Context, presentationID uuid.UUID) (bool, error) {
	ok, err := g.tickets.ExistsForPresentation(ctx, presentationID)
	if err != nil {
		return false, fmt.Errorf("g.tickets.ExistsForPresentation -> %w", err)
	}

	return ok, nil
}
