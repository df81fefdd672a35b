package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vietanh2810/ticktopia-api/internal/access"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/notify"
)

type TicketRepository interface {
	Create(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Ticket, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Ticket, error)
	UpdateState(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
}

type PresentationFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Presentation, error)
}

type Notifier interface {
	Publish(ctx context.Context, msg notify.Message) error
}

type TicketService struct {
	repo          TicketRepository
	presentations PresentationFinder
	notifier      Notifier
	tx            Transactor
	clock         clock.Clock
}

func NewTicketService(
	repo TicketRepository,
	presentations PresentationFinder,
	notifier Notifier,
	tx Transactor,
	clk clock.Clock,
) *TicketService {
	return &TicketService{
		repo:          repo,
		presentations: presentations,
		notifier:      notifier,
		tx:            tx,
		clock:         clk,
	}
}

// Issue sells quantity tickets of a presentation to the caller. It fails with
// an invalid state outside the presentation's issuance window. Capacity is
// not checked.
func (s *TicketService) Issue(ctx context.Context, p domain.Principal, presentationID uuid.UUID, quantity int) (domain.Ticket, error) {
	if err := access.Authorize(p, access.IssueTicket).Err(); err != nil {
		return domain.Ticket{}, err
	}

	presentation, err := s.presentations.FindByID(ctx, presentationID)
	if err != nil {
		return domain.Ticket{}, translate("ticket.issue", presentationID, fmt.Errorf("s.presentations.FindByID -> %w", err))
	}

	ticket, err := domain.NewTicket(presentation, p.ID, quantity, s.clock.Now())
	if err != nil {
		return domain.Ticket{}, err
	}

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, translate("ticket.issue", presentationID, fmt.Errorf("s.repo.Create -> %w", err))
	}

	s.publish(ctx, notify.TicketIssued, created)

	return created, nil
}

func (s *TicketService) Redeem(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Ticket, error) {
	if err := access.Authorize(p, access.RedeemTicket).Err(); err != nil {
		return domain.Ticket{}, err
	}

	var redeemed domain.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ticket, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		ticket, err = ticket.Redeem()
		if err != nil {
			return err
		}

		redeemed, err = s.repo.UpdateState(ctx, ticket)
		if err != nil {
			return fmt.Errorf("s.repo.UpdateState -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Ticket{}, translate("ticket.redeem", id, err)
	}

	s.publish(ctx, notify.TicketRedeemed, redeemed)

	return redeemed, nil
}

// Deactivate is idempotent. The ticket row stays, so it keeps blocking the
// deletion of its presentation and event.
func (s *TicketService) Deactivate(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Ticket, error) {
	if !p.Authenticated() {
		return domain.Ticket{}, access.Authorize(p, access.DeactivateTicket).Err()
	}

	var (
		result  domain.Ticket
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ticket, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		if err = access.Authorize(p, access.DeactivateTicket, ticket.UserID).Err(); err != nil {
			return err
		}

		if !ticket.IsActive {
			result = ticket
			return nil
		}

		result, err = s.repo.UpdateState(ctx, ticket.Deactivate())
		if err != nil {
			return fmt.Errorf("s.repo.UpdateState -> %w", err)
		}
		changed = true

		return nil
	})
	if err != nil {
		return domain.Ticket{}, translate("ticket.deactivate", id, err)
	}

	if changed {
		s.publish(ctx, notify.TicketDeactivated, result)
	}

	return result, nil
}

func (s *TicketService) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Ticket, error) {
	if !p.Authenticated() {
		return domain.Ticket{}, access.Authorize(p, access.ReadTicket).Err()
	}

	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, translate("ticket.get", id, fmt.Errorf("s.repo.FindByID -> %w", err))
	}
	if err = access.Authorize(p, access.ReadTicket, ticket.UserID).Err(); err != nil {
		return domain.Ticket{}, err
	}

	return ticket, nil
}

func (s *TicketService) ListMine(ctx context.Context, p domain.Principal) ([]domain.Ticket, error) {
	if err := access.Authorize(p, access.ListOwnTickets).Err(); err != nil {
		return nil, err
	}

	tickets, err := s.repo.FindByUser(ctx, p.ID)
	if err != nil {
		return nil, translate("ticket.listMine", p.ID, fmt.Errorf("s.repo.FindByUser -> %w", err))
	}

	return tickets, nil
}

// publish never fails the request; a lost message is only logged.
func (s *TicketService) publish(ctx context.Context, typ notify.MessageType, t domain.Ticket) {
	err := s.notifier.Publish(ctx, notify.Message{
		Type:           typ,
		TicketID:       t.ID,
		PresentationID: t.PresentationID,
		UserID:         t.UserID,
		Quantity:       t.Quantity,
		OccurredAt:     s.clock.Now(),
	})
	if err != nil {
		zap.L().Warn("ticket notification not published",
			zap.String("type", string(typ)),
			zap.Stringer("ticket_id", t.ID),
			zap.Error(err),
		)
	}
}
