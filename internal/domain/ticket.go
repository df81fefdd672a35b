package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinTicketQuantity = 1
	MaxTicketQuantity = 10
)

type Ticket struct {
	ID             uuid.UUID     `json:"id"`
	PresentationID uuid.UUID     `json:"presentation_id"`
	UserID         uuid.UUID     `json:"user_id"`
	Presentation   *Presentation `json:"presentation,omitempty"`
	BuyDate        time.Time     `json:"buy_date"`
	IsActive       bool          `json:"is_active"`
	IsRedeemed     bool          `json:"is_redeemed"`
	Quantity       int           `json:"quantity"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewTicket issues a ticket for p at now, failing when now lies outside the
// presentation's issuance window.
func NewTicket(p Presentation, holder uuid.UUID, quantity int, now time.Time) (Ticket, error) {
	if quantity == 0 {
		quantity = MinTicketQuantity
	}
	if quantity < MinTicketQuantity || quantity > MaxTicketQuantity {
		return Ticket{}, Validation("quantity must be between 1 and 10")
	}
	if err := p.IssuanceWindow().Check(now); err != nil {
		return Ticket{}, err
	}

	return Ticket{
		PresentationID: p.ID,
		UserID:         holder,
		BuyDate:        now,
		IsActive:       true,
		Quantity:       quantity,
	}, nil
}

func (t Ticket) HeldBy(id uuid.UUID) bool {
	return t.UserID != uuid.Nil && t.UserID == id
}

func (t Ticket) Redeem() (Ticket, error) {
	if !t.IsActive {
		return t, InvalidState("ticket is not active")
	}
	if t.IsRedeemed {
		return t, InvalidState("ticket already redeemed")
	}
	t.IsRedeemed = true

	return t, nil
}

// Deactivate is idempotent; the row is kept as history.
func (t Ticket) Deactivate() Ticket {
	t.IsActive = false

	return t
}
