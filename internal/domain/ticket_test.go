package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicket(t *testing.T) {
	t.Parallel()

	holder := uuid.New()

	t.Run("inside window", func(t *testing.T) {
		p := validPresentation()
		p.ID = uuid.New()

		ticket, err := NewTicket(p, holder, 0, refNow)
		require.NoError(t, err)
		assert.Equal(t, p.ID, ticket.PresentationID)
		assert.Equal(t, holder, ticket.UserID)
		assert.Equal(t, refNow, ticket.BuyDate)
		assert.Equal(t, 1, ticket.Quantity)
		assert.True(t, ticket.IsActive)
		assert.False(t, ticket.IsRedeemed)
	})

	t.Run("not yet available", func(t *testing.T) {
		p := validPresentation()
		p.Schedule = ScheduleUpcoming(refNow)

		_, err := NewTicket(p, holder, 1, refNow)
		assert.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("quantity out of range", func(t *testing.T) {
		_, err := NewTicket(validPresentation(), holder, MaxTicketQuantity+1, refNow)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestTicketRedeem(t *testing.T) {
	t.Parallel()

	active := Ticket{IsActive: true}

	redeemed, err := active.Redeem()
	require.NoError(t, err)
	assert.True(t, redeemed.IsRedeemed)
	assert.False(t, active.IsRedeemed)

	_, err = redeemed.Redeem()
	assert.Equal(t, "ticket already redeemed", err.Error())

	_, err = Ticket{}.Redeem()
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestTicketDeactivateIsIdempotent(t *testing.T) {
	t.Parallel()

	once := Ticket{IsActive: true}.Deactivate()
	twice := once.Deactivate()

	assert.False(t, once.IsActive)
	assert.Equal(t, once, twice)
}
