package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

func TestPresentationService_CreateValidatesSchedule(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	event := h.newEvent(t, h.manager, "Ordered", true)

	schedule := domain.ScheduleOnSale(refNow)
	schedule.TicketAvailabilityDate = schedule.StartDate.Add(time.Hour)

	_, err := h.presentations.Create(ctx, h.manager.Principal(), event.ID, domain.Presentation{
		Place:       "Teatro Colon",
		City:        "Bogota",
		Capacity:    10,
		Description: "late availability",
		Schedule:    schedule,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	joined := strings.Join(domain.Violations(err), "|")
	assert.Contains(t, joined, "ticketAvailabilityDate")
	assert.Contains(t, joined, "startDate")
}

func TestPresentationService_CreateAuthorization(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	event := h.newEvent(t, h.manager, "Mine", true)
	other := h.addUser(t, "other.manager@ticktopia.io", domain.RoleEventManager)
	in := domain.Presentation{
		Place:       "Teatro Colon",
		City:        "Bogota",
		Capacity:    10,
		Description: "x",
		Schedule:    domain.ScheduleOnSale(refNow),
	}

	_, err := h.presentations.Create(ctx, other.Principal(), event.ID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = h.presentations.Create(ctx, h.manager.Principal(), uuid.New(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.presentations.Create(ctx, domain.Anonymous(), event.ID, in)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	created, err := h.presentations.Create(ctx, h.admin.Principal(), event.ID, in)
	require.NoError(t, err)
	assert.Equal(t, event.ID, created.EventID)
}

func TestPresentationService_UpdateRevalidatesMerged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	event := h.newEvent(t, h.manager, "Patchable", true)
	p := h.newPresentation(t, h.manager, event.ID, domain.ScheduleOnSale(refNow))

	tooEarly := p.TicketSaleAvailabilityDate.Add(-time.Hour)
	_, err := h.presentations.Update(ctx, h.manager.Principal(), p.ID, domain.PresentationPatch{StartDate: &tooEarly})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	city := "Medellin"
	updated, err := h.presentations.Update(ctx, h.manager.Principal(), p.ID, domain.PresentationPatch{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Medellin", updated.City)
	assert.Equal(t, p.StartDate, updated.StartDate)

	other := h.addUser(t, "other.manager@ticktopia.io", domain.RoleEventManager)
	_, err = h.presentations.Update(ctx, other.Principal(), p.ID, domain.PresentationPatch{City: &city})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPresentationService_DeleteGuardedByTickets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	event := h.newEvent(t, h.manager, "Guarded", true)
	empty := h.newPresentation(t, h.manager, event.ID, domain.ScheduleOnSale(refNow))
	sold := h.newPresentation(t, h.manager, event.ID, domain.ScheduleOnSale(refNow))

	other := h.addUser(t, "other.manager@ticktopia.io", domain.RoleEventManager)
	err := h.presentations.Delete(ctx, other.Principal(), empty.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, h.presentations.Delete(ctx, h.manager.Principal(), empty.ID))

	_, err = h.tickets.Issue(ctx, h.client.Principal(), sold.ID, 1)
	require.NoError(t, err)

	err = h.presentations.Delete(ctx, h.manager.Principal(), sold.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.presentations.GetUnrestricted(ctx, h.manager.Principal(), sold.ID)
	require.NoError(t, err)
}

func TestPresentationService_FindPublicByEvent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	event := h.newEvent(t, h.manager, "Listed", true)
	hidden := h.newEvent(t, h.manager, "Hidden", false)

	current := h.newPresentation(t, h.manager, event.ID, domain.ScheduleOnSale(refNow))
	h.newPresentation(t, h.manager, hidden.ID, domain.ScheduleOnSale(refNow))

	old := domain.Schedule{
		TicketSaleAvailabilityDate: refNow.Add(-72 * time.Hour),
		TicketAvailabilityDate:     refNow.Add(-48 * time.Hour),
		OpenDate:                   refNow.Add(-13 * time.Hour),
		StartDate:                  refNow.Add(-12 * time.Hour),
	}
	h.newPresentation(t, h.manager, event.ID, old)

	listed, err := h.presentations.FindPublicByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, current.ID, listed[0].ID)

	listed, err = h.presentations.FindPublicByEvent(ctx, hidden.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	all, err := h.presentations.FindByEventForManager(ctx, h.manager.Principal(), event.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = h.presentations.FindByEventForManager(ctx, h.client.Principal(), event.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPresentationService_GetHidesPrivateEvents(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	public := h.newEvent(t, h.manager, "Open", true)
	private := h.newEvent(t, h.manager, "Closed", false)
	visible := h.newPresentation(t, h.manager, public.ID, domain.ScheduleOnSale(refNow))
	invisible := h.newPresentation(t, h.manager, private.ID, domain.ScheduleOnSale(refNow))

	got, err := h.presentations.Get(ctx, visible.ID)
	require.NoError(t, err)
	assert.Equal(t, visible.ID, got.ID)

	_, err = h.presentations.Get(ctx, invisible.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.presentations.GetUnrestricted(ctx, h.manager.Principal(), invisible.ID)
	require.NoError(t, err)
}
