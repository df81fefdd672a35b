package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/service"
)

type EventService interface {
	Create(ctx context.Context, p domain.Principal, in service.EventInput) (domain.Event, error)
	FindPublic(ctx context.Context, limit, offset int) ([]domain.Event, error)
	FindOwned(ctx context.Context, p domain.Principal) ([]domain.Event, error)
	Resolve(ctx context.Context, p domain.Principal, term string) (domain.Event, error)
	ResolveUnrestricted(ctx context.Context, p domain.Principal, term string) (domain.Event, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error
}

type EventHandler struct {
	svc   EventService
	users PrincipalResolver
}

func NewEventHandler(svc EventService, users PrincipalResolver) *EventHandler {
	return &EventHandler{
		svc:   svc,
		users: users,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Event-manager or admin. The caller becomes the owner.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.Create(ctx.Request.Context(), p, req.Input())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListPublicEvents godoc
// @Summary      List public events
// @Tags         events
// @Produce      json
// @Param        limit   query     int  false  "page size (default 10, max 100)"
// @Param        offset  query     int  false  "page offset"
// @Success      200     {array}   domain.Event
// @Failure      400     {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListPublicEvents(ctx *gin.Context) {
	limit, offset, respErr := pageQuery(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.FindPublic(ctx.Request.Context(), limit, offset)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleListOwnedEvents godoc
// @Summary      List the caller's events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /events/mine [get]
// @Security BearerAuth
func (h *EventHandler) HandleListOwnedEvents(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.FindOwned(ctx.Request.Context(), p)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event by id or name
// @Description  Private events are only visible to their owner and to admins.
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "event id or name"
// @Success      200      {object}  domain.Event
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.Resolve(ctx.Request.Context(), p, ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleGetEventUnrestricted godoc
// @Summary      Get an event regardless of visibility
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "event id or name"
// @Success      200      {object}  domain.Event
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/unrestricted [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEventUnrestricted(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.ResolveUnrestricted(ctx.Request.Context(), p, ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Hiding an event with sold tickets is rejected.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "event id"
// @Param        request  body      request.UpdateEventRequest  true  "request body"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /events/{eventID} [patch]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.Update(ctx.Request.Context(), p, id, req.Patch())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event and its presentations
// @Description  Rejected once any ticket was issued for the event.
// @Tags         events
// @Param        eventID  path      string  true  "event id"
// @Success      204
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), p, id); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
