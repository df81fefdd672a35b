package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type TicketService interface {
	Issue(ctx context.Context, p domain.Principal, presentationID uuid.UUID, quantity int) (domain.Ticket, error)
	Redeem(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Ticket, error)
	Deactivate(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Ticket, error)
	Get(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Ticket, error)
	ListMine(ctx context.Context, p domain.Principal) ([]domain.Ticket, error)
}

type TicketHandler struct {
	svc   TicketService
	users PrincipalResolver
}

func NewTicketHandler(svc TicketService, users PrincipalResolver) *TicketHandler {
	return &TicketHandler{
		svc:   svc,
		users: users,
	}
}

// HandleIssueTicket godoc
// @Summary      Buy tickets for a presentation
// @Description  Only between the ticket availability date and the start date.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        presentationID  path      string                       true   "presentation id"
// @Param        request         body      request.IssueTicketRequest   false  "request body"
// @Success      201             {object}  domain.Ticket
// @Failure      400             {object}  response.Err
// @Failure      401             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      422             {object}  response.Err
// @Router       /presentations/{presentationID}/tickets [post]
// @Security BearerAuth
func (h *TicketHandler) HandleIssueTicket(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	presentationID, respErr := uuidParam(ctx, "presentationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.IssueTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.Issue(ctx.Request.Context(), p, presentationID, req.Quantity)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// HandleListMyTickets godoc
// @Summary      List the caller's tickets
// @Tags         tickets
// @Produce      json
// @Success      200  {array}   domain.Ticket
// @Failure      401  {object}  response.Err
// @Router       /tickets/mine [get]
// @Security BearerAuth
func (h *TicketHandler) HandleListMyTickets(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.svc.ListMine(ctx.Request.Context(), p)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetTicket godoc
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path      string  true  "ticket id"
// @Success      200       {object}  domain.Ticket
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /tickets/{ticketID} [get]
// @Security BearerAuth
func (h *TicketHandler) HandleGetTicket(ctx *gin.Context) {
	h.handleTicket(ctx, h.svc.Get)
}

// HandleRedeemTicket godoc
// @Summary      Redeem a ticket at the entrance
// @Description  Ticket-checker or admin.
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path      string  true  "ticket id"
// @Success      200       {object}  domain.Ticket
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      422       {object}  response.Err
// @Router       /tickets/{ticketID}/redeem [post]
// @Security BearerAuth
func (h *TicketHandler) HandleRedeemTicket(ctx *gin.Context) {
	h.handleTicket(ctx, h.svc.Redeem)
}

// HandleDeactivateTicket godoc
// @Summary      Deactivate a ticket
// @Description  Holder or admin. Deactivating twice is a no-op.
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path      string  true  "ticket id"
// @Success      200       {object}  domain.Ticket
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /tickets/{ticketID}/deactivate [post]
// @Security BearerAuth
func (h *TicketHandler) HandleDeactivateTicket(ctx *gin.Context) {
	h.handleTicket(ctx, h.svc.Deactivate)
}

func (h *TicketHandler) handleTicket(ctx *gin.Context, op func(context.Context, domain.Principal, uuid.UUID) (domain.Ticket, error)) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "ticketID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticket, err := op(ctx.Request.Context(), p, id)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}
