package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type PresentationService interface {
	Create(ctx context.Context, p domain.Principal, eventID uuid.UUID, in domain.Presentation) (domain.Presentation, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, patch domain.PresentationPatch) (domain.Presentation, error)
	FindPublicByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Presentation, error)
	FindByEventForManager(ctx context.Context, p domain.Principal, eventID uuid.UUID) ([]domain.Presentation, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Presentation, error)
	GetUnrestricted(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.Presentation, error)
	Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error
}

type PresentationHandler struct {
	svc   PresentationService
	users PrincipalResolver
}

func NewPresentationHandler(svc PresentationService, users PrincipalResolver) *PresentationHandler {
	return &PresentationHandler{
		svc:   svc,
		users: users,
	}
}

// HandleCreatePresentation godoc
// @Summary      Add a presentation to an event
// @Tags         presentations
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                              true  "event id"
// @Param        request  body      request.CreatePresentationRequest   true  "request body"
// @Success      201      {object}  domain.Presentation
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/presentations [post]
// @Security BearerAuth
func (h *PresentationHandler) HandleCreatePresentation(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := uuidParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePresentationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	presentation, err := h.svc.Create(ctx.Request.Context(), p, eventID, req.Presentation())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, presentation)
}

// HandleListPublicPresentations godoc
// @Summary      List the relevant presentations of a public event
// @Description  Presentations that opened more than 12 hours ago are left out.
// @Tags         presentations
// @Produce      json
// @Param        eventID  path      string  true  "event id"
// @Success      200      {array}   domain.Presentation
// @Failure      400      {object}  response.Err
// @Router       /events/{eventID}/presentations [get]
func (h *PresentationHandler) HandleListPublicPresentations(ctx *gin.Context) {
	eventID, respErr := uuidParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	presentations, err := h.svc.FindPublicByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, presentations)
}

// HandleListManagedPresentations godoc
// @Summary      List every presentation of an owned event
// @Tags         presentations
// @Produce      json
// @Param        eventID  path      string  true  "event id"
// @Success      200      {array}   domain.Presentation
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/presentations/manage [get]
// @Security BearerAuth
func (h *PresentationHandler) HandleListManagedPresentations(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := uuidParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	presentations, err := h.svc.FindByEventForManager(ctx.Request.Context(), p, eventID)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, presentations)
}

// HandleGetPresentation godoc
// @Summary      Get a presentation of a public event
// @Tags         presentations
// @Produce      json
// @Param        presentationID  path      string  true  "presentation id"
// @Success      200             {object}  domain.Presentation
// @Failure      404             {object}  response.Err
// @Router       /presentations/{presentationID} [get]
func (h *PresentationHandler) HandleGetPresentation(ctx *gin.Context) {
	id, respErr := uuidParam(ctx, "presentationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	presentation, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, presentation)
}

// HandleGetPresentationUnrestricted godoc
// @Summary      Get a presentation regardless of event visibility
// @Tags         presentations
// @Produce      json
// @Param        presentationID  path      string  true  "presentation id"
// @Success      200             {object}  domain.Presentation
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Router       /presentations/{presentationID}/unrestricted [get]
// @Security BearerAuth
func (h *PresentationHandler) HandleGetPresentationUnrestricted(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "presentationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	presentation, err := h.svc.GetUnrestricted(ctx.Request.Context(), p, id)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, presentation)
}

// HandleUpdatePresentation godoc
// @Summary      Update a presentation
// @Description  The merged result is validated like a new presentation.
// @Tags         presentations
// @Accept       json
// @Produce      json
// @Param        presentationID  path      string                              true  "presentation id"
// @Param        request         body      request.UpdatePresentationRequest   true  "request body"
// @Success      200             {object}  domain.Presentation
// @Failure      400             {object}  response.Err
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Router       /presentations/{presentationID} [patch]
// @Security BearerAuth
func (h *PresentationHandler) HandleUpdatePresentation(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "presentationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdatePresentationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	presentation, err := h.svc.Update(ctx.Request.Context(), p, id, req.Patch())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, presentation)
}

// HandleDeletePresentation godoc
// @Summary      Delete a presentation
// @Description  Rejected once any ticket was issued for the presentation.
// @Tags         presentations
// @Param        presentationID  path      string  true  "presentation id"
// @Success      204
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      422             {object}  response.Err
// @Router       /presentations/{presentationID} [delete]
// @Security BearerAuth
func (h *PresentationHandler) HandleDeletePresentation(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "presentationID")
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
