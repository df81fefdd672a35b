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

type UserService interface {
	PrincipalResolver
	List(ctx context.Context, p domain.Principal, limit, offset int) ([]domain.User, error)
	Get(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.User, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
	Deactivate(ctx context.Context, p domain.Principal, id uuid.UUID) (domain.User, error)
	SetRoles(ctx context.Context, p domain.Principal, id uuid.UUID, roles []domain.Role) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleListUsers godoc
// @Summary      List users
// @Description  Admin only.
// @Tags         users
// @Produce      json
// @Param        limit   query     int  false  "page size (default 10, max 100)"
// @Param        offset  query     int  false  "page offset"
// @Success      200     {array}   domain.User
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Router       /users [get]
// @Security BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	p, respErr := principal(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit, offset, respErr := pageQuery(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	users, err := h.svc.List(ctx.Request.Context(), p, limit, offset)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        userID  path      string  true  "user id"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	p, respErr := principal(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.Get(ctx.Request.Context(), p, id)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateUser godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID   path      string                       true  "user id"
// @Param        request  body      request.UpdateUserRequest    true  "request body"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /users/{userID} [patch]
// @Security BearerAuth
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	p, respErr := principal(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Update(ctx.Request.Context(), p, id, req.Patch())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Deactivate own account
// @Tags         users
// @Produce      json
// @Param        userID  path      string  true  "user id"
// @Success      200     {object}  domain.User
// @Failure      403     {object}  response.Err
// @Failure      422     {object}  response.Err
// @Router       /users/{userID} [delete]
// @Security BearerAuth
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	p, respErr := principal(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.Deactivate(ctx.Request.Context(), p, id)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleSetRoles godoc
// @Summary      Replace the roles of a user
// @Description  Admin only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID   path      string                    true  "user id"
// @Param        request  body      request.SetRolesRequest   true  "request body"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /users/{userID}/roles [put]
// @Security BearerAuth
func (h *UserHandler) HandleSetRoles(ctx *gin.Context) {
	p, respErr := principal(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SetRolesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.SetRoles(ctx.Request.Context(), p, id, req.DomainRoles())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}
