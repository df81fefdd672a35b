package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/ticktopia-api/internal/api/middleware"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/config"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/ticktopia-api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.User, error)
	RegisterManager(ctx context.Context, p domain.Principal, in service.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	Logout(ctx context.Context, p domain.Principal, tokenID string, remaining time.Duration) error
}

type AuthHandler struct {
	conf  *config.APIConfig
	svc   AuthService
	users PrincipalResolver
	clock clock.Clock
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, users PrincipalResolver, clk clock.Clock) *AuthHandler {
	return &AuthHandler{
		conf:  conf,
		svc:   svc,
		users: users,
		clock: clk,
	}
}

func registerInput(req request.RegisterRequest) service.RegisterInput {
	return service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Lastname: req.Lastname,
	}
}

// HandleRegister godoc
// @Summary      Register a new client account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterRequest true "request body"
// @Success      201      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), registerInput(req))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleRegisterManager godoc
// @Summary      Register an event-manager account
// @Description  Admin only.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterRequest true "request body"
// @Success      201      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /auth/register-manager [post]
// @Security BearerAuth
func (h *AuthHandler) HandleRegisterManager(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.RegisterManager(ctx.Request.Context(), p, registerInput(req))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Login a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest true "request body"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	now := h.clock.Now()
	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), h.conf.JWTTTL, user.ID, ctx.Request.UserAgent(), now)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(h.conf.JWTTTL),
		User:      user,
	})
}

// HandleLogout godoc
// @Summary      Logout
// @Description  Revokes the presented token until it expires.
// @Tags         auth
// @Success      204
// @Failure      401      {object}  response.Err
// @Router       /auth/logout [post]
// @Security BearerAuth
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	p, respErr := principal(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.Logout(ctx.Request.Context(), p, middleware.TokenID(ctx), middleware.TokenRemaining(ctx))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
