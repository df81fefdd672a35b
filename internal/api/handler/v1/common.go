package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/ticktopia-api/internal/api/middleware"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

// PrincipalResolver turns the token subject into a principal with the roles
// currently stored for that user.
type PrincipalResolver interface {
	Authenticate(ctx context.Context, id uuid.UUID) (domain.Principal, error)
}

// principal returns the anonymous principal for requests without a token.
func principal(ctx *gin.Context, users PrincipalResolver) (domain.Principal, *response.Err) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		return domain.Anonymous(), nil
	}

	p, err := users.Authenticate(ctx.Request.Context(), id)
	if err != nil {
		return domain.Principal{}, response.FromError(err)
	}

	return p, nil
}

func uuidParam(ctx *gin.Context, name string) (uuid.UUID, *response.Err) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, response.ErrBadRequest(fmt.Errorf("%s must be a valid id", name))
	}

	return id, nil
}

func pageQuery(ctx *gin.Context) (int, int, *response.Err) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil {
		return 0, 0, response.ErrBadRequest(errors.New("limit must be a number"))
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, response.ErrBadRequest(errors.New("offset must be a number"))
	}

	return limit, offset, nil
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Healthcheck
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Healthcheck{Status: "ok"})
}
