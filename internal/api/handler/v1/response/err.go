package response

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type Err struct {
	HTTPStatusCode int      `json:"-"`
	Err            error    `json:"-"`
	StatusText     string   `json:"status"`
	Kind           string   `json:"kind,omitempty"`
	ErrorMsg       string   `json:"error,omitempty"`
	Violations     []string `json:"violations,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

// RenderErr writes e as JSON. Server-side failures are logged with the request
// id so they can be matched with the access log.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Err:            err,
		StatusText:     http.StatusText(http.StatusBadRequest),
		Kind:           string(domain.KindValidation),
		ErrorMsg:       err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Err:            err,
		StatusText:     http.StatusText(http.StatusInternalServerError),
		Kind:           string(domain.KindInternal),
		ErrorMsg:       "internal error",
	}
}

func ErrTooManyRequests() *Err {
	return &Err{
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     http.StatusText(http.StatusTooManyRequests),
		ErrorMsg:       "rate limit exceeded",
	}
}

var statusByKind = map[domain.ErrorKind]int{
	domain.KindUnauthenticated: http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindValidation:      http.StatusBadRequest,
	domain.KindConflict:        http.StatusConflict,
	domain.KindInvalidState:    http.StatusUnprocessableEntity,
	domain.KindInternal:        http.StatusInternalServerError,
}

// FromError renders any error returned by a service. Untyped errors are
// treated as internal and their text is never sent to the client.
func FromError(err error) *Err {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal {
		return ErrInternalServerError(err)
	}

	status, ok := statusByKind[de.Kind]
	if !ok {
		return ErrInternalServerError(err)
	}

	return &Err{
		HTTPStatusCode: status,
		Err:            err,
		StatusText:     http.StatusText(status),
		Kind:           string(de.Kind),
		ErrorMsg:       de.Error(),
		Violations:     domain.Violations(err),
	}
}
