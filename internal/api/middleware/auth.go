package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/pkg/jwthelper"
)

const (
	keyUserID         = "userID"
	keyTokenID        = "tokenID"
	keyTokenRemaining = "tokenRemaining"
)

var errMissingToken = errors.New("missing bearer token")

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Authenticator struct {
	signingKey []byte
	sessions   RevocationChecker
	clock      clock.Clock
}

func NewAuthenticator(signingKey string, sessions RevocationChecker, clk clock.Clock) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		sessions:   sessions,
		clock:      clk,
	}
}

// VerifyJWT rejects the request unless it carries a valid, unrevoked token
// issued to the same user agent.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := a.authenticate(ctx); err != nil {
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.Next()
	}
}

// OptionalJWT lets anonymous requests through. A request presenting a token
// still has it verified.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		if err := a.authenticate(ctx); err != nil {
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.Next()
	}
}

func (a *Authenticator) authenticate(ctx *gin.Context) error {
	raw, ok := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return domain.Unauthenticated("%s", errMissingToken.Error())
	}

	claims, err := jwthelper.ParseToken(a.signingKey, raw)
	if err != nil {
		return domain.Unauthenticated("invalid token")
	}
	if claims.UserAgent != ctx.Request.UserAgent() {
		return domain.Unauthenticated("token was issued to another client")
	}

	revoked, err := a.sessions.IsRevoked(ctx.Request.Context(), claims.ID)
	if err != nil {
		// Fail open when the denylist is unreachable.
		zap.L().Warn("token revocation check failed", zap.Error(err))
	}
	if revoked {
		return domain.Unauthenticated("token has been revoked")
	}

	ctx.Set(keyUserID, claims.UserID)
	ctx.Set(keyTokenID, claims.ID)
	ctx.Set(keyTokenRemaining, claims.Remaining(a.clock.Now()))

	return nil
}

// UserID returns the authenticated user id, if any.
func UserID(ctx *gin.Context) (uuid.UUID, bool) {
	v, ok := ctx.Get(keyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)

	return id, ok && id != uuid.Nil
}

func TokenID(ctx *gin.Context) string {
	return ctx.GetString(keyTokenID)
}

func TokenRemaining(ctx *gin.Context) time.Duration {
	return ctx.GetDuration(keyTokenRemaining)
}
