package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unauthenticated", err: domain.Unauthenticated("wrong credentials"), wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: domain.Forbidden("nope"), wantStatus: http.StatusForbidden},
		{name: "not found", err: domain.NotFound("event not found"), wantStatus: http.StatusNotFound},
		{name: "validation", err: domain.Validation("capacity: must be no less than 1"), wantStatus: http.StatusBadRequest},
		{name: "conflict", err: domain.Conflict(errors.New("dup"), "email already registered"), wantStatus: http.StatusConflict},
		{name: "invalid state", err: domain.InvalidState("ticket already redeemed"), wantStatus: http.StatusUnprocessableEntity},
		{name: "wrapped", err: fmt.Errorf("op -> %w", domain.NotFound("ticket not found")), wantStatus: http.StatusNotFound},
		{name: "internal", err: domain.Internal(errors.New("db down")), wantStatus: http.StatusInternalServerError},
		{name: "untyped", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, got.HTTPStatusCode)
			assert.Equal(t, http.StatusText(tt.wantStatus), got.StatusText)
		})
	}
}

func TestFromErrorHidesInternalCause(t *testing.T) {
	got := FromError(errors.New("dial tcp 10.0.0.1:5432"))
	assert.Equal(t, "internal error", got.ErrorMsg)
}

func TestFromErrorCarriesViolations(t *testing.T) {
	got := FromError(domain.Validation("openDate <= startDate", "ticketAvailabilityDate < openDate"))
	assert.Equal(t, []string{"openDate <= startDate", "ticketAvailabilityDate < openDate"}, got.Violations)
	assert.Equal(t, string(domain.KindValidation), got.Kind)
}
