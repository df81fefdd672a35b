package response

import (
	"time"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

type Healthcheck struct {
	Status string `json:"status"`
}
