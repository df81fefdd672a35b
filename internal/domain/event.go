package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	BannerPhotoURL string       `json:"banner_photo_url"`
	IsPublic       bool         `json:"is_public"`
	OwnerID        uuid.UUID    `json:"owner_id"`
	Owner          *UserSummary `json:"owner,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type EventPatch struct {
	Name           *string
	BannerPhotoURL *string
	IsPublic       *bool
}

// Hides reports whether applying the patch turns the event private.
func (p EventPatch) Hides() bool {
	return p.IsPublic != nil && !*p.IsPublic
}

func (e Event) Apply(p EventPatch) Event {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.BannerPhotoURL != nil {
		e.BannerPhotoURL = *p.BannerPhotoURL
	}
	if p.IsPublic != nil {
		e.IsPublic = *p.IsPublic
	}

	return e.Normalize()
}

func (e Event) Normalize() Event {
	e.Name = strings.TrimSpace(e.Name)
	e.BannerPhotoURL = strings.ToLower(strings.TrimSpace(e.BannerPhotoURL))

	return e
}

func (e Event) OwnedBy(id uuid.UUID) bool {
	return e.OwnerID != uuid.Nil && e.OwnerID == id
}
