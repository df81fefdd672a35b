package domain

import (
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// RelevanceWindow is how long after its open date a presentation is still
// listed publicly.
const RelevanceWindow = 12 * time.Hour

type Presentation struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	Event       *Event    `json:"event,omitempty"`
	Place       string    `json:"place"`
	City        string    `json:"city"`
	Capacity    int       `json:"capacity"`
	Price       float64   `json:"price"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	Schedule
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PresentationPatch struct {
	Place                      *string
	City                       *string
	Capacity                   *int
	Price                      *float64
	Latitude                   *float64
	Longitude                  *float64
	Description                *string
	OpenDate                   *time.Time
	StartDate                  *time.Time
	TicketAvailabilityDate     *time.Time
	TicketSaleAvailabilityDate *time.Time
}

// Apply overlays the patch on p. The result must be validated as a whole.
func (p Presentation) Apply(patch PresentationPatch) Presentation {
	if patch.Place != nil {
		p.Place = *patch.Place
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Capacity != nil {
		p.Capacity = *patch.Capacity
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Latitude != nil {
		p.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		p.Longitude = *patch.Longitude
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.OpenDate != nil {
		p.OpenDate = *patch.OpenDate
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.TicketAvailabilityDate != nil {
		p.TicketAvailabilityDate = *patch.TicketAvailabilityDate
	}
	if patch.TicketSaleAvailabilityDate != nil {
		p.TicketSaleAvailabilityDate = *patch.TicketSaleAvailabilityDate
	}

	return p
}

func (p Presentation) Validate() error {
	var violations []string

	err := validation.ValidateStruct(&p,
		validation.Field(&p.Place, validation.Required),
		validation.Field(&p.City, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&p.Price, validation.Min(0.0)),
		validation.Field(&p.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
	if errs, ok := err.(validation.Errors); ok {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			violations = append(violations, fmt.Sprintf("%s: %v", k, errs[k]))
		}
	} else if err != nil {
		return Internal(err)
	}

	violations = append(violations, p.Schedule.Violations()...)
	if len(violations) > 0 {
		return Validation(violations...)
	}

	return nil
}

// StillRelevant reports whether the open date lies no more than
// RelevanceWindow in the past.
func (p Presentation) StillRelevant(now time.Time) bool {
	return !p.OpenDate.Before(now.Add(-RelevanceWindow))
}
