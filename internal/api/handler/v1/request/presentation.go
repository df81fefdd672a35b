package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

// Date rules are checked by the domain so every ordering violation is
// reported at once; requests only reject malformed input.
type CreatePresentationRequest struct {
	Place                      string    `json:"place"`
	City                       string    `json:"city"`
	Capacity                   int       `json:"capacity"`
	Price                      float64   `json:"price"`
	Latitude                   float64   `json:"latitude"`
	Longitude                  float64   `json:"longitude"`
	Description                string    `json:"description"`
	OpenDate                   time.Time `json:"open_date"`
	StartDate                  time.Time `json:"start_date"`
	TicketAvailabilityDate     time.Time `json:"ticket_availability_date"`
	TicketSaleAvailabilityDate time.Time `json:"ticket_sale_availability_date"`
}

func (req *CreatePresentationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Place, validation.Length(0, 255)),
		validation.Field(&req.City, validation.Length(0, 255)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}

func (req *CreatePresentationRequest) Presentation() domain.Presentation {
	return domain.Presentation{
		Place:       req.Place,
		City:        req.City,
		Capacity:    req.Capacity,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		Schedule: domain.Schedule{
			TicketSaleAvailabilityDate: req.TicketSaleAvailabilityDate.UTC(),
			TicketAvailabilityDate:     req.TicketAvailabilityDate.UTC(),
			OpenDate:                   req.OpenDate.UTC(),
			StartDate:                  req.StartDate.UTC(),
		},
	}
}

type UpdatePresentationRequest struct {
	Place                      *string    `json:"place"`
	City                       *string    `json:"city"`
	Capacity                   *int       `json:"capacity"`
	Price                      *float64   `json:"price"`
	Latitude                   *float64   `json:"latitude"`
	Longitude                  *float64   `json:"longitude"`
	Description                *string    `json:"description"`
	OpenDate                   *time.Time `json:"open_date"`
	StartDate                  *time.Time `json:"start_date"`
	TicketAvailabilityDate     *time.Time `json:"ticket_availability_date"`
	TicketSaleAvailabilityDate *time.Time `json:"ticket_sale_availability_date"`
}

func (req *UpdatePresentationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Place, validation.Length(0, 255)),
		validation.Field(&req.City, validation.Length(0, 255)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}

func (req *UpdatePresentationRequest) Patch() domain.PresentationPatch {
	return domain.PresentationPatch{
		Place:                      req.Place,
		City:                       req.City,
		Capacity:                   req.Capacity,
		Price:                      req.Price,
		Latitude:                   req.Latitude,
		Longitude:                  req.Longitude,
		Description:                req.Description,
		OpenDate:                   utc(req.OpenDate),
		StartDate:                  utc(req.StartDate),
		TicketAvailabilityDate:     utc(req.TicketAvailabilityDate),
		TicketSaleAvailabilityDate: utc(req.TicketSaleAvailabilityDate),
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()

	return &u
}
