package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

type IssueTicketRequest struct {
	Quantity int `json:"quantity"`
}

// Validate accepts a missing quantity, which the domain defaults to one.
func (req *IssueTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Min(0), validation.Max(domain.MaxTicketQuantity)),
	)
}
