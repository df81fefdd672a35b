package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/service"
)

type CreateEventRequest struct {
	Name           string `json:"name"`
	BannerPhotoURL string `json:"banner_photo_url"`
	IsPublic       *bool  `json:"is_public"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.BannerPhotoURL, is.URL),
	)
}

func (req *CreateEventRequest) Input() service.EventInput {
	return service.EventInput{
		Name:           req.Name,
		BannerPhotoURL: req.BannerPhotoURL,
		IsPublic:       req.IsPublic,
	}
}

type UpdateEventRequest struct {
	Name           *string `json:"name"`
	BannerPhotoURL *string `json:"banner_photo_url"`
	IsPublic       *bool   `json:"is_public"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.BannerPhotoURL, is.URL),
	)
}

func (req *UpdateEventRequest) Patch() domain.EventPatch {
	return domain.EventPatch{
		Name:           req.Name,
		BannerPhotoURL: req.BannerPhotoURL,
		IsPublic:       req.IsPublic,
	}
}
