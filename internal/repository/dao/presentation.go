package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Presentation struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	EventID     uuid.UUID `gorm:"type:char(36);not null;index"`
	Event       Event     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Place       string    `gorm:"not null"`
	City        string    `gorm:"not null"`
	Capacity    int       `gorm:"not null"`
	Price       float64   `gorm:"not null"`
	Latitude    float64   `gorm:"not null"`
	Longitude   float64   `gorm:"not null"`
	Description string    `gorm:"type:text;not null"`

	OpenDate                   time.Time `gorm:"not null;index"`
	StartDate                  time.Time `gorm:"not null"`
	TicketAvailabilityDate     time.Time `gorm:"not null"`
	TicketSaleAvailabilityDate time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (p *Presentation) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	return nil
}

// PresentationFilter narrows FindByEvent. The zero value returns everything.
type PresentationFilter struct {
	PublicOnly bool
	OpenAfter  time.Time
}

type PresentationDAO struct {
	db *gorm.DB
}

func NewPresentationDAO(db *gorm.DB) *PresentationDAO {
	return &PresentationDAO{
		db: db,
	}
}

func (d *PresentationDAO) Insert(ctx context.Context, p Presentation) (Presentation, error) {
	result := conn(ctx, d.db).Omit("Event").Create(&p)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return Presentation{}, ErrEventNotFound
		}

		return Presentation{}, result.Error
	}

	return d.FindByID(ctx, p.ID)
}

func (d *PresentationDAO) FindByID(ctx context.Context, id uuid.UUID) (Presentation, error) {
	var p Presentation

	result := conn(ctx, d.db).Preload("Event.Owner").First(&p, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Presentation{}, ErrPresentationNotFound
		}

		return Presentation{}, result.Error
	}

	return p, nil
}

func (d *PresentationDAO) FindByEvent(ctx context.Context, eventID uuid.UUID, filter PresentationFilter) ([]Presentation, error) {
	var presentations []Presentation

	q := conn(ctx, d.db).
		Preload("Event.Owner").
		Where("presentations.event_id = ?", eventID)
	if filter.PublicOnly {
		q = q.Joins("JOIN events ON events.id = presentations.event_id AND events.is_public = ?", true)
	}
	if !filter.OpenAfter.IsZero() {
		q = q.Where("presentations.open_date >= ?", filter.OpenAfter)
	}

	result := q.Order("presentations.open_date ASC, presentations.id ASC").Find(&presentations)
	if result.Error != nil {
		return nil, result.Error
	}

	return presentations, nil
}

func (d *PresentationDAO) Update(ctx context.Context, p Presentation) (Presentation, error) {
	result := conn(ctx, d.db).
		Model(&Presentation{ID: p.ID}).
		Select(
			"place", "city", "capacity", "price", "latitude", "longitude", "description",
			"open_date", "start_date", "ticket_availability_date", "ticket_sale_availability_date",
			"updated_at",
		).
		Updates(&p)
	if result.Error != nil {
		return Presentation{}, result.Error
	}

	return d.FindByID(ctx, p.ID)
}

// DeleteIfNoTickets is a conditional delete: the row goes only when no ticket
// references it at the moment of the write.
func (d *PresentationDAO) DeleteIfNoTickets(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, d.db).
		Where("id = ?", id).
		Where("NOT EXISTS (SELECT 1 FROM tickets WHERE tickets.presentation_id = presentations.id)").
		Delete(&Presentation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPresentationHasTickets
	}

	return nil
}
