package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name           string    `gorm:"size:255;not null;index"`
	BannerPhotoURL string    `gorm:"size:255;not null"`
	IsPublic       bool      `gorm:"not null;index"`
	OwnerID        uuid.UUID `gorm:"type:char(36);not null;index"`
	Owner          User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	return nil
}

// EventLookup selects a single event. Exactly one of ID or Name is set; Name
// matches case-insensitively.
type EventLookup struct {
	ID         uuid.UUID
	Name       string
	PublicOnly bool
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := conn(ctx, d.db).Omit("Owner").Create(&event)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return Event{}, ErrUserNotFound
		}

		return Event{}, result.Error
	}

	return d.FindOne(ctx, EventLookup{ID: event.ID})
}

func (d *EventDAO) FindOne(ctx context.Context, lookup EventLookup) (Event, error) {
	var event Event

	q := conn(ctx, d.db).Preload("Owner")
	if lookup.ID != uuid.Nil {
		q = q.Where("id = ?", lookup.ID)
	} else {
		q = q.Where("LOWER(name) = LOWER(?)", lookup.Name)
	}
	if lookup.PublicOnly {
		q = q.Where("is_public = ?", true)
	}

	result := q.Order("created_at ASC, id ASC").First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindPublic(ctx context.Context, limit, offset int) ([]Event, error) {
	var events []Event

	result := conn(ctx, d.db).
		Preload("Owner").
		Where("is_public = ?", true).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Event, error) {
	var events []Event

	result := conn(ctx, d.db).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := conn(ctx, d.db).
		Model(&Event{ID: event.ID}).
		Select("name", "banner_photo_url", "is_public", "updated_at").
		Updates(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return d.FindOne(ctx, EventLookup{ID: event.ID})
}

// DeleteIfNoTickets removes the presentations of the event, then the event,
// as long as no ticket exists under any of them. Run it inside WithinTx so a
// refusal leaves nothing half deleted.
func (d *EventDAO) DeleteIfNoTickets(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, d.db)

	result := db.
		Where("event_id = ?", id).
		Where("NOT EXISTS (SELECT 1 FROM tickets WHERE tickets.presentation_id = presentations.id)").
		Delete(&Presentation{})
	if result.Error != nil {
		return result.Error
	}

	result = db.
		Where("id = ?", id).
		Where("NOT EXISTS (SELECT 1 FROM presentations WHERE presentations.event_id = events.id)").
		Delete(&Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventHasTickets
	}

	return nil
}
