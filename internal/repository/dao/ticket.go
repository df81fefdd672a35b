package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	ID             uuid.UUID    `gorm:"type:char(36);primaryKey"`
	PresentationID uuid.UUID    `gorm:"type:char(36);not null;index"`
	Presentation   Presentation `gorm:"foreignKey:PresentationID;constraint:OnDelete:RESTRICT"`
	UserID         uuid.UUID    `gorm:"type:char(36);not null;index"`
	User           User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BuyDate        time.Time    `gorm:"not null"`
	IsActive       bool         `gorm:"not null"`
	IsRedeemed     bool         `gorm:"not null"`
	Quantity       int          `gorm:"not null"`
	CreatedAt      time.Time    `gorm:"not null"`
	UpdatedAt      time.Time    `gorm:"not null"`
}

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	return nil
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) Insert(ctx context.Context, t Ticket) (Ticket, error) {
	result := conn(ctx, d.db).Omit("Presentation", "User").Create(&t)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return Ticket{}, ErrPresentationNotFound
		}

		return Ticket{}, result.Error
	}

	return d.FindByID(ctx, t.ID)
}

func (d *TicketDAO) FindByID(ctx context.Context, id uuid.UUID) (Ticket, error) {
	var t Ticket

	result := conn(ctx, d.db).Preload("Presentation").First(&t, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return t, nil
}

func (d *TicketDAO) FindByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket

	result := conn(ctx, d.db).
		Preload("Presentation").
		Where("user_id = ?", userID).
		Order("buy_date DESC, id ASC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) UpdateState(ctx context.Context, t Ticket) (Ticket, error) {
	result := conn(ctx, d.db).
		Model(&Ticket{ID: t.ID}).
		Select("is_active", "is_redeemed", "updated_at").
		Updates(&t)
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	return d.FindByID(ctx, t.ID)
}

// CountByPresentation counts tickets of any state.
func (d *TicketDAO) CountByPresentation(ctx context.Context, presentationID uuid.UUID) (int64, error) {
	var n int64

	result := conn(ctx, d.db).Model(&Ticket{}).Where("presentation_id = ?", presentationID).Count(&n)
	if result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}

// CountByEvent counts tickets of any state under every presentation of the event.
func (d *TicketDAO) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var n int64

	result := conn(ctx, d.db).
		Model(&Ticket{}).
		Joins("JOIN presentations ON presentations.id = tickets.presentation_id").
		Where("presentations.event_id = ?", eventID).
		Count(&n)
	if result.Error != nil {
		return 0, result.Error
	}

	return n, nil
}
