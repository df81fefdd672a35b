package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`

	Email    string `gorm:"size:255;uniqueIndex:uni_users_email;not null"`
	Password string `gorm:"not null"`

	Name     string `gorm:"not null"`
	Lastname string `gorm:"not null"`
	IsActive bool   `gorm:"not null"`
	Roles    string `gorm:"size:255;not null"` // comma separated

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	return nil
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := conn(ctx, d.db).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	var user User

	result := conn(ctx, d.db).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := conn(ctx, d.db).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context, limit, offset int) ([]User, error) {
	var users []User

	result := conn(ctx, d.db).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Update writes every column of user. The password is left untouched.
func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	result := conn(ctx, d.db).
		Model(&User{ID: user.ID}).
		Select("email", "name", "lastname", "is_active", "roles", "updated_at").
		Updates(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return d.FindByID(ctx, user.ID)
}
