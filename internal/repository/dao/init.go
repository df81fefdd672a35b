package dao

import (
	"context"

	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Presentation{},
		&Ticket{},
	)
}

// DeleteAll wipes every table children first. Only the seeder calls it.
func DeleteAll(ctx context.Context, db *gorm.DB) error {
	all := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&Ticket{}, &Presentation{}, &Event{}, &User{}} {
		if err := all.Delete(model).Error; err != nil {
			return err
		}
	}

	return nil
}
