package dao

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

type txKey struct{}

type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{
		db: db,
	}
}

// WithinTx runs fn in one serializable transaction. DAOs called with the ctx
// passed to fn join it. A transaction aborted by a concurrent writer comes back
// as ErrConcurrentUpdate.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil && isSerializationFailure(err) {
		return errors.Join(ErrConcurrentUpdate, err)
	}

	return err
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}

	return db.WithContext(ctx)
}
