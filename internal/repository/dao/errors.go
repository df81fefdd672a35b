package dao

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserEmailExists        = errors.New("user already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrEventNotFound          = errors.New("event not found")
	ErrPresentationNotFound   = errors.New("presentation not found")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrEventHasTickets        = errors.New("event has tickets")
	ErrPresentationHasTickets = errors.New("presentation has tickets")
	ErrConcurrentUpdate       = errors.New("concurrent update")
)

const (
	mysqlDuplicateEntry = 1062
	mysqlNoReferenced   = 1452
	mysqlDeadlock       = 1213
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.ForeignKeyViolation
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferenced
	}

	return false
}

// isSerializationFailure reports whether the store aborted a transaction
// because it raced with another one.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock
	}

	return false
}
