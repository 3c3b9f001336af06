package repositories

import (
	"database/sql"
	"errors"
)

// Common repository errors.
var (
	ErrNotFound      = errors.New("requested record not found")
	ErrDatabaseError = errors.New("database operation failed")
	ErrDuplicateKey  = errors.New("duplicate key value violates unique constraint")
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repository
// methods can run inside or outside an explicit transaction.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}
