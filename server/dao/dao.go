// Package dao provides data access objects for use in the formulon
// evaluation server.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories the server needs.
type Store interface {
	Audit() AuditRepository
	Close() error
}

// AuditEntry is one row of the /eval call audit log: the source expression,
// the outcome of compiling and evaluating it, and how long the call took.
type AuditEntry struct {
	ID         uuid.UUID
	Source     string
	Result     float64
	ErrorIndex int
	TookMillis int64
	Created    time.Time
}

// AuditRepository persists a record of every evaluation the server performs.
type AuditRepository interface {
	Create(ctx context.Context, e AuditEntry) (AuditEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (AuditEntry, error)
	GetAll(ctx context.Context) ([]AuditEntry, error)
	Close() error
}
