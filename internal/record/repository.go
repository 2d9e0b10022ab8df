// Package record provides concurrent keyed storage for domain records.
// Records are value snapshots identified by a positive integer; an
// identifier of 0 means "not yet assigned".
package record

import "context"

// Entity is implemented by value types that can be stored in a Repository.
// WithID must return a copy of the receiver carrying the given identifier
// and must not modify the receiver.
type Entity[T any] interface {
	GetID() int
	WithID(id int) T
}

// Repository defines the interface for record persistence.
// It acts as a port in the hexagonal architecture pattern.
//
// A missing record is an expected outcome and is reported through the
// boolean results, never as an error.
type Repository[T Entity[T]] interface {
	// Save stores a record. A record with ID 0 gets a freshly allocated
	// identifier; any other ID is stored as-is, overwriting an existing
	// entry. Returns the stored record.
	Save(ctx context.Context, rec T) T

	// FindByID retrieves a record by its identifier.
	FindByID(ctx context.Context, id int) (T, bool)

	// FindAll returns a snapshot of all records. Callers must not rely on
	// the order.
	FindAll(ctx context.Context) []T

	// Update replaces the record stored under rec's ID. It reports false
	// and changes nothing when no such record exists.
	Update(ctx context.Context, rec T) bool

	// UpdateFunc atomically replaces the record stored under id with
	// fn(current). The result keeps id whatever fn returns. It reports false
	// and does not call fn when no such record exists.
	UpdateFunc(ctx context.Context, id int, fn func(current T) T) bool

	// DeleteByID removes a record and reports whether it was present.
	DeleteByID(ctx context.Context, id int) bool
}
