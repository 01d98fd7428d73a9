// Package store provides the generic document-store gateway every
// repository is built on: create/get/update/delete/query keyed by
// collection name and document id.
package store

import (
	"context"
	"errors"
)

// Collection names used by the application.
const (
	CollectionUsers     = "users"
	CollectionQuizzes   = "quizzes"
	CollectionResults   = "results"
	CollectionFavorites = "favorites"
	CollectionRatings   = "ratings"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned by UpdateIf when the guard no longer matches
	// the stored document.
	ErrConflict = errors.New("document was modified concurrently")

	// ErrIndexNotReady is returned by hinted queries when the named
	// composite index has not been provisioned. It is the only error that
	// callers react to with an automatic fallback path.
	ErrIndexNotReady = errors.New("composite index not ready")
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "=="
	OpNeq Op = "!="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

// Filter is one field comparison; a query's filters form a conjunction.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Eq is shorthand for an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Order is a single-field ordering.
type Order struct {
	Field string
	Desc  bool
}

// Query describes a filtered read. Hint names the composite index the
// backend must serve the query from; a hinted query against a missing
// index fails with ErrIndexNotReady instead of silently scanning.
type Query struct {
	Filters []Filter
	OrderBy *Order
	Limit   int
	Hint    string
}

// Store is the gateway contract. Create overwrites any existing document
// at the key (it is not insert-if-absent). Get decodes into out or returns
// ErrNotFound. Update merges fields into an existing document and fails
// with ErrNotFound when it is absent. UpdateIf additionally requires the
// guard fields to match the stored document, returning ErrConflict when
// they no longer do. Delete is a no-op for absent documents. Query decodes
// all matching documents into out (a pointer to a slice).
type Store interface {
	Create(ctx context.Context, collection, id string, doc any) error
	Get(ctx context.Context, collection, id string, out any) error
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	UpdateIf(ctx context.Context, collection, id string, guard map[string]any, patch map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, q Query, out any) error
}
