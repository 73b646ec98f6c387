package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collections known to the store.
const (
	Users    = "users"
	Profiles = "profiles"
	Posts    = "posts"
)

var (
	// ErrNotFound reports that no document matched a lookup or delete.
	ErrNotFound = errors.New("document not found")
	// ErrPreconditionFailed reports that a conditional update matched no
	// document. This is a normal outcome of a guarded write, not a fault:
	// either the document is missing or its current state fails the guard.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrDuplicate reports a unique-key violation on Create.
	ErrDuplicate = errors.New("duplicate key")
)

// ElemMatch selects array elements whose fields all equal Match.
type ElemMatch struct {
	Field string
	Match map[string]any
}

// Filter is a predicate over a document's current state. All clauses must
// hold. Contains requires a single array element carrying every Match pair;
// NotContains requires that no such element exists.
type Filter struct {
	ID          string
	Fields      map[string]string
	Contains    []ElemMatch
	NotContains []ElemMatch
}

// ArrayPush appends Value to the named array field; Front prepends instead.
type ArrayPush struct {
	Field string
	Value any
	Front bool
}

// Mutation describes the change half of a guarded update. Pull removes
// every element of the named array that carries all Match pairs.
type Mutation struct {
	Set  map[string]any
	Push []ArrayPush
	Pull []ElemMatch
}

// Sort orders FindMany results.
type Sort int

const (
	SortNone Sort = iota
	SortDateDesc
)

// Doc is a document to persist. Key is the collection's optional unique
// key (email for users, owning account id for profiles); Body is marshaled
// as the stored JSON and must carry its own "id" equal to ID. MergeOmit
// names top-level keys an Upsert merge must leave untouched on an existing
// document — sub-record arrays owned by the guarded operations.
type Doc struct {
	ID        string
	Key       string
	Body      any
	MergeOmit []string
}

// Store is the document persistence contract. ConditionalUpdate submits
// filter and mutation as one atomic write against a single document; it is
// never implemented as separate read and write round trips.
type Store interface {
	FindOne(ctx context.Context, collection string, f Filter, dest any) error
	FindMany(ctx context.Context, collection string, f Filter, s Sort) ([]json.RawMessage, error)
	Create(ctx context.Context, collection string, d Doc) error
	Upsert(ctx context.Context, collection string, d Doc, dest any) error
	ConditionalUpdate(ctx context.Context, collection string, f Filter, m Mutation, dest any) error
	Delete(ctx context.Context, collection string, f Filter) error
}
