package ports

import (
	"context"

	"vector-pai/domain/entities"
)

// ItemStore performs single-item conditional operations against the table.
// Implementations never retry; failures surface as classified AppErrors.
type ItemStore interface {
	// Create puts item only if its key does not exist yet (ConflictError otherwise)
	Create(ctx context.Context, item interface{}) error

	// Get reads the item at key into out (NotFoundError when absent)
	Get(ctx context.Context, key entities.Key, out interface{}) error

	// Update applies changes to an existing item and reads the new image into out
	// (NotFoundError when absent)
	Update(ctx context.Context, key entities.Key, changes entities.Changes, out interface{}) error

	// Delete removes an existing item and reads the prior image into out
	// (NotFoundError when absent)
	Delete(ctx context.Context, key entities.Key, out interface{}) error

	// Query reads one page of a partition of the table or an index into out,
	// a pointer to a slice. The returned cursor is empty on the last page.
	Query(ctx context.Context, q Query, out interface{}) (string, error)

	// Scan reads one page of the whole table into out
	Scan(ctx context.Context, s ScanQuery, out interface{}) (string, error)
}

// Condition is an equality filter on a non-key attribute
type Condition struct {
	Attr  string
	Value interface{}
}

// Query selects items sharing a partition key, optionally narrowed by a sort key prefix
type Query struct {
	Index          string
	PartitionAttr  string
	PartitionValue string
	SortAttr       string
	SortPrefix     string
	Filters        []Condition
	Limit          int32
	Cursor         string
}

// ScanQuery selects items across the table. Reserved for list-all operations.
type ScanQuery struct {
	Filters []Condition
	Limit   int32
	Cursor  string
}
