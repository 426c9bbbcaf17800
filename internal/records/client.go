// Package records provides an abstraction layer for the remote data service
// that persists the application's records (posts, likes, saves). It exposes a
// small relational surface (filtered selects, inserts, deletes, exact counts)
// so the core services can talk to the collaborator without
// knowing whether it is reached over HTTP or a direct database connection.
package records

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record is a single row returned by the data service, keyed by column name.
type Record map[string]any

// Filter restricts an operation to rows where Column equals Value.
type Filter struct {
	Column string
	Value  any
}

// Order describes the sort applied to a select.
type Order struct {
	Column     string
	Descending bool
}

// SelectOptions carries the optional parts of a select query.
type SelectOptions struct {
	Filters []Filter
	Order   *Order
	Limit   int // 0 means no limit
}

// Client provides access to the remote data service.
// Implementations must be safe for concurrent use.
type Client interface {
	// Select returns all rows of table matching opts, in the requested order.
	Select(ctx context.Context, table string, opts SelectOptions) ([]Record, error)

	// Insert writes a new row and returns the stored representation,
	// including server-assigned columns (id, created_at).
	Insert(ctx context.Context, table string, record Record) (Record, error)

	// Delete removes the rows matching every filter.
	Delete(ctx context.Context, table string, filters ...Filter) error

	// Count returns the exact number of rows matching every filter.
	Count(ctx context.Context, table string, filters ...Filter) (int, error)
}

// DecodeInto unmarshals a slice of records into a slice of typed values via
// their JSON representation. dst must be a pointer to a slice.
func DecodeInto(recs []Record, dst any) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	return nil
}
