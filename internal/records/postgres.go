package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/lib/pq"
)

// postgresClient implements Client directly against the data service's
// Postgres database. Rows travel as JSON (row_to_json) so the client stays
// generic over table shapes, matching what the REST surface returns.
type postgresClient struct {
	db *sql.DB
}

// Ensure postgresClient implements Client.
var _ Client = (*postgresClient)(nil)

// NewPostgresClient wraps an open database handle as a record-service client.
// The caller owns the handle and its lifecycle.
func NewPostgresClient(db *sql.DB) Client {
	return &postgresClient{db: db}
}

// OpenPostgres connects to the data service's database and verifies the
// connection before returning a client.
func OpenPostgres(ctx context.Context, dsn string) (Client, *sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &postgresClient{db: db}, db, nil
}

// identPattern restricts table and column names to plain SQL identifiers.
// Identifiers come from this codebase, not user input, but filters carry
// caller-supplied column names so they are validated before interpolation.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid identifier %q", ErrBadRequest, name)
	}
	return nil
}

// sqlArg adapts record values database/sql cannot pass natively. Slice values
// (post image paths) become Postgres arrays via pq.Array; the REST surface
// sends the same columns as JSON arrays.
func sqlArg(v any) any {
	switch v.(type) {
	case nil, []byte:
		return v
	}
	if reflect.TypeOf(v).Kind() == reflect.Slice {
		return pq.Array(v)
	}
	return v
}

// whereClause renders the filters as a parameterized WHERE clause starting at
// placeholder $1. Returns the clause (possibly empty) and the argument list.
func whereClause(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	conds := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for i, f := range filters {
		if err := checkIdent(f.Column); err != nil {
			return "", nil, err
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", f.Column, i+1))
		args = append(args, sqlArg(f.Value))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (c *postgresClient) Select(ctx context.Context, table string, opts SelectOptions) ([]Record, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	where, args, err := whereClause(opts.Filters)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT row_to_json(%s) FROM %s%s", table, table, where)
	if opts.Order != nil {
		if err := checkIdent(opts.Order.Column); err != nil {
			return nil, err
		}
		query += " ORDER BY " + opts.Order.Column
		if opts.Order.Descending {
			query += " DESC"
		}
	}
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("select %s: scan row: %w", table, err)
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("select %s: decode row: %w", table, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return recs, nil
}

func (c *postgresClient) Insert(ctx context.Context, table string, record Record) (Record, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	if len(record) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrBadRequest)
	}

	// Deterministic column order keeps queries stable across calls.
	cols := make([]string, 0, len(record))
	for col := range record {
		if err := checkIdent(col); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = sqlArg(record[col])
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING row_to_json(%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), table,
	)

	var raw []byte
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("insert %s: %w", table, ErrConflict)
		}
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}

	var inserted Record
	if err := json.Unmarshal(raw, &inserted); err != nil {
		return nil, fmt.Errorf("insert %s: decode row: %w", table, err)
	}
	return inserted, nil
}

func (c *postgresClient) Delete(ctx context.Context, table string, filters ...Filter) error {
	if err := checkIdent(table); err != nil {
		return err
	}
	where, args, err := whereClause(filters)
	if err != nil {
		return err
	}

	if _, err := c.db.ExecContext(ctx, "DELETE FROM "+table+where, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (c *postgresClient) Count(ctx context.Context, table string, filters ...Filter) (int, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	where, args, err := whereClause(filters)
	if err != nil {
		return 0, err
	}

	var count int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
