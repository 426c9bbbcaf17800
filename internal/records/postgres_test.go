package records

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIdent(t *testing.T) {
	valid := []string{"posts", "created_at", "_private", "col2"}
	for _, name := range valid {
		assert.NoError(t, checkIdent(name), "%q should be a valid identifier", name)
	}

	invalid := []string{"", "2cols", "posts; DROP TABLE users", "a-b", `a"b`, "a b"}
	for _, name := range invalid {
		err := checkIdent(name)
		require.Error(t, err, "%q should be rejected", name)
		assert.ErrorIs(t, err, ErrBadRequest)
	}
}

func TestWhereClause(t *testing.T) {
	clause, args, err := whereClause(nil)
	require.NoError(t, err)
	assert.Empty(t, clause)
	assert.Nil(t, args)

	clause, args, err = whereClause([]Filter{
		{Column: "user_id", Value: "u1"},
		{Column: "post_id", Value: int64(7)},
	})
	require.NoError(t, err)
	assert.Equal(t, " WHERE user_id = $1 AND post_id = $2", clause)
	assert.Equal(t, []any{"u1", int64(7)}, args)
}

func TestWhereClause_RejectsBadColumn(t *testing.T) {
	_, _, err := whereClause([]Filter{{Column: "id; --", Value: 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
}

// captureDriver is a database/sql driver that records every query and its
// converted arguments and answers each query with a single row_to_json row.
// Because it implements no custom converter, arguments pass through
// driver.DefaultParameterConverter exactly as they would with lib/pq.
type captureDriver struct {
	conn *captureConn
}

func (d *captureDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

type captureConn struct {
	queries []string
	args    [][]driver.Value
	row     []byte
}

func (c *captureConn) Prepare(query string) (driver.Stmt, error) {
	return &captureStmt{conn: c, query: query}, nil
}
func (c *captureConn) Close() error              { return nil }
func (c *captureConn) Begin() (driver.Tx, error) { return nil, driver.ErrSkip }

type captureStmt struct {
	conn  *captureConn
	query string
}

func (s *captureStmt) Close() error  { return nil }
func (s *captureStmt) NumInput() int { return -1 }

func (s *captureStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.record(args)
	return driver.RowsAffected(1), nil
}

func (s *captureStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.record(args)
	return &captureRows{row: s.conn.row}, nil
}

func (s *captureStmt) record(args []driver.Value) {
	s.conn.queries = append(s.conn.queries, s.query)
	s.conn.args = append(s.conn.args, args)
}

type captureRows struct {
	row  []byte
	done bool
}

func (r *captureRows) Columns() []string { return []string{"row_to_json"} }
func (r *captureRows) Close() error      { return nil }

func (r *captureRows) Next(dest []driver.Value) error {
	if r.done || r.row == nil {
		return io.EOF
	}
	r.done = true
	dest[0] = r.row
	return nil
}

var captureDriverSeq atomic.Int64

func openCaptureDB(t *testing.T, row []byte) (*sql.DB, *captureConn) {
	t.Helper()
	conn := &captureConn{row: row}
	name := fmt.Sprintf("capture-%s-%d", t.Name(), captureDriverSeq.Add(1))
	sql.Register(name, &captureDriver{conn: conn})
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, conn
}

func TestPostgresInsert_SliceValues(t *testing.T) {
	db, conn := openCaptureDB(t, []byte(`{"id":1,"author_id":"u1","text":"hi","images":["a","b"]}`))
	client := NewPostgresClient(db)

	rec, err := client.Insert(context.Background(), "posts", Record{
		"author_id": "u1",
		"text":      "hi",
		"images":    []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", rec["text"])

	require.Len(t, conn.args, 1)
	args := conn.args[0]
	require.Len(t, args, 3, "columns are author_id, images, text in sorted order")
	assert.Equal(t, "u1", args[0])
	assert.Equal(t, `{"a","b"}`, args[1], "slice values must reach the driver as array literals")
	assert.Equal(t, "hi", args[2])
}

func TestPostgresInsert_EmptySlice(t *testing.T) {
	db, conn := openCaptureDB(t, []byte(`{"id":1,"images":[]}`))
	client := NewPostgresClient(db)

	_, err := client.Insert(context.Background(), "posts", Record{
		"author_id": "u1",
		"images":    []string{},
	})
	require.NoError(t, err)
	require.Len(t, conn.args, 1)
	assert.Equal(t, "{}", conn.args[0][1])
}

func TestPostgresDelete_ScalarFilters(t *testing.T) {
	db, conn := openCaptureDB(t, nil)
	client := NewPostgresClient(db)

	err := client.Delete(context.Background(), "likes",
		Filter{Column: "user_id", Value: "u1"},
		Filter{Column: "post_id", Value: int64(7)},
	)
	require.NoError(t, err)
	require.Len(t, conn.queries, 1)
	assert.Equal(t, "DELETE FROM likes WHERE user_id = $1 AND post_id = $2", conn.queries[0])
	assert.Equal(t, []driver.Value{"u1", int64(7)}, conn.args[0])
}
