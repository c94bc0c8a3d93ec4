package statement

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

// recordingConnector is a database/sql driver that records the arguments of every call and returns them as a single row.
type recordingConnector struct {
	queries []string
	args    [][]driver.Value
}

func (c *recordingConnector) Connect(context.Context) (driver.Conn, error) {
	return &recordingConn{connector: c}, nil
}

func (c *recordingConnector) Driver() driver.Driver {
	return recordingDriver{}
}

type recordingDriver struct{}

func (recordingDriver) Open(string) (driver.Conn, error) {
	return nil, fmt.Errorf("use sql.OpenDB")
}

type recordingConn struct {
	connector *recordingConnector
}

func (c *recordingConn) Prepare(query string) (driver.Stmt, error) {
	return &recordingStmt{connector: c.connector, query: query}, nil
}

func (c *recordingConn) Close() error {
	return nil
}

func (c *recordingConn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("transactions are not supported")
}

type recordingStmt struct {
	connector *recordingConnector
	query     string
}

func (s *recordingStmt) Close() error {
	return nil
}

func (s *recordingStmt) NumInput() int {
	return -1
}

func (s *recordingStmt) record(args []driver.Value) {
	s.connector.queries = append(s.connector.queries, s.query)
	s.connector.args = append(s.connector.args, args)
}

func (s *recordingStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.record(args)
	return driver.RowsAffected(len(args)), nil
}

func (s *recordingStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.record(args)
	return &recordingRows{values: args}, nil
}

type recordingRows struct {
	values []driver.Value
	done   bool
}

func (r *recordingRows) Columns() []string {
	columns := make([]string, len(r.values))
	for i := range columns {
		columns[i] = fmt.Sprintf("c%d", i+1)
	}
	return columns
}

func (r *recordingRows) Close() error {
	return nil
}

func (r *recordingRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	copy(dest, r.values)
	return nil
}

func TestStatement_Database(t *testing.T) {
	ctx := context.Background()
	connector := &recordingConnector{}
	db := sql.OpenDB(connector)
	defer db.Close()

	args := sqlargs.New()
	query := "SELECT " + args.Arg(sqlargs.StringValue("value")) + " WHERE 2 IN "
	list, err := args.List(sqlargs.Int64Value(1), sqlargs.Int64Value(2))
	assert.NoError(t, err)
	query += list
	args.Arg(sqlargs.NullValue())

	stmt, err := Prepare(ctx, db, query)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT ? WHERE 2 IN (?,?)", stmt.SQL())
	assert.NoError(t, args.Bind(stmt))

	expected := []driver.Value{"value", int64(1), int64(2), nil}
	{
		// Exec
		result, err := stmt.Exec(ctx)
		assert.NoError(t, err)
		rowsAffected, err := result.RowsAffected()
		assert.NoError(t, err)
		assert.Equal(t, int64(4), rowsAffected)
		assert.Equal(t, expected, connector.args[len(connector.args)-1])
		assert.Equal(t, "SELECT ? WHERE 2 IN (?,?)", connector.queries[len(connector.queries)-1])
	}
	{
		// Query
		rows, err := stmt.Query(ctx)
		assert.NoError(t, err)
		assert.True(t, rows.Next())
		var first string
		var second, third int64
		var fourth sql.NullString
		assert.NoError(t, rows.Scan(&first, &second, &third, &fourth))
		assert.Equal(t, "value", first)
		assert.Equal(t, int64(1), second)
		assert.Equal(t, int64(2), third)
		assert.False(t, fourth.Valid)
		assert.False(t, rows.Next())
		assert.NoError(t, rows.Close())
		assert.Equal(t, expected, connector.args[len(connector.args)-1])
	}
	{
		// QueryRow
		row, err := stmt.QueryRow(ctx)
		assert.NoError(t, err)
		var first string
		var second, third int64
		var fourth sql.NullString
		assert.NoError(t, row.Scan(&first, &second, &third, &fourth))
		assert.Equal(t, "value", first)
		assert.Equal(t, expected, connector.args[len(connector.args)-1])
	}
	{
		// A gap never reaches the driver
		calls := len(connector.args)
		stmt.ClearArgs()
		assert.NoError(t, stmt.SetArg(2, sqlargs.Int64Value(2)))
		_, err := stmt.Exec(ctx)
		assert.ErrorIs(t, err, ErrUnboundPosition)
		_, err = stmt.Query(ctx)
		assert.ErrorIs(t, err, ErrUnboundPosition)
		_, err = stmt.QueryRow(ctx)
		assert.ErrorIs(t, err, ErrUnboundPosition)
		assert.Len(t, connector.args, calls)
	}
	{
		// Closed
		assert.NoError(t, stmt.Close())
		assert.ErrorIs(t, stmt.SetArg(1, sqlargs.Int64Value(1)), ErrStatementClosed)
		_, err := stmt.Exec(ctx)
		assert.ErrorIs(t, err, ErrStatementClosed)
		assert.NoError(t, stmt.Close())
	}
}
