package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/artie-labs/sqlargs/lib/rdbms/statement"
	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

type mockQuerier struct {
	sql  string
	args []any
	err  error
}

func (m *mockQuerier) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	m.sql = sql
	m.args = arguments
	return pgconn.NewCommandTag("SELECT 1"), m.err
}

func (m *mockQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.sql = sql
	m.args = args
	return nil, m.err
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.sql = sql
	m.args = args
	return nil
}

func TestStatement(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2001, time.February, 3, 4, 5, 6, 0, time.UTC)
	{
		// Arguments are passed to pgx in position order
		args := NewArgs()
		query := "SELECT " + args.Arg(sqlargs.TimestampValue(ts)) + " WHERE 1 IN "
		list, err := args.List(sqlargs.Int64Value(1), sqlargs.NullValue())
		assert.NoError(t, err)
		query += list

		querier := &mockQuerier{}
		stmt := NewStatement(querier, query)
		assert.Equal(t, "SELECT $1 WHERE 1 IN ($2,$3)", stmt.SQL())
		assert.NoError(t, args.Bind(stmt))

		tag, err := stmt.Exec(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "SELECT 1", tag.String())
		assert.Equal(t, "SELECT $1 WHERE 1 IN ($2,$3)", querier.sql)
		assert.Equal(t, []any{ts, int64(1), nil}, querier.args)

		_, err = stmt.Query(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []any{ts, int64(1), nil}, querier.args)

		_, err = stmt.QueryRow(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []any{ts, int64(1), nil}, querier.args)
	}
	{
		// Invalid position
		stmt := NewStatement(&mockQuerier{}, "SELECT $1")
		assert.ErrorIs(t, stmt.SetArg(0, sqlargs.Int64Value(1)), statement.ErrInvalidPosition)
		assert.ErrorIs(t, stmt.SetArg(statement.MaxPosition+1, sqlargs.Int64Value(1)), statement.ErrInvalidPosition)
	}
	{
		// Gap in positions
		querier := &mockQuerier{}
		stmt := NewStatement(querier, "SELECT $1, $2")
		assert.NoError(t, stmt.SetArg(2, sqlargs.Int64Value(2)))
		_, err := stmt.Exec(ctx)
		assert.ErrorIs(t, err, statement.ErrUnboundPosition)
		_, err = stmt.Query(ctx)
		assert.ErrorIs(t, err, statement.ErrUnboundPosition)
		_, err = stmt.QueryRow(ctx)
		assert.ErrorIs(t, err, statement.ErrUnboundPosition)
		assert.Empty(t, querier.sql)

		stmt.ClearArgs()
		_, err = stmt.Exec(ctx)
		assert.NoError(t, err)
		assert.Empty(t, querier.args)
	}
	{
		// Driver errors are returned as is
		querier := &mockQuerier{err: fmt.Errorf("mock pgx error")}
		stmt := NewStatement(querier, "SELECT 1")
		_, err := stmt.Exec(ctx)
		assert.EqualError(t, err, "mock pgx error")
	}
}
