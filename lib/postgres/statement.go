package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artie-labs/sqlargs/lib/rdbms/statement"
	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

// Querier is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Statement binds arguments by position and runs [query] through pgx, which prepares and caches it per connection.
type Statement struct {
	conn   Querier
	query  string
	params statement.Params
}

func NewStatement(conn Querier, query string) *Statement {
	return &Statement{conn: conn, query: query}
}

func (s *Statement) SQL() string {
	return s.query
}

func (s *Statement) SetArg(position int, value sqlargs.Value) error {
	return s.params.Set(position, value)
}

func (s *Statement) ClearArgs() {
	s.params.Clear()
}

func (s *Statement) Exec(ctx context.Context) (pgconn.CommandTag, error) {
	args, err := s.params.DriverValues()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	slog.Debug("Executing statement", slog.String("query", s.query), slog.Any("parameters", args))
	return s.conn.Exec(ctx, s.query, args...)
}

func (s *Statement) Query(ctx context.Context) (pgx.Rows, error) {
	args, err := s.params.DriverValues()
	if err != nil {
		return nil, err
	}
	slog.Debug("Querying statement", slog.String("query", s.query), slog.Any("parameters", args))
	return s.conn.Query(ctx, s.query, args...)
}

func (s *Statement) QueryRow(ctx context.Context) (pgx.Row, error) {
	args, err := s.params.DriverValues()
	if err != nil {
		return nil, err
	}
	slog.Debug("Querying statement", slog.String("query", s.query), slog.Any("parameters", args))
	return s.conn.QueryRow(ctx, s.query, args...), nil
}
