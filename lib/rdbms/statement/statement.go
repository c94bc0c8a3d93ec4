package statement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

var (
	ErrInvalidPosition = errors.New("invalid parameter position")
	ErrUnboundPosition = errors.New("parameter position is not bound")
	ErrStatementClosed = errors.New("statement is closed")
)

type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Statement is a database/sql prepared statement that takes its arguments by position before execution.
type Statement struct {
	// immutable
	query string
	stmt  *sql.Stmt

	// mutable
	params Params
	closed bool
}

func Prepare(ctx context.Context, db Preparer, query string) (*Statement, error) {
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &Statement{query: query, stmt: stmt}, nil
}

func (s *Statement) SQL() string {
	return s.query
}

func (s *Statement) SetArg(position int, value sqlargs.Value) error {
	if s.closed {
		return ErrStatementClosed
	}
	return s.params.Set(position, value)
}

// ClearArgs drops every bound argument so the statement can be reused with new ones.
func (s *Statement) ClearArgs() {
	s.params.Clear()
}

func (s *Statement) Exec(ctx context.Context) (sql.Result, error) {
	args, err := s.args()
	if err != nil {
		return nil, err
	}
	slog.Debug("Executing statement", slog.String("query", s.query), slog.Any("parameters", args))
	return s.stmt.ExecContext(ctx, args...)
}

func (s *Statement) Query(ctx context.Context) (*sql.Rows, error) {
	args, err := s.args()
	if err != nil {
		return nil, err
	}
	slog.Debug("Querying statement", slog.String("query", s.query), slog.Any("parameters", args))
	return s.stmt.QueryContext(ctx, args...)
}

func (s *Statement) QueryRow(ctx context.Context) (*sql.Row, error) {
	args, err := s.args()
	if err != nil {
		return nil, err
	}
	slog.Debug("Querying statement", slog.String("query", s.query), slog.Any("parameters", args))
	return s.stmt.QueryRowContext(ctx, args...), nil
}

func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.stmt.Close()
}

func (s *Statement) args() ([]any, error) {
	if s.closed {
		return nil, ErrStatementClosed
	}
	return s.params.DriverValues()
}
