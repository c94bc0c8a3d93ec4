// Package sqlargs collects positional arguments for a prepared statement while the query text is being assembled.
//
//	args := sqlargs.New()
//	query := "SELECT id FROM users WHERE org_id = " + args.Arg(sqlargs.Int64Value(orgID))
//	if len(states) > 0 {
//		list, err := sqlargs.ListSlice(args, states)
//		...
//		query += " AND state IN " + list
//	}
//	rows, err := db.QueryContext(ctx, query, args.Any()...)
//
// The number and order of placeholders handed out always match the accumulated values.
// An [Args] is not safe for concurrent use.
package sqlargs

import (
	"fmt"

	"github.com/artie-labs/sqlargs/lib/rdbms"
)

// Statement is a prepared statement that accepts values by 1-based position.
type Statement interface {
	SetArg(position int, value Value) error
}

type Args struct {
	placeholder rdbms.Placeholder
	values      []Value
}

// New returns an [Args] that hands out `?` placeholders.
func New() *Args {
	return NewWithPlaceholder(rdbms.QuestionMark)
}

func NewWithPlaceholder(placeholder rdbms.Placeholder) *Args {
	return &Args{placeholder: placeholder}
}

// Arg appends [value] and returns its placeholder.
func (a *Args) Arg(value Value) string {
	a.values = append(a.values, value)
	return a.placeholder(len(a.values))
}

// List appends [values] and returns a parenthesized placeholder group such as (?,?,?) for an `IN` clause.
// At least one value is required.
func (a *Args) List(values ...Value) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("%w: at least one value is required for a placeholder list", ErrInvalidArgument)
	}

	start := len(a.values) + 1
	a.values = append(a.values, values...)
	return rdbms.PlaceholderList(a.placeholder, start, len(values)), nil
}

func (a *Args) ArgOf(value any) (string, error) {
	converted, err := Of(value)
	if err != nil {
		return "", err
	}
	return a.Arg(converted), nil
}

func (a *Args) ListOf(values ...any) (string, error) {
	converted := make([]Value, len(values))
	for i, value := range values {
		castedValue, err := Of(value)
		if err != nil {
			return "", fmt.Errorf("failed to convert list value at index %d: %w", i, err)
		}
		converted[i] = castedValue
	}
	return a.List(converted...)
}

// ListSlice is [Args.ListOf] for typed slices, e.g. []string or []int64.
func ListSlice[T any](a *Args, values []T) (string, error) {
	converted := make([]any, len(values))
	for i, value := range values {
		converted[i] = value
	}
	return a.ListOf(converted...)
}

// Bind sets every accumulated value on [stmt] in insertion order, starting at position 1.
// Errors from [stmt] are returned as is.
func (a *Args) Bind(stmt Statement) error {
	for i, value := range a.values {
		if err := stmt.SetArg(i+1, value); err != nil {
			return err
		}
	}
	return nil
}

func (a *Args) Len() int {
	return len(a.values)
}

func (a *Args) Values() []Value {
	values := make([]Value, len(a.values))
	copy(values, a.values)
	return values
}

// Any returns the values as a slice that can be passed as variadic query arguments to database/sql or pgx.
func (a *Args) Any() []any {
	result := make([]any, len(a.values))
	for i, value := range a.values {
		result[i] = value
	}
	return result
}
