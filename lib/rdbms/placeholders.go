package rdbms

import (
	"strconv"
	"strings"
)

// Placeholder renders the parameter marker for a 1-based position.
type Placeholder func(position int) string

// QuestionMark is the MySQL style placeholder, it ignores the position.
func QuestionMark(_ int) string {
	return "?"
}

// DollarNumber is the Postgres style placeholder: $1, $2, ...
func DollarNumber(position int) string {
	return "$" + strconv.Itoa(position)
}

// QueryPlaceholders returns the placeholders for positions start..start+count-1, a count below 1 yields none.
func QueryPlaceholders(placeholder Placeholder, start, count int) []string {
	if count <= 0 {
		return []string{}
	}

	placeholders := make([]string, count)
	for i := range count {
		placeholders[i] = placeholder(start + i)
	}
	return placeholders
}

// PlaceholderList returns a parenthesized group such as (?,?,?) for use in `IN` clauses, or () when count is below 1.
func PlaceholderList(placeholder Placeholder, start, count int) string {
	return "(" + strings.Join(QueryPlaceholders(placeholder, start, count), ",") + ")"
}
