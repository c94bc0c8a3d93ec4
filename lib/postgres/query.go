package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/artie-labs/sqlargs/lib/rdbms"
	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

// NewArgs returns an argument accumulator that hands out $1, $2, ... placeholders.
func NewArgs() *sqlargs.Args {
	return sqlargs.NewWithPlaceholder(rdbms.DollarNumber)
}

func QuoteIdentifier(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

func QuotedIdentifiers(ids []string) []string {
	quoted := make([]string, len(ids))
	for idx := range ids {
		quoted[idx] = pgx.Identifier{ids[idx]}.Sanitize()
	}
	return quoted
}
