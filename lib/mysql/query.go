package mysql

import (
	"fmt"
	"strings"

	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

// NewArgs returns an argument accumulator that hands out `?` placeholders.
func NewArgs() *sqlargs.Args {
	return sqlargs.New()
}

func QuoteIdentifier(s string) string {
	return fmt.Sprintf("`%s`", strings.ReplaceAll(s, "`", "``"))
}
