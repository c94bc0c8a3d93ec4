package main

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/jackc/pgx/v5"

	"github.com/artie-labs/sqlargs/config"
	"github.com/artie-labs/sqlargs/constants"
	"github.com/artie-labs/sqlargs/integration_tests/utils"
	"github.com/artie-labs/sqlargs/lib/logger"
	"github.com/artie-labs/sqlargs/lib/postgres"
	"github.com/artie-labs/sqlargs/lib/ptr"
	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

func main() {
	settings, flush := utils.Setup(config.Settings{
		PostgreSQL: &config.PostgreSQL{
			Host:       cmp.Or(os.Getenv("PG_HOST"), "localhost"),
			Port:       constants.DefaultPostgreSQLPort,
			Username:   "postgres",
			Password:   "postgres",
			Database:   "postgres",
			DisableSSL: true,
		},
	})
	defer flush()

	if settings.PostgreSQL == nil {
		logger.Fatal("PostgreSQL config is not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, settings.PostgreSQL.ToDSN())
	if err != nil {
		logger.Fatal("Could not connect to Postgres", slog.Any("err", err))
	}
	defer conn.Close(ctx)

	if err = utils.WaitForDB(ctx, conn.Ping); err != nil {
		logger.Fatal("Postgres is not reachable", slog.Any("err", err))
	}

	if err = testArg(ctx, conn); err != nil {
		logger.Fatal("Arg test failed", slog.Any("err", err))
	}

	if err = testList(ctx, conn); err != nil {
		logger.Fatal("List test failed", slog.Any("err", err))
	}

	if err = testDynamicQuery(ctx, conn); err != nil {
		logger.Fatal("Dynamic query test failed", slog.Any("err", err))
	}

	slog.Info("Postgres integration tests passed")
}

type castCase struct {
	utils.TextCase
	// cast is the Postgres type the placeholder is cast to, Postgres cannot infer it from `SELECT $1`.
	cast string
}

func testArg(ctx context.Context, conn *pgx.Conn) error {
	decimal, _, err := apd.NewFromString("123.456")
	if err != nil {
		return err
	}

	epochPlusTwoHours := time.Unix(2*60*60, 0).UTC()
	cases := []castCase{
		{TextCase: utils.TextCase{Name: "null", Value: sqlargs.NullValue()}, cast: "text"},
		{TextCase: utils.TextCase{Name: "int", Value: 7, Expected: ptr.ToPtr("7")}, cast: "bigint"},
		{TextCase: utils.TextCase{Name: "float", Value: 1.23, Expected: ptr.ToPtr("1.23")}, cast: "float8"},
		{TextCase: utils.TextCase{Name: "string", Value: "value", Expected: ptr.ToPtr("value")}, cast: "text"},
		{TextCase: utils.TextCase{Name: "true", Value: true, Expected: ptr.ToPtr("true")}, cast: "boolean"},
		{TextCase: utils.TextCase{Name: "min int64", Value: int64(math.MinInt64), Expected: ptr.ToPtr("-9223372036854775808")}, cast: "bigint"},
		{TextCase: utils.TextCase{Name: "decimal", Value: decimal, Expected: ptr.ToPtr("123.456")}, cast: "numeric"},
		{TextCase: utils.TextCase{Name: "big int", Value: uint64(math.MaxUint64), Expected: ptr.ToPtr("18446744073709551615")}, cast: "numeric"},
		{TextCase: utils.TextCase{Name: "timestamp", Value: epochPlusTwoHours, Expected: ptr.ToPtr("1970-01-01 02:00:00")}, cast: "timestamp"},
		{TextCase: utils.TextCase{Name: "date", Value: sqlargs.DateValue(epochPlusTwoHours), Expected: ptr.ToPtr("1970-01-01")}, cast: "date"},
		{TextCase: utils.TextCase{Name: "bytes", Value: []byte("abc"), Expected: ptr.ToPtr(`\x616263`)}, cast: "bytea"},
	}

	for _, tc := range cases {
		args := postgres.NewArgs()
		placeholder, err := args.ArgOf(tc.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", tc.Name, err)
		}

		actual, err := queryText(ctx, conn, fmt.Sprintf("SELECT (%s::%s)::text", placeholder, tc.cast), args)
		if err != nil {
			return fmt.Errorf("%s: %w", tc.Name, err)
		}

		if err = utils.CheckText(tc.TextCase, actual); err != nil {
			return err
		}
	}
	return nil
}

func queryText(ctx context.Context, conn *pgx.Conn, query string, args *sqlargs.Args) (sql.NullString, error) {
	stmt := postgres.NewStatement(conn, query)
	if err := args.Bind(stmt); err != nil {
		return sql.NullString{}, err
	}

	row, err := stmt.QueryRow(ctx)
	if err != nil {
		return sql.NullString{}, err
	}

	var result sql.NullString
	if err = row.Scan(&result); err != nil {
		return sql.NullString{}, err
	}
	return result, nil
}

func testList(ctx context.Context, conn *pgx.Conn) error {
	for _, tc := range []struct {
		needle   int64
		expected bool
	}{
		{needle: 1, expected: true},
		{needle: 7, expected: false},
	} {
		args := postgres.NewArgs()
		list, err := sqlargs.ListSlice(args, []int64{1, 2, 3})
		if err != nil {
			return err
		}

		query := fmt.Sprintf("SELECT 'found' WHERE %d::bigint IN %s", tc.needle, list)
		if query != fmt.Sprintf("SELECT 'found' WHERE %d::bigint IN ($1,$2,$3)", tc.needle) {
			return fmt.Errorf("unexpected query: %q", query)
		}

		_, err = queryText(ctx, conn, query, args)
		found := err == nil
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		if found != tc.expected {
			return fmt.Errorf("%d IN (1,2,3): expected %t, got %t", tc.needle, tc.expected, found)
		}
	}

	// Mixed single and list arguments bind in the order they were added.
	args := postgres.NewArgs()
	query := "SELECT " + args.Arg(sqlargs.StringValue("value")) + "::text WHERE 2::bigint IN "
	list, err := args.List(sqlargs.Int64Value(1), sqlargs.Int64Value(2))
	if err != nil {
		return err
	}

	actual, err := queryText(ctx, conn, query+list, args)
	if err != nil {
		return err
	}
	return utils.CheckText(utils.TextCase{Name: "mixed", Expected: ptr.ToPtr("value")}, actual)
}

func testDynamicQuery(ctx context.Context, conn *pgx.Conn) error {
	tableName := utils.TempTableName()
	slog.Info("Creating temporary table", slog.String("table", tableName))
	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE TABLE %s (name text NOT NULL, created_on date NOT NULL)", postgres.QuoteIdentifier(tableName))); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(ctx, "DROP TABLE "+postgres.QuoteIdentifier(tableName)); err != nil {
			slog.Warn("Failed to drop table", slog.String("table", tableName), slog.Any("err", err))
		}
	}()

	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	insert := postgres.NewArgs()
	query := fmt.Sprintf("INSERT INTO %s (name, created_on) VALUES ", postgres.QuoteIdentifier(tableName))
	for i, name := range []string{"a", "b", "c"} {
		if i > 0 {
			query += ","
		}
		row, err := insert.List(sqlargs.StringValue(name), sqlargs.DateValue(day.AddDate(0, 0, i)))
		if err != nil {
			return err
		}
		query += row
	}

	stmt := postgres.NewStatement(conn, query)
	if err := insert.Bind(stmt); err != nil {
		return err
	}

	tag, err := stmt.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}
	if tag.RowsAffected() != 3 {
		return fmt.Errorf("expected 3 inserted rows, got %d", tag.RowsAffected())
	}

	args := postgres.NewArgs()
	selectQuery := fmt.Sprintf("SELECT COUNT(*)::text FROM %s WHERE created_on >= %s", postgres.QuoteIdentifier(tableName), args.Arg(sqlargs.DateValue(day.AddDate(0, 0, 1))))
	names, err := sqlargs.ListSlice(args, []string{"a", "b"})
	if err != nil {
		return err
	}
	selectQuery += " AND name IN " + names

	actual, err := queryText(ctx, conn, selectQuery, args)
	if err != nil {
		return fmt.Errorf("failed to run %q: %w", selectQuery, err)
	}
	return utils.CheckText(utils.TextCase{Name: selectQuery, Expected: ptr.ToPtr("1")}, actual)
}
