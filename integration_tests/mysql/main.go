package main

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"os"
	"time"

	"github.com/cockroachdb/apd/v3"
	_ "github.com/go-sql-driver/mysql"

	"github.com/artie-labs/sqlargs/config"
	"github.com/artie-labs/sqlargs/constants"
	"github.com/artie-labs/sqlargs/integration_tests/utils"
	"github.com/artie-labs/sqlargs/lib/logger"
	"github.com/artie-labs/sqlargs/lib/mysql"
	"github.com/artie-labs/sqlargs/lib/ptr"
	"github.com/artie-labs/sqlargs/lib/rdbms"
	"github.com/artie-labs/sqlargs/lib/rdbms/statement"
	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

func main() {
	settings, flush := utils.Setup(config.Settings{
		MySQL: &config.MySQL{
			Host:     cmp.Or(os.Getenv("MYSQL_HOST"), "127.0.0.1"),
			Port:     constants.DefaultMySQLPort,
			Username: "root",
			Password: "root",
			Database: "mysql",
		},
	})
	defer flush()

	if settings.MySQL == nil {
		logger.Fatal("MySQL config is not set")
	}

	db, err := sql.Open("mysql", settings.MySQL.ToDSN())
	if err != nil {
		logger.Fatal("Could not connect to MySQL", slog.Any("err", err))
	}
	defer db.Close()

	ctx := context.Background()
	if err = utils.WaitForDB(ctx, db.PingContext); err != nil {
		logger.Fatal("MySQL is not reachable", slog.Any("err", err))
	}

	if err = testArg(ctx, db); err != nil {
		logger.Fatal("Arg test failed", slog.Any("err", err))
	}

	if err = testList(ctx, db); err != nil {
		logger.Fatal("List test failed", slog.Any("err", err))
	}

	if err = testDynamicQuery(ctx, db); err != nil {
		logger.Fatal("Dynamic query test failed", slog.Any("err", err))
	}

	slog.Info("MySQL integration tests passed")
}

func mustDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testArg(ctx context.Context, db *sql.DB) error {
	epochPlusTwoHours := time.Unix(2*60*60, 0).UTC()
	cases := []utils.TextCase{
		{Name: "null", Value: nil, Expected: nil},
		{Name: "int", Value: 7, Expected: ptr.ToPtr("7")},
		{Name: "float", Value: 1.23, Expected: ptr.ToPtr("1.23")},
		{Name: "string", Value: "value", Expected: ptr.ToPtr("value")},
		{Name: "true", Value: true, Expected: ptr.ToPtr("1")},
		{Name: "false", Value: false, Expected: ptr.ToPtr("0")},
		{Name: "max int64", Value: int64(math.MaxInt64), Expected: ptr.ToPtr("9223372036854775807")},
		{Name: "min int64", Value: int64(math.MinInt64), Expected: ptr.ToPtr("-9223372036854775808")},
		{Name: "decimal", Value: mustDecimal("123.456"), Expected: ptr.ToPtr("123.456")},
		{Name: "big int", Value: big.NewInt(math.MaxInt64), Expected: ptr.ToPtr("9223372036854775807")},
		{Name: "timestamp", Value: epochPlusTwoHours, Expected: ptr.ToPtr("1970-01-01 02:00:00")},
		{Name: "date", Value: sqlargs.DateValue(epochPlusTwoHours), Expected: ptr.ToPtr("1970-01-01")},
		{Name: "bytes", Value: []byte("abc"), Expected: ptr.ToPtr("abc")},
	}

	for _, tc := range cases {
		args := mysql.NewArgs()
		placeholder, err := args.ArgOf(tc.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", tc.Name, err)
		}

		actual, err := queryText(ctx, db, "SELECT "+placeholder, args)
		if err != nil {
			return fmt.Errorf("%s: %w", tc.Name, err)
		}

		if err = utils.CheckText(tc, actual); err != nil {
			return err
		}
	}
	return nil
}

func queryText(ctx context.Context, db *sql.DB, query string, args *sqlargs.Args) (sql.NullString, error) {
	stmt, err := statement.Prepare(ctx, db, query)
	if err != nil {
		return sql.NullString{}, err
	}
	defer stmt.Close()

	if err = args.Bind(stmt); err != nil {
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

func testList(ctx context.Context, db *sql.DB) error {
	for _, tc := range []struct {
		needle   int64
		expected bool
	}{
		{needle: 1, expected: true},
		{needle: 7, expected: false},
	} {
		args := mysql.NewArgs()
		list, err := sqlargs.ListSlice(args, []int64{1, 2, 3})
		if err != nil {
			return err
		}

		query := fmt.Sprintf("SELECT 1 WHERE %d IN %s", tc.needle, list)
		if query != fmt.Sprintf("SELECT 1 WHERE %d IN (?,?,?)", tc.needle) {
			return fmt.Errorf("unexpected query: %q", query)
		}

		_, err = queryText(ctx, db, query, args)
		found := err == nil
		if err != nil && !rdbms.IsNoRowsErr(err) {
			return err
		}

		if found != tc.expected {
			return fmt.Errorf("%d IN (1,2,3): expected %t, got %t", tc.needle, tc.expected, found)
		}
	}

	// Mixed single and list arguments bind in the order they were added.
	args := mysql.NewArgs()
	query := "SELECT " + args.Arg(sqlargs.StringValue("value")) + " WHERE 2 IN "
	list, err := args.List(sqlargs.Int64Value(1), sqlargs.Int64Value(2))
	if err != nil {
		return err
	}

	actual, err := queryText(ctx, db, query+list, args)
	if err != nil {
		return err
	}
	return utils.CheckText(utils.TextCase{Name: "mixed", Expected: ptr.ToPtr("value")}, actual)
}

type filter struct {
	names    []string
	minScore *int64
}

func buildSelectQuery(tableName string, f filter) (string, *sqlargs.Args, error) {
	args := mysql.NewArgs()
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1 = 1", mysql.QuoteIdentifier(tableName))
	if len(f.names) > 0 {
		list, err := sqlargs.ListSlice(args, f.names)
		if err != nil {
			return "", nil, err
		}
		query += " AND `name` IN " + list
	}

	if f.minScore != nil {
		query += " AND `score` >= " + args.Arg(sqlargs.Int64Value(*f.minScore))
	}
	return query, args, nil
}

func testDynamicQuery(ctx context.Context, db *sql.DB) error {
	tableName := utils.TempTableName()
	slog.Info("Creating temporary table", slog.String("table", tableName))
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (`name` VARCHAR(32) NOT NULL, `score` BIGINT NULL)", mysql.QuoteIdentifier(tableName))); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	defer func() {
		if _, err := db.ExecContext(ctx, "DROP TABLE "+mysql.QuoteIdentifier(tableName)); err != nil {
			slog.Warn("Failed to drop table", slog.String("table", tableName), slog.Any("err", err))
		}
	}()

	insertArgs := mysql.NewArgs()
	var rows []string
	for _, row := range [][]any{{"a", 1}, {"b", 5}, {"c", nil}, {"d", 10}} {
		placeholders, err := insertArgs.ListOf(row...)
		if err != nil {
			return err
		}
		rows = append(rows, placeholders)
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (`name`, `score`) VALUES ", mysql.QuoteIdentifier(tableName))
	for i, row := range rows {
		if i > 0 {
			insertQuery += ","
		}
		insertQuery += row
	}

	if _, err := db.ExecContext(ctx, insertQuery, insertArgs.Any()...); err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}

	for _, tc := range []struct {
		filter   filter
		expected string
	}{
		{filter: filter{}, expected: "4"},
		{filter: filter{names: []string{"a", "c"}}, expected: "2"},
		{filter: filter{minScore: ptr.ToPtr[int64](5)}, expected: "2"},
		{filter: filter{names: []string{"a", "b", "c"}, minScore: ptr.ToPtr[int64](5)}, expected: "1"},
	} {
		query, args, err := buildSelectQuery(tableName, tc.filter)
		if err != nil {
			return err
		}

		actual, err := queryText(ctx, db, query, args)
		if err != nil {
			return fmt.Errorf("failed to run %q: %w", query, err)
		}

		if err = utils.CheckText(utils.TextCase{Name: query, Expected: ptr.ToPtr(tc.expected)}, actual); err != nil {
			return err
		}
	}
	return nil
}
