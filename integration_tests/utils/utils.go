package utils

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/artie-labs/transfer/lib/retry"
	"github.com/google/uuid"

	"github.com/artie-labs/sqlargs/config"
	"github.com/artie-labs/sqlargs/lib/logger"
)

const (
	jitterBaseMs = 300
	jitterMaxMs  = 5000
	pingRetries  = 10
)

// Setup reads the optional --config flag, falling back to [defaults], and installs the default logger.
func Setup(defaults config.Settings) (*config.Settings, func()) {
	if err := os.Setenv("TZ", "UTC"); err != nil {
		logger.Fatal("Unable to set TZ env var", slog.Any("err", err))
	}

	var configFilePath string
	flag.StringVar(&configFilePath, "config", "", "path to config file")
	flag.Parse()

	settings := &defaults
	if configFilePath != "" {
		var err error
		settings, err = config.ReadConfig(configFilePath)
		if err != nil {
			logger.Fatal("Failed to read config file", slog.Any("err", err))
		}
	}

	_logger, flush := logger.NewLogger(settings, slog.LevelDebug)
	slog.SetDefault(_logger)
	return settings, flush
}

func TempTableName() string {
	return "sqlargs_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// WaitForDB pings until the database accepts connections.
func WaitForDB(ctx context.Context, ping func(ctx context.Context) error) error {
	retryCfg, err := retry.NewJitterRetryConfig(jitterBaseMs, jitterMaxMs, pingRetries, retry.AlwaysRetry)
	if err != nil {
		return fmt.Errorf("failed to build retry config: %w", err)
	}

	_, err = retry.WithRetriesAndResult(retryCfg, func(_ int, _ error) (bool, error) {
		return true, ping(ctx)
	})
	return err
}

// TextCase is a value sent as a single argument and the text the database is expected to return for it, nil for NULL.
type TextCase struct {
	Name     string
	Value    any
	Expected *string
}

func CheckText(tc TextCase, actual sql.NullString) error {
	if tc.Expected == nil {
		if actual.Valid {
			return fmt.Errorf("%s: expected NULL, got %q", tc.Name, actual.String)
		}
		return nil
	}

	if !actual.Valid {
		return fmt.Errorf("%s: expected %q, got NULL", tc.Name, *tc.Expected)
	}

	if actual.String != *tc.Expected {
		return fmt.Errorf("%s: expected %q, got %q", tc.Name, *tc.Expected, actual.String)
	}
	return nil
}
