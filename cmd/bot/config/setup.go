package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess/sqlstore"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
	"github.com/joho/godotenv"
)

// LoadEnvFile loads a .env file from the working directory when present. Variables already set
// in the environment win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// Parse loads the configuration from the environment.
func Parse(l *slog.Logger) error {
	lookupString(l, EnvBotToken, &BotToken)
	lookupString(l, EnvApplicationId, &ApplicationId)
	lookupString(l, EnvStoreDriver, &StoreDriver)
	lookupString(l, EnvMongoUri, &MongoUri)
	lookupString(l, EnvSqliteDsn, &SqliteDsn)
	lookupString(l, EnvMonitoringPort, &MonitoringPort)

	for key, dst := range map[string]*int{
		EnvCloseGrace:      &CloseGraceSeconds,
		EnvTransferTimeout: &TransferTimeoutSeconds,
		EnvCreateCooldown:  &CreateCooldownSeconds,
		EnvTranscriptLimit: &TranscriptLimit,
	} {
		if err := lookupInt(l, key, dst); err != nil {
			return err
		}
	}

	if TransferTimeoutSeconds < 1 {
		return fmt.Errorf("%s must be at least 1", EnvTransferTimeout)
	}

	if BotToken == "" {
		return fmt.Errorf("%s is required", EnvBotToken)
	} else if ApplicationId == "" {
		return fmt.Errorf("%s is required", EnvApplicationId)
	}

	switch StoreDriver {
	case DriverMongo:
		if MongoUri == "" {
			return fmt.Errorf("%s is required for the %s store", EnvMongoUri, DriverMongo)
		}
	case DriverSqlite:
	default:
		return fmt.Errorf("unknown %s %q", EnvStoreDriver, StoreDriver)
	}

	// All required environment variables have been provided.
	l.Debug("All required environment variables have been provided")
	return nil
}

func lookupString(l *slog.Logger, key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		l.Debug("Found value in environment", slog.String("key", key))
		*dst = v
	}
}

func lookupInt(l *slog.Logger, key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", key, err)
	} else if n < 0 {
		return fmt.Errorf("%s must not be negative", key)
	}

	l.Debug("Found value in environment", slog.String("key", key))
	*dst = n
	return nil
}

// Ticketing returns the ticket controller configuration.
func Ticketing() ticketing.Config {
	cfg := ticketing.DefaultConfig()
	cfg.CloseGrace = time.Duration(CloseGraceSeconds) * time.Second
	cfg.SelectionTimeout = time.Duration(TransferTimeoutSeconds) * time.Second
	cfg.CreateCooldown = time.Duration(CreateCooldownSeconds) * time.Second
	if TranscriptLimit > 0 {
		cfg.TranscriptLimit = TranscriptLimit
	}
	return cfg
}

// OpenStore connects to the configured store.
func OpenStore(ctx context.Context, l *slog.Logger, clk clock.Clock) (dataaccess.Store, error) {
	switch StoreDriver {
	case DriverSqlite:
		s, err := sqlstore.Open(SqliteDsn, l, sqlstore.WithClock(clk))
		if err != nil {
			return nil, fmt.Errorf("error opening sqlite store: %w", err)
		}
		l.Debug("Opened SQLite store", slog.String("key", EnvSqliteDsn))
		return s, nil
	default:
		mongoConn := new(connection.MongoDB)
		mongoConn.ConnectionString = MongoUri

		client, err := mongoConn.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("error connecting to mongo: %w", err)
		}

		s, err := dataaccess.NewMongoStore(ctx, l, client, clk)
		if err != nil {
			return nil, fmt.Errorf("error creating mongo store: %w", err)
		}

		l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))
		return s, nil
	}
}

// LogValue hides the secrets of the configuration.
func LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("store", StoreDriver),
		slog.String("monitoring_port", MonitoringPort),
		slog.Int("close_grace_seconds", CloseGraceSeconds),
		slog.Int("transfer_timeout_seconds", TransferTimeoutSeconds),
		slog.Int("create_cooldown_seconds", CreateCooldownSeconds),
		slog.Int("transcript_limit", TranscriptLimit),
	)
}
