package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func resetValues(t *testing.T) {
	t.Helper()

	BotToken, ApplicationId, MongoUri = "", "", ""
	StoreDriver, SqliteDsn, MonitoringPort = DriverMongo, "warden.db", "8080"
	CloseGraceSeconds, TransferTimeoutSeconds, CreateCooldownSeconds, TranscriptLimit = 5, 60, 30, 500
}

func TestParse(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "mongo",
			env: map[string]string{
				EnvBotToken:      "token",
				EnvApplicationId: "app",
				EnvMongoUri:      "mongodb://localhost",
			},
		},
		{
			name: "sqlite",
			env: map[string]string{
				EnvBotToken:      "token",
				EnvApplicationId: "app",
				EnvStoreDriver:   DriverSqlite,
				EnvCloseGrace:    "10",
			},
		},
		{
			name:    "missing token",
			env:     map[string]string{EnvApplicationId: "app", EnvStoreDriver: DriverSqlite},
			wantErr: true,
		},
		{
			name:    "mongo without uri",
			env:     map[string]string{EnvBotToken: "token", EnvApplicationId: "app"},
			wantErr: true,
		},
		{
			name: "unknown driver",
			env: map[string]string{
				EnvBotToken:      "token",
				EnvApplicationId: "app",
				EnvStoreDriver:   "postgres",
			},
			wantErr: true,
		},
		{
			name: "zero transfer timeout",
			env: map[string]string{
				EnvBotToken:        "token",
				EnvApplicationId:   "app",
				EnvStoreDriver:     DriverSqlite,
				EnvTransferTimeout: "0",
			},
			wantErr: true,
		},
		{
			name: "invalid number",
			env: map[string]string{
				EnvBotToken:        "token",
				EnvApplicationId:   "app",
				EnvStoreDriver:     DriverSqlite,
				EnvTranscriptLimit: "many",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetValues(t)
			for _, key := range []string{
				EnvBotToken, EnvApplicationId, EnvStoreDriver, EnvMongoUri, EnvSqliteDsn,
				EnvMonitoringPort, EnvCloseGrace, EnvTransferTimeout, EnvCreateCooldown, EnvTranscriptLimit,
			} {
				t.Setenv(key, tt.env[key])
			}

			err := Parse(l)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTicketing(t *testing.T) {
	resetValues(t)
	CloseGraceSeconds = 10
	TranscriptLimit = 0

	cfg := Ticketing()
	require.Equal(t, 10*time.Second, cfg.CloseGrace)
	require.Equal(t, time.Minute, cfg.SelectionTimeout)
	require.Equal(t, 30*time.Second, cfg.CreateCooldown)
	require.Equal(t, 500, cfg.TranscriptLimit)
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(wd))
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	// No file is not an error.
	require.NoError(t, LoadEnvFile())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WARDEN_TEST_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() {
		require.NoError(t, os.Unsetenv("WARDEN_TEST_VALUE"))
	})

	require.NoError(t, LoadEnvFile())
	require.Equal(t, "from-file", os.Getenv("WARDEN_TEST_VALUE"))
}
