package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, ":4000", cfg.Addr)
	require.Equal(t, int64(50), cfg.Defaults.MinIncrement)
	require.Equal(t, int64(10000), cfg.Defaults.StartingPurse)
	require.Equal(t, "auction.events", cfg.NATSSubjectPrefix)
	require.Empty(t, cfg.NATSURL)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.Equal(t, 256, cfg.WebSocket.SendBuffer)
	require.Equal(t, 10*time.Second, cfg.WebSocket.WriteTimeout)
	require.Equal(t, 60*time.Second, cfg.WebSocket.ReadTimeout)
	require.Equal(t, 30*time.Second, cfg.WebSocket.PingInterval)
	require.Equal(t, int64(4096), cfg.WebSocket.MaxMessageSize)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"--addr", ":9000",
		"--default-min-increment", "25",
		"--default-purse", "500",
		"--nats-url", "nats://localhost:4222",
		"--allowed-origins", "https://a.example,https://b.example",
		"--ws-read-timeout", "5s",
	})
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, int64(25), cfg.Defaults.MinIncrement)
	require.Equal(t, int64(500), cfg.Defaults.StartingPurse)
	require.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, 5*time.Second, cfg.WebSocket.ReadTimeout)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("AUCTION_ADDR", ":7000")
	t.Setenv("AUCTION_DEFAULT_PURSE", "123")
	t.Setenv("AUCTION_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.Addr)
	require.Equal(t, int64(123), cfg.Defaults.StartingPurse)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "zero_increment", args: []string{"--default-min-increment", "0"}},
		{name: "negative_purse", args: []string{"--default-purse", "-1"}},
		{name: "zero_buffer", args: []string{"--ws-send-buffer", "0"}},
		{name: "unknown_flag", args: []string{"--nope"}},
		{name: "bad_number", args: []string{"--default-purse", "lots"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args)
			require.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AUCTION_NATS_SUBJECT_PREFIX=from.dotenv\n"), 0o600))
	t.Setenv("AUCTION_NATS_SUBJECT_PREFIX", "")
	require.NoError(t, os.Unsetenv("AUCTION_NATS_SUBJECT_PREFIX"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "from.dotenv", cfg.NATSSubjectPrefix)
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
auctions:
  - id: ipl-2024
    min_increment: 25
    starting_purse: 5000
  - id: quick
`), 0o600))

		seed, err := LoadSeed(path)
		require.NoError(t, err)
		require.Equal(t, []SeedAuction{
			{ID: "ipl-2024", MinIncrement: 25, StartingPurse: 5000},
			{ID: "quick"},
		}, seed.Auctions)
	})

	t.Run("missing_id", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "noid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("auctions:\n  - min_increment: 5\n"), 0o600))
		_, err := LoadSeed(path)
		require.ErrorContains(t, err, "has no id")
	})

	t.Run("bad_yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("auctions: [unterminated"), 0o600))
		_, err := LoadSeed(path)
		require.Error(t, err)
	})

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadSeed(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}
