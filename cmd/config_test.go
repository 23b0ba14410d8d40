package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
apps:
  log_level: "debug"
  rest:
    port: 9090
rooms:
  max_users: 8
  min_users: 2
  ping_period_sec: 10
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	config, err := ParseConfig(path, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "debug", config.Apps.LogLevel)
	require.Equal(t, 9090, config.Apps.Rest.Port)
	require.Equal(t, 8, config.Rooms.MaxUsers)
	require.Equal(t, 2, config.Rooms.MinUsers)
	require.Equal(t, 10, config.Rooms.PingPeriodSec)
}

func TestParseConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := ParseConfig(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, defaultPort, config.Apps.Rest.Port)
	require.Equal(t, defaultMaxUsers, config.Rooms.MaxUsers)
	require.Equal(t, defaultMinUsers, config.Rooms.MinUsers)
	require.Equal(t, defaultPingPeriodSec, config.Rooms.PingPeriodSec)
}

func TestParseConfigAppliesMinimums(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
rooms:
  max_users: 0
  min_users: -1
  ping_period_sec: -5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	config, err := ParseConfig(path, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, defaultMaxUsers, config.Rooms.MaxUsers)
	require.Equal(t, defaultMinUsers, config.Rooms.MinUsers)
	require.Equal(t, 0, config.Rooms.PingPeriodSec)
}

func TestParseConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := ParseConfig(path, zap.NewNop())
	require.Error(t, err)
}
