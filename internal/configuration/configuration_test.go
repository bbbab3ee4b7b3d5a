package configuration

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// TestLoad_Defaults tests that loading without files yields the defaults.
func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	config, err := NewHandlerFor().Load()
	require.NoError(t, err)
	assert.Equal(t, NewAppConfiguration(), config)
	assert.Equal(t, 512, config.FS.BlockSize)
	assert.Equal(t, 100*1024*1024, config.FS.MaxFileSize)
}

// TestLoad_Godotenv tests loading a dotenv file over the defaults.
func TestLoad_Godotenv(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "sysprog.env", `
UFS_BLOCK_SIZE=1 KiB
UFS_MAX_FILE_SIZE="2 MiB"
UFS_RESIZE=false
BUS_BATCH=0
BUS_CAPACITY=0
BUS_MESSAGES=42
LOG_LEVEL=debug
`)

	config, err := NewHandlerFor(path).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, config.FS.BlockSize)
	assert.Equal(t, 2*1024*1024, config.FS.MaxFileSize)
	assert.False(t, config.FS.Resize)
	assert.False(t, config.Bus.Batch)
	assert.True(t, config.Bus.Broadcast)
	assert.Equal(t, 0, config.Bus.Capacity)
	assert.Equal(t, 42, config.Bus.Messages)
	assert.Equal(t, 4, config.Bus.Channels)
	assert.Equal(t, slog.LevelDebug, config.LogLevel)
}

// TestLoad_YAML tests loading a YAML file over the defaults.
func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "sysprog.yaml", `
UFS_BLOCK_SIZE: 256
UFS_RESIZE: false
BUS_BROADCAST: false
BUS_CHANNELS: 2
LOG_LEVEL: WARN
`)

	config, err := NewHandlerFor(path).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, config.FS.BlockSize)
	assert.False(t, config.FS.Resize)
	assert.False(t, config.Bus.Broadcast)
	assert.Equal(t, 2, config.Bus.Channels)
	assert.Equal(t, slog.LevelWarn, config.LogLevel)
}

// TestLoad_InvalidValue tests that unusable values are reported.
func TestLoad_InvalidValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"block size", "UFS_BLOCK_SIZE=zero"},
		{"zero block size", "UFS_BLOCK_SIZE=0"},
		{"resize", "UFS_RESIZE=maybe"},
		{"channels", "BUS_CHANNELS=0"},
		{"capacity", "BUS_CAPACITY=-1"},
		{"log level", "LOG_LEVEL=loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "sysprog.env", tt.content)

			_, err := NewHandlerFor(path).Load(path)
			require.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

// TestLoad_MissingFile tests that a missing file is an error.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewHandlerFor().Load(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestYAMLProvider_Nested tests that nested YAML values are rejected.
func TestYAMLProvider_Nested(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "nested.yml", "BUS:\n  CHANNELS: 2\n")

	_, err := (&YAMLProvider{}).Read(path)
	require.ErrorIs(t, err, ErrInvalidValue)
}

// TestYAMLProvider_Override tests that later files override earlier ones.
func TestYAMLProvider_Override(t *testing.T) {
	t.Parallel()

	first := writeFile(t, "a.yaml", "BUS_CHANNELS: 2\nBUS_MESSAGES: 5\n")
	second := writeFile(t, "b.yaml", "BUS_CHANNELS: 3\n")

	data, err := (&YAMLProvider{}).Read(first, second)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"BUS_CHANNELS": "3", "BUS_MESSAGES": "5"}, data)
}

// TestMapKeyTo_Success tests the conversion helpers of the [Handler].
func TestMapKeyTo_Success(t *testing.T) {
	t.Parallel()

	h := NewHandler(&GodotenvProvider{})
	envMap := map[string]string{
		"STR":   "  value ",
		"INT":   "12",
		"BAD":   "x",
		"BIG":   "-9000000000",
		"UINT":  "18446744073709551615",
		"BYTES": "100 MiB",
	}

	assert.Equal(t, "value", h.MapKeyToString(envMap, "STR"))
	assert.Empty(t, h.MapKeyToString(envMap, "NONE"))
	assert.Equal(t, 12, h.MapKeyToInt(envMap, "INT"))
	assert.Equal(t, -1, h.MapKeyToInt(envMap, "BAD"))
	assert.Equal(t, int64(-9000000000), h.MapKeyToInt64(envMap, "BIG"))
	assert.Equal(t, uint64(18446744073709551615), h.MapKeyToUInt64(envMap, "UINT"))
	assert.Equal(t, uint64(0), h.MapKeyToUInt64(envMap, "BAD"))
	assert.Equal(t, uint64(100*1024*1024), h.MapKeyToBytes(envMap, "BYTES"))
	assert.Equal(t, uint64(0), h.MapKeyToBytes(envMap, "BAD"))
}
