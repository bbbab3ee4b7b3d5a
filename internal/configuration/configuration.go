package configuration

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Configuration keys understood by [Handler.Load].
const (
	KeyBlockSize   = "UFS_BLOCK_SIZE"
	KeyMaxFileSize = "UFS_MAX_FILE_SIZE"
	KeyResize      = "UFS_RESIZE"
	KeyBroadcast   = "BUS_BROADCAST"
	KeyBatch       = "BUS_BATCH"
	KeyChannels    = "BUS_CHANNELS"
	KeyCapacity    = "BUS_CAPACITY"
	KeyProducers   = "BUS_PRODUCERS"
	KeyMessages    = "BUS_MESSAGES"
	KeyLogLevel    = "LOG_LEVEL"
)

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler reads configuration files through a provider and converts them
// into an [AppConfiguration].
type Handler struct {
	GenericHandler genericConfigProvider
}

// NewHandler returns a pointer to a new [Handler] reading with the given
// provider.
func NewHandler(genericHandler genericConfigProvider) *Handler {
	return &Handler{
		GenericHandler: genericHandler,
	}
}

// NewHandlerFor returns a pointer to a new [Handler] with a provider fitting
// the extension of the first file: YAML for ".yaml" and ".yml", otherwise
// dotenv.
func NewHandlerFor(filenames ...string) *Handler {
	if len(filenames) > 0 {
		switch strings.ToLower(filepath.Ext(filenames[0])) {
		case ".yaml", ".yml":
			return NewHandler(&YAMLProvider{})
		}
	}

	return NewHandler(&GodotenvProvider{})
}

// ReadGeneric reads the files into a map (map[key]value).
func (c *Handler) ReadGeneric(filenames ...string) (map[string]string, error) {
	return c.GenericHandler.Read(filenames...)
}

// Load reads the files and applies their values on top of the defaults of
// [NewAppConfiguration]. Without any files the defaults are returned.
func (c *Handler) Load(filenames ...string) (*AppConfiguration, error) {
	config := NewAppConfiguration()

	if len(filenames) == 0 {
		return config, nil
	}

	envMap, err := c.ReadGeneric(filenames...)
	if err != nil {
		return nil, fmt.Errorf("(config-load) %w", err)
	}

	if err := c.apply(envMap, config); err != nil {
		return nil, fmt.Errorf("(config-load) %w", err)
	}

	return config, nil
}

func (c *Handler) apply(envMap map[string]string, config *AppConfiguration) error {
	var err error

	if config.FS.BlockSize, err = c.bytesOr(envMap, KeyBlockSize, config.FS.BlockSize); err != nil {
		return err
	}
	if config.FS.MaxFileSize, err = c.bytesOr(envMap, KeyMaxFileSize, config.FS.MaxFileSize); err != nil {
		return err
	}
	if config.FS.Resize, err = c.boolOr(envMap, KeyResize, config.FS.Resize); err != nil {
		return err
	}
	if config.Bus.Broadcast, err = c.boolOr(envMap, KeyBroadcast, config.Bus.Broadcast); err != nil {
		return err
	}
	if config.Bus.Batch, err = c.boolOr(envMap, KeyBatch, config.Bus.Batch); err != nil {
		return err
	}
	if config.Bus.Channels, err = c.intOr(envMap, KeyChannels, config.Bus.Channels, 1); err != nil {
		return err
	}
	if config.Bus.Capacity, err = c.intOr(envMap, KeyCapacity, config.Bus.Capacity, 0); err != nil {
		return err
	}
	if config.Bus.Producers, err = c.intOr(envMap, KeyProducers, config.Bus.Producers, 1); err != nil {
		return err
	}
	if config.Bus.Messages, err = c.intOr(envMap, KeyMessages, config.Bus.Messages, 0); err != nil {
		return err
	}

	if value := c.MapKeyToString(envMap, KeyLogLevel); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeyLogLevel, value)
		}
		config.LogLevel = level
	}

	return nil
}

func (c *Handler) intOr(envMap map[string]string, key string, fallback int, minimum int) (int, error) {
	if c.MapKeyToString(envMap, key) == "" {
		return fallback, nil
	}

	value := c.MapKeyToInt(envMap, key)
	if value < minimum {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, envMap[key])
	}

	return value, nil
}

func (c *Handler) bytesOr(envMap map[string]string, key string, fallback int) (int, error) {
	if c.MapKeyToString(envMap, key) == "" {
		return fallback, nil
	}

	value := c.MapKeyToBytes(envMap, key)
	if value == 0 || value > uint64(maxSize) {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, envMap[key])
	}

	return int(value), nil
}

func (c *Handler) boolOr(envMap map[string]string, key string, fallback bool) (bool, error) {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
	}

	return b, nil
}

// MapKeyToString returns the value of the key, or an empty string.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return strings.TrimSpace(value)
	}

	return ""
}

// MapKeyToInt returns the value of the key as int, or -1 if it is missing or
// not a number.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) int {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToInt64 returns the value of the key as int64, or -1 if it is
// missing or not a number.
func (c *Handler) MapKeyToInt64(envMap map[string]string, key string) int64 {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToUInt64 returns the value of the key as uint64, or 0 if it is
// missing or not a number.
func (c *Handler) MapKeyToUInt64(envMap map[string]string, key string) uint64 {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return 0
	}
	intValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}

	return intValue
}

// MapKeyToBytes returns the value of the key as a byte size, accepting human
// readable sizes such as "512", "4 KiB" or "100MB". It returns 0 if the key
// is missing or not a size.
func (c *Handler) MapKeyToBytes(envMap map[string]string, key string) uint64 {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return 0
	}
	size, err := humanize.ParseBytes(value)
	if err != nil {
		return 0
	}

	return size
}
