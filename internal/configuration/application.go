package configuration

import (
	"log/slog"
	"math"
)

const maxSize = math.MaxInt32

// BusConfiguration holds the settings of the message bus and of the demo
// workload driving it.
type BusConfiguration struct {
	Broadcast bool
	Batch     bool
	Channels  int
	Capacity  int
	Producers int
	Messages  int
}

// FSConfiguration holds the settings of the file storage.
type FSConfiguration struct {
	BlockSize   int
	MaxFileSize int
	Resize      bool
}

// AppConfiguration is the principal structure holding the application
// configuration.
type AppConfiguration struct {
	Bus      BusConfiguration
	FS       FSConfiguration
	LogLevel slog.Level
}

// NewAppConfiguration returns a pointer to a new [AppConfiguration] holding
// the defaults.
func NewAppConfiguration() *AppConfiguration {
	return &AppConfiguration{
		Bus: BusConfiguration{
			Broadcast: true,
			Batch:     true,
			Channels:  4,
			Capacity:  8,
			Producers: 4,
			Messages:  1000,
		},
		FS: FSConfiguration{
			BlockSize:   512,               //nolint:mnd
			MaxFileSize: 100 * 1024 * 1024, //nolint:mnd
			Resize:      true,
		},
		LogLevel: slog.LevelInfo,
	}
}
