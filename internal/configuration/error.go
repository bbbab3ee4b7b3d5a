package configuration

import "errors"

// ErrInvalidValue is an error that occurs when a configuration key is set,
// but its value cannot be used.
var ErrInvalidValue = errors.New("invalid configuration value")
