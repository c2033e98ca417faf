package config

import "errors"

// Sentinel error kinds so callers can errors.Is against load failures
// (file or env layer) and validation failures separately.
var (
	ErrLoadConfig    = errors.New("load config failed")
	ErrInvalidConfig = errors.New("invalid config")
)
