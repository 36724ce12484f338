package config

import "errors"

var (
	// ErrParsingConfig wraps env tag parsing failures, including missing
	// required variables.
	ErrParsingConfig = errors.New("config: failed to parse environment")
	// ErrLoadingEnv is returned when an explicitly named .env file cannot be
	// read. The implicit default file is allowed to be absent.
	ErrLoadingEnv = errors.New("config: failed to load .env file")
	// ErrConfigNotLoaded signals a cache miss after a parse that burned its
	// once without storing a value.
	ErrConfigNotLoaded = errors.New("config: configuration not loaded")
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: nil pointer")
)
