package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoLogFile is returned when no access log path is set.
	ErrNoLogFile = errors.New("no log file specified")

	// ErrInvalidTimeout is returned when the per image timeout is negative.
	// Zero disables the timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrInvalidFormat is returned for an unknown listing format.
	ErrInvalidFormat = errors.New("invalid format: must be text or markdown")
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
