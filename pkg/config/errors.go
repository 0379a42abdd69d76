package config

import "errors"

// Both map to the user-error exit code. Check with errors.Is.
var (
	// ErrInvalidConfig covers unparsable YAML and out-of-range values
	// such as a non-http target or an unknown report format.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingRequired is returned for a target without a URL.
	ErrMissingRequired = errors.New("config: missing required field")
)
