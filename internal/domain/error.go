package domain

import "errors"

var (
	// ErrInvalidVolume indicates that the volume value is out of range.
	ErrInvalidVolume = errors.New("volume must be between 0 and 100")

	// ErrInvalidInterval indicates that the observer interval is too short.
	ErrInvalidInterval = errors.New("observe interval must be at least 100ms")

	// ErrInvalidTimeout indicates that the call timeout is too short.
	ErrInvalidTimeout = errors.New("timeout must be at least 1 second")

	// ErrMissingBackend indicates that no backend URL is configured.
	ErrMissingBackend = errors.New("backend URL is required")

	// ErrUnknownController indicates an unsupported audio controller name.
	ErrUnknownController = errors.New("controller must be applescript or memory")

	// ErrObserverNotRunning is returned when stopping an observer that is not running.
	ErrObserverNotRunning = errors.New("observer not running")
)
