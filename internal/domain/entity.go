package domain

import (
	"runtime"
	"time"
)

// AudioState is the two-field snapshot exchanged with the audio backend.
// Volume and mute are independent axes: muting never touches VolumePercent.
type AudioState struct {
	VolumePercent int
	IsMuted       bool
}

// DefaultState is what the panel shows when the backend cannot be read.
func DefaultState() AudioState {
	return AudioState{
		VolumePercent: 50,
		IsMuted:       false,
	}
}

// ValidateVolume reports ErrInvalidVolume for values outside 0-100.
func ValidateVolume(percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidVolume
	}
	return nil
}

// Settings represents the persisted preferences shared by the client and server commands.
type Settings struct {
	BackendURL      string
	Dialect         string
	Addr            string
	Controller      string
	ObserveInterval time.Duration
	Timeout         time.Duration
}

const (
	ControllerAppleScript = "applescript"
	ControllerMemory      = "memory"
)

// DefaultSettings returns the default settings values.
func DefaultSettings() Settings {
	controller := ControllerMemory
	if runtime.GOOS == "darwin" {
		controller = ControllerAppleScript
	}
	return Settings{
		BackendURL:      "http://127.0.0.1:7070",
		Dialect:         "state",
		Addr:            "127.0.0.1:7070",
		Controller:      controller,
		ObserveInterval: time.Second,
		Timeout:         5 * time.Second,
	}
}

// Validate checks if the settings values are usable.
func (s Settings) Validate() error {
	if s.BackendURL == "" {
		return ErrMissingBackend
	}
	switch s.Controller {
	case ControllerAppleScript, ControllerMemory:
	default:
		return ErrUnknownController
	}
	if s.ObserveInterval < 100*time.Millisecond {
		return ErrInvalidInterval
	}
	if s.Timeout < time.Second {
		return ErrInvalidTimeout
	}
	return nil
}
