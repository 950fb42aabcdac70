package domain

import "context"

// SettingsRepository is a secondary port that defines how to persist settings.
type SettingsRepository interface {
	Load() (Settings, error)
	Save(settings Settings) error
}

// AudioController is a secondary port that reads and writes the OS output state.
// Implementations own the real hardware state; callers never cache it.
type AudioController interface {
	State(ctx context.Context) (AudioState, error)
	SetVolume(ctx context.Context, percent int) error
	SetMute(ctx context.Context, muted bool) error
}
