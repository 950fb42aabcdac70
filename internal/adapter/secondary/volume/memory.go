package volume

import (
	"context"
	"sync"

	"volpanel/internal/domain"
)

// MemoryController implements domain.AudioController in process.
// Useful for tests or platforms without an OS adapter.
type MemoryController struct {
	mu    sync.Mutex
	state domain.AudioState
}

// NewMemoryController creates a controller starting from initial.
func NewMemoryController(initial domain.AudioState) *MemoryController {
	initial.VolumePercent = domain.ClampVolume(initial.VolumePercent)
	return &MemoryController{state: initial}
}

func (m *MemoryController) State(ctx context.Context) (domain.AudioState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryController) SetVolume(ctx context.Context, percent int) error {
	if err := domain.ValidateVolume(percent); err != nil {
		return err
	}
	m.mu.Lock()
	m.state.VolumePercent = percent
	m.mu.Unlock()
	return nil
}

func (m *MemoryController) SetMute(ctx context.Context, muted bool) error {
	m.mu.Lock()
	m.state.IsMuted = muted
	m.mu.Unlock()
	return nil
}
