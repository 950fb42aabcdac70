package core

import (
	"context"
	"errors"
	"sync"

	"volpanel/internal/bridge"
	"volpanel/internal/domain"
	"volpanel/internal/logging"
)

// Bridge is the subset of the State Sync Bridge the panel drives.
type Bridge interface {
	FetchState(ctx context.Context) (domain.AudioState, error)
	SetVolume(ctx context.Context, percent int) (domain.AudioState, error)
	ToggleMute(ctx context.Context) (domain.AudioState, error)
}

// Execute performs one effect against the bridge and reports the state to
// render, if any. A failed fetch yields the default state; a failed mutation
// is logged and yields nothing, leaving the last render in place.
func Execute(ctx context.Context, b Bridge, eff Effect) (domain.AudioState, bool) {
	switch eff.Type {
	case EffectFetchState:
		return bridge.LoadOrDefault(ctx, b), true

	case EffectSetVolume:
		state, err := b.SetVolume(ctx, eff.Volume)
		if err != nil {
			logging.Errorf("failed to set volume: %v", err)
			return domain.AudioState{}, false
		}
		return state, true

	case EffectToggleMute:
		state, err := b.ToggleMute(ctx)
		if err != nil {
			logging.Errorf("failed to toggle mute: %v", err)
			return domain.AudioState{}, false
		}
		return state, true

	default:
		logging.Errorf("unknown effect type: %s", eff.Type)
		return domain.AudioState{}, false
	}
}

// Panel couples a View with a bridge and runs effects synchronously.
// Concurrent Dispatch calls are neither queued nor de-duplicated; each
// applies its own result, so the last response to arrive wins.
type Panel struct {
	bridge Bridge

	mu   sync.RWMutex
	view View
}

// NewPanel creates a panel with an empty view.
func NewPanel(b Bridge) (*Panel, error) {
	if b == nil {
		return nil, errors.New("bridge is required")
	}
	return &Panel{bridge: b, view: NewView()}, nil
}

// Load fetches the initial state and renders it.
func (p *Panel) Load(ctx context.Context) View {
	v, _ := p.Dispatch(ctx, RefreshClick)
	return v
}

// Dispatch applies an event, executes the resulting effects and renders
// whatever they return. It returns the view after the last render.
func (p *Panel) Dispatch(ctx context.Context, e Event) (View, error) {
	p.mu.Lock()
	next, effects, err := HandleEvent(p.view, e)
	if err != nil {
		p.mu.Unlock()
		return p.View(), err
	}
	p.view = next
	p.mu.Unlock()

	for _, eff := range effects {
		state, ok := Execute(ctx, p.bridge, eff)
		if !ok {
			continue
		}
		p.mu.Lock()
		p.view, _, _ = HandleEvent(p.view, StateLoaded(state))
		p.mu.Unlock()
	}
	return p.View(), nil
}

// View returns a copy of the current view.
func (p *Panel) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}
