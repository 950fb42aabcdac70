package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"volpanel/internal/domain"
	"volpanel/internal/logging"
)

// Invoker sends one named request to the backend and returns the raw response body.
type Invoker interface {
	Invoke(ctx context.Context, command string, args map[string]any) (json.RawMessage, error)
}

// Fetcher reads the current state from the backend.
type Fetcher interface {
	FetchState(ctx context.Context) (domain.AudioState, error)
}

// CallError wraps a failed bridge call with the command that failed.
type CallError struct {
	Command string
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Client is the State Sync Bridge. It holds no copy of the audio state;
// every call goes to the backend, which stays the single source of truth.
type Client struct {
	invoker Invoker
	dialect Dialect
}

// NewClient creates a bridge client speaking the given dialect.
func NewClient(invoker Invoker, dialect Dialect) *Client {
	return &Client{invoker: invoker, dialect: dialect}
}

// FetchState queries the backend for the current volume and mute flag.
func (c *Client) FetchState(ctx context.Context) (domain.AudioState, error) {
	cmd := c.dialect.GetCommand
	raw, err := c.invoker.Invoke(ctx, cmd, nil)
	if err != nil {
		return domain.AudioState{}, &CallError{Command: cmd, Err: err}
	}
	state, err := c.dialect.DecodeState(raw)
	if err != nil {
		return domain.AudioState{}, &CallError{Command: cmd, Err: err}
	}
	logging.Tracef("%s -> volume=%d muted=%t", cmd, state.VolumePercent, state.IsMuted)
	return state, nil
}

// SetVolume asks the backend to set the output volume and returns the resulting state.
func (c *Client) SetVolume(ctx context.Context, percent int) (domain.AudioState, error) {
	if err := domain.ValidateVolume(percent); err != nil {
		return domain.AudioState{}, err
	}
	return c.mutate(ctx, c.dialect.SetVolumeCommand, c.dialect.VolumeArgs(percent))
}

// SetMute asks the backend to mute or unmute and returns the resulting state.
func (c *Client) SetMute(ctx context.Context, muted bool) (domain.AudioState, error) {
	return c.mutate(ctx, c.dialect.SetMuteCommand, c.dialect.MuteArgs(muted))
}

// ToggleMute reads the current mute flag and sends its inverse.
// The read and the write are two calls; a change made by another controller
// in between is not detected.
func (c *Client) ToggleMute(ctx context.Context) (domain.AudioState, error) {
	current, err := c.FetchState(ctx)
	if err != nil {
		return domain.AudioState{}, err
	}
	return c.SetMute(ctx, !current.IsMuted)
}

// mutate sends a write and resolves the resulting state, either from the
// response body or by re-fetching when the backend answers with nothing.
// Only a failed write is an error; a failed re-fetch after an accepted write
// collapses into the default state like any other load.
func (c *Client) mutate(ctx context.Context, cmd string, args map[string]any) (domain.AudioState, error) {
	raw, err := c.invoker.Invoke(ctx, cmd, args)
	if err != nil {
		return domain.AudioState{}, &CallError{Command: cmd, Err: err}
	}
	logging.Debugf("%s %v ok", cmd, args)
	if !c.dialect.ReturnsState || isEmptyBody(raw) {
		return LoadOrDefault(ctx, c), nil
	}
	state, err := c.dialect.DecodeState(raw)
	if err != nil {
		return domain.AudioState{}, &CallError{Command: cmd, Err: err}
	}
	return state, nil
}

// LoadOrDefault fetches the state and collapses any failure into the default
// state. The error is logged and never reaches the view.
func LoadOrDefault(ctx context.Context, f Fetcher) domain.AudioState {
	state, err := f.FetchState(ctx)
	if err != nil {
		logging.Warnf("failed to load audio state, showing default: %v", err)
		return domain.DefaultState()
	}
	return state
}
