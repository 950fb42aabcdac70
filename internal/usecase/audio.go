package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"volpanel/internal/domain"
	"volpanel/internal/logging"
)

// AudioUseCase is the primary port for the backend side of the bridge.
type AudioUseCase interface {
	// Start begins the change observer loop.
	Start(ctx context.Context)
	State(ctx context.Context) (domain.AudioState, error)
	SetVolume(ctx context.Context, percent int) (domain.AudioState, error)
	SetMute(ctx context.Context, muted bool) (domain.AudioState, error)
	// Subscribe registers for state changes. The returned func unsubscribes.
	Subscribe() (<-chan domain.AudioState, func())
	StopObserver() error
	ObserverRunning() bool
}

// audioInteractor implements AudioUseCase.
// It depends only on domain layer and secondary ports.
type audioInteractor struct {
	controller domain.AudioController
	interval   time.Duration

	mu          sync.Mutex
	last        domain.AudioState
	havePublish bool
	subscribers map[chan domain.AudioState]struct{}
	loopCtx     context.Context
	stop        context.CancelFunc
	done        chan struct{}
}

// NewAudioUseCase creates the backend use case around an audio controller.
func NewAudioUseCase(controller domain.AudioController, interval time.Duration) (AudioUseCase, error) {
	if controller == nil {
		return nil, errors.New("controller is required")
	}
	if interval < 100*time.Millisecond {
		return nil, domain.ErrInvalidInterval
	}
	return &audioInteractor{
		controller:  controller,
		interval:    interval,
		subscribers: make(map[chan domain.AudioState]struct{}),
	}, nil
}

// Start launches the observer until ctx is cancelled or StopObserver is called.
// Calling Start while the observer runs is a no-op.
func (a *audioInteractor) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runningLocked() {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	a.loopCtx = loopCtx
	a.stop = cancel
	a.done = make(chan struct{})
	go a.loop(loopCtx, a.done)
}

// runningLocked reports whether a loop exists whose context is still live.
// A loop whose parent was cancelled may not have exited yet; it counts as stopped.
func (a *audioInteractor) runningLocked() bool {
	return a.stop != nil && a.loopCtx.Err() == nil
}

func (a *audioInteractor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		a.mu.Lock()
		// A newer loop may already own the fields.
		if a.done == done {
			a.loopCtx, a.stop, a.done = nil, nil, nil
		}
		a.mu.Unlock()
	}()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state, err := a.controller.State(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logging.Debugf("observer poll failed: %v", err)
				}
				continue
			}
			a.publish(state)
		}
	}
}

// StopObserver stops the change observer and waits for its loop to exit.
func (a *audioInteractor) StopObserver() error {
	a.mu.Lock()
	if !a.runningLocked() {
		a.mu.Unlock()
		return domain.ErrObserverNotRunning
	}
	stop, done := a.stop, a.done
	a.mu.Unlock()
	stop()
	<-done
	logging.Infof("volume observer stopped")
	return nil
}

// ObserverRunning reports whether the observer loop is active.
func (a *audioInteractor) ObserverRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runningLocked()
}

// State reads the current state from the controller.
func (a *audioInteractor) State(ctx context.Context) (domain.AudioState, error) {
	return a.controller.State(ctx)
}

// SetVolume validates and applies a volume, then returns the resulting state.
func (a *audioInteractor) SetVolume(ctx context.Context, percent int) (domain.AudioState, error) {
	if err := domain.ValidateVolume(percent); err != nil {
		return domain.AudioState{}, err
	}
	if err := a.controller.SetVolume(ctx, percent); err != nil {
		return domain.AudioState{}, err
	}
	return a.readAndPublish(ctx)
}

// SetMute applies the mute flag, then returns the resulting state.
func (a *audioInteractor) SetMute(ctx context.Context, muted bool) (domain.AudioState, error) {
	if err := a.controller.SetMute(ctx, muted); err != nil {
		return domain.AudioState{}, err
	}
	return a.readAndPublish(ctx)
}

func (a *audioInteractor) readAndPublish(ctx context.Context) (domain.AudioState, error) {
	state, err := a.controller.State(ctx)
	if err != nil {
		return domain.AudioState{}, err
	}
	a.publish(state)
	return state, nil
}

// Subscribe returns a channel receiving every published change.
// Slow subscribers only ever see the latest state.
func (a *audioInteractor) Subscribe() (<-chan domain.AudioState, func()) {
	ch := make(chan domain.AudioState, 1)
	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	a.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subscribers, ch)
			a.mu.Unlock()
		})
	}
}

// publish broadcasts state if it differs from the last published one.
func (a *audioInteractor) publish(state domain.AudioState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.havePublish && state == a.last {
		return
	}
	a.last = state
	a.havePublish = true
	logging.Debugf("volume_changed volume=%d muted=%t", state.VolumePercent, state.IsMuted)

	for ch := range a.subscribers {
		select {
		case ch <- state:
		default:
			// Drop the stale pending value and keep the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}
