package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"volpanel/internal/adapter/secondary/volume"
	"volpanel/internal/domain"
)

func newTestUseCase(t *testing.T, initial domain.AudioState) (AudioUseCase, *volume.MemoryController) {
	t.Helper()
	ctrl := volume.NewMemoryController(initial)
	uc, err := NewAudioUseCase(ctrl, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewAudioUseCase: %v", err)
	}
	return uc, ctrl
}

func receive(t *testing.T, ch <-chan domain.AudioState) domain.AudioState {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state change")
		return domain.AudioState{}
	}
}

func TestSetVolumeAndMute(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.AudioState{VolumePercent: 20})
	ctx := context.Background()

	state, err := uc.SetVolume(ctx, 70)
	if err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if state.VolumePercent != 70 {
		t.Errorf("expected 70, got %d", state.VolumePercent)
	}

	state, err = uc.SetMute(ctx, true)
	if err != nil {
		t.Fatalf("SetMute: %v", err)
	}
	if !state.IsMuted || state.VolumePercent != 70 {
		t.Errorf("expected muted at 70, got %+v", state)
	}

	if _, err := uc.SetVolume(ctx, 101); !errors.Is(err, domain.ErrInvalidVolume) {
		t.Errorf("expected ErrInvalidVolume, got %v", err)
	}
}

func TestMutationPublishes(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.AudioState{VolumePercent: 20})
	ch, unsubscribe := uc.Subscribe()
	defer unsubscribe()

	if _, err := uc.SetVolume(context.Background(), 33); err != nil {
		t.Fatal(err)
	}
	if got := receive(t, ch); got.VolumePercent != 33 {
		t.Errorf("expected published 33, got %+v", got)
	}
}

func TestObserverPublishesExternalChange(t *testing.T) {
	uc, ctrl := newTestUseCase(t, domain.AudioState{VolumePercent: 20})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe := uc.Subscribe()
	defer unsubscribe()
	uc.Start(ctx)

	if got := receive(t, ch); got.VolumePercent != 20 {
		t.Fatalf("expected initial state, got %+v", got)
	}

	// Change made behind the use case's back, as another mixer would.
	if err := ctrl.SetMute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := receive(t, ch); !got.IsMuted {
		t.Errorf("expected muted change, got %+v", got)
	}
}

func TestStopObserver(t *testing.T) {
	uc, _ := newTestUseCase(t, domain.DefaultState())
	if err := uc.StopObserver(); !errors.Is(err, domain.ErrObserverNotRunning) {
		t.Fatalf("expected ErrObserverNotRunning before start, got %v", err)
	}

	uc.Start(context.Background())
	if !uc.ObserverRunning() {
		t.Fatal("expected observer running")
	}
	if err := uc.StopObserver(); err != nil {
		t.Fatalf("StopObserver: %v", err)
	}
	if uc.ObserverRunning() {
		t.Error("expected observer stopped")
	}
	if err := uc.StopObserver(); !errors.Is(err, domain.ErrObserverNotRunning) {
		t.Errorf("expected ErrObserverNotRunning on second stop, got %v", err)
	}
}

func TestNewAudioUseCaseValidation(t *testing.T) {
	if _, err := NewAudioUseCase(nil, time.Second); err == nil {
		t.Error("expected error for nil controller")
	}
	ctrl := volume.NewMemoryController(domain.DefaultState())
	if _, err := NewAudioUseCase(ctrl, time.Millisecond); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestRestartAfterParentCancel(t *testing.T) {
	uc, ctrl := newTestUseCase(t, domain.AudioState{VolumePercent: 20})
	parent, cancel := context.WithCancel(context.Background())
	uc.Start(parent)
	cancel()

	// Restart before the cancelled loop has necessarily exited.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	uc.Start(ctx)
	if !uc.ObserverRunning() {
		t.Fatal("expected observer running after restart")
	}

	ch, unsubscribe := uc.Subscribe()
	defer unsubscribe()
	time.Sleep(300 * time.Millisecond)
	if !uc.ObserverRunning() {
		t.Fatal("exited loop must not clear the restarted observer")
	}

	if err := ctrl.SetVolume(ctx, 65); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-ch:
			if got.VolumePercent == 65 {
				if err := uc.StopObserver(); err != nil {
					t.Fatalf("StopObserver: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("restarted observer did not publish the change")
		}
	}
}
