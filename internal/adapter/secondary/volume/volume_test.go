package volume

import (
	"context"
	"errors"
	"testing"

	"volpanel/internal/domain"
)

func TestParseVolumeSettings(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    domain.AudioState
		wantErr bool
	}{
		{name: "unmuted", out: "42,false\n", want: domain.AudioState{VolumePercent: 42}},
		{name: "muted", out: "100,true", want: domain.AudioState{VolumePercent: 100, IsMuted: true}},
		{name: "missing value", out: "missing value,false", wantErr: true},
		{name: "garbage", out: "loud", wantErr: true},
		{name: "bad bool", out: "10,maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVolumeSettings(tt.out)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestAppleScriptScripts(t *testing.T) {
	var scripts []string
	a := &AppleScriptController{run: func(ctx context.Context, script string) ([]byte, error) {
		scripts = append(scripts, script)
		return []byte("25,true"), nil
	}}
	ctx := context.Background()

	if err := a.SetVolume(ctx, 25); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if err := a.SetMute(ctx, true); err != nil {
		t.Fatalf("SetMute: %v", err)
	}
	state, err := a.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state != (domain.AudioState{VolumePercent: 25, IsMuted: true}) {
		t.Errorf("unexpected state %+v", state)
	}
	if scripts[0] != "set volume output volume 25" || scripts[1] != "set volume output muted true" {
		t.Errorf("unexpected scripts %q", scripts)
	}
}

func TestAppleScriptRejectsInvalidVolume(t *testing.T) {
	a := &AppleScriptController{run: func(ctx context.Context, script string) ([]byte, error) {
		t.Fatalf("osascript must not run, got %q", script)
		return nil, nil
	}}
	if err := a.SetVolume(context.Background(), 120); !errors.Is(err, domain.ErrInvalidVolume) {
		t.Errorf("expected ErrInvalidVolume, got %v", err)
	}
}

func TestMemoryControllerAxesIndependent(t *testing.T) {
	m := NewMemoryController(domain.AudioState{VolumePercent: 64})
	ctx := context.Background()

	if err := m.SetMute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetMute(ctx, false); err != nil {
		t.Fatal(err)
	}
	state, _ := m.State(ctx)
	if state.VolumePercent != 64 || state.IsMuted {
		t.Errorf("unmute must restore prior volume, got %+v", state)
	}
	if err := m.SetVolume(ctx, -5); !errors.Is(err, domain.ErrInvalidVolume) {
		t.Errorf("expected ErrInvalidVolume, got %v", err)
	}
}

func TestNewController(t *testing.T) {
	if _, err := NewController("memory"); err != nil {
		t.Errorf("memory: %v", err)
	}
	if _, err := NewController("alsa"); !errors.Is(err, domain.ErrUnknownController) {
		t.Errorf("expected ErrUnknownController, got %v", err)
	}
}
