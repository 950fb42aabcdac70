package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"volpanel/internal/domain"
)

func TestDialectByName(t *testing.T) {
	d, err := DialectByName("command")
	if err != nil || d.GetCommand != "get_audio_state_command" {
		t.Errorf("expected command dialect, got %+v (%v)", d, err)
	}
	if _, err := DialectByName("xml"); !errors.Is(err, ErrUnknownDialect) {
		t.Errorf("expected ErrUnknownDialect, got %v", err)
	}
}

func TestEncodeDecodeState(t *testing.T) {
	s := domain.AudioState{VolumePercent: 64, IsMuted: true}
	for _, d := range Dialects() {
		raw, err := json.Marshal(d.EncodeState(s))
		if err != nil {
			t.Fatalf("%s: marshal: %v", d.Name, err)
		}
		got, err := d.DecodeState(raw)
		if err != nil {
			t.Fatalf("%s: decode: %v", d.Name, err)
		}
		if got != s {
			t.Errorf("%s: expected %+v, got %+v", d.Name, s, got)
		}
	}
}

func TestDecodeStateErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null", `null`},
		{"wrong field", `{"volume_percent": 10}`},
		{"string volume", `{"volume": "ten"}`},
		{"string mute", `{"volume": 10, "is_muted": "yes"}`},
		{"missing mute", `{"volume": 40}`},
		{"null mute", `{"volume": 40, "is_muted": null}`},
		{"null volume", `{"volume": null, "is_muted": false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := StateDialect.DecodeState([]byte(tt.body)); err == nil {
				t.Errorf("expected error for %s", tt.body)
			}
		})
	}
}

func TestDecodeStateClamps(t *testing.T) {
	got, err := StateDialect.DecodeState([]byte(`{"volume": 140, "is_muted": false}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.VolumePercent != 100 {
		t.Errorf("expected clamp to 100, got %d", got.VolumePercent)
	}
}

func TestParseArgs(t *testing.T) {
	args := map[string]json.RawMessage{
		"volumePercent": json.RawMessage(`55`),
		"mute":          json.RawMessage(`true`),
	}
	v, err := CommandDialect.ParseVolumeArg(args)
	if err != nil || v != 55 {
		t.Errorf("expected 55, got %d (%v)", v, err)
	}
	if _, err := StateDialect.ParseVolumeArg(args); err == nil {
		t.Error("expected missing volume error for state dialect")
	}
	muted, err := ParseMuteArg(args)
	if err != nil || !muted {
		t.Errorf("expected mute=true, got %t (%v)", muted, err)
	}
	if _, err := ParseMuteArg(map[string]json.RawMessage{}); err == nil {
		t.Error("expected missing mute error")
	}
}
