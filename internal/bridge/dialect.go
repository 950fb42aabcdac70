package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"volpanel/internal/domain"
)

// ErrUnknownDialect is returned by DialectByName for unsupported names.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect describes one wire naming scheme for the bridge calls.
// Backends disagree on command names, the volume field and whether
// mutations answer with the resulting state.
type Dialect struct {
	Name             string
	GetCommand       string
	SetVolumeCommand string
	SetMuteCommand   string
	// VolumeField is the key of the volume in a state object.
	VolumeField string
	// VolumeArg is the key of the volume in a set_volume request.
	VolumeArg string
	// ReturnsState is true when set calls answer with the new state.
	ReturnsState bool
}

const (
	MutedField = "is_muted"
	MuteArg    = "mute"

	// StopObserverCommand stops the backend change observer.
	StopObserverCommand = "stop_volume_observer_command"
)

var (
	// StateDialect names commands after the state and returns the new state from mutations.
	StateDialect = Dialect{
		Name:             "state",
		GetCommand:       "get_audio_state",
		SetVolumeCommand: "set_volume",
		SetMuteCommand:   "set_mute",
		VolumeField:      "volume",
		VolumeArg:        "volume",
		ReturnsState:     true,
	}

	// CommandDialect suffixes every command and answers mutations with an empty body.
	CommandDialect = Dialect{
		Name:             "command",
		GetCommand:       "get_audio_state_command",
		SetVolumeCommand: "set_volume_command",
		SetMuteCommand:   "set_mute_command",
		VolumeField:      "volume_percent",
		VolumeArg:        "volumePercent",
		ReturnsState:     false,
	}
)

// Dialects lists every supported dialect.
func Dialects() []Dialect {
	return []Dialect{StateDialect, CommandDialect}
}

// DialectByName looks a dialect up by its Name.
func DialectByName(name string) (Dialect, error) {
	for _, d := range Dialects() {
		if d.Name == name {
			return d, nil
		}
	}
	return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// EncodeState builds the wire object for a state.
func (d Dialect) EncodeState(s domain.AudioState) map[string]any {
	return map[string]any{
		d.VolumeField: s.VolumePercent,
		MutedField:    s.IsMuted,
	}
}

// DecodeState parses a wire state object. Fractional volumes are rounded and
// out-of-range volumes clamped, as the backend reports a scalar level.
func (d Dialect) DecodeState(raw []byte) (domain.AudioState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.AudioState{}, fmt.Errorf("decode state: %w", err)
	}
	if fields == nil {
		return domain.AudioState{}, errors.New("decode state: empty body")
	}
	volRaw, ok := fields[d.VolumeField]
	if !ok || isEmptyBody(volRaw) {
		return domain.AudioState{}, fmt.Errorf("decode state: missing %q", d.VolumeField)
	}
	var vol float64
	if err := json.Unmarshal(volRaw, &vol); err != nil {
		return domain.AudioState{}, fmt.Errorf("decode state %q: %w", d.VolumeField, err)
	}
	mutedRaw, ok := fields[MutedField]
	if !ok || isEmptyBody(mutedRaw) {
		return domain.AudioState{}, fmt.Errorf("decode state: missing %q", MutedField)
	}
	var muted bool
	if err := json.Unmarshal(mutedRaw, &muted); err != nil {
		return domain.AudioState{}, fmt.Errorf("decode state %q: %w", MutedField, err)
	}
	return domain.AudioState{
		VolumePercent: domain.ClampVolume(int(math.Round(vol))),
		IsMuted:       muted,
	}, nil
}

// VolumeArgs builds the set_volume request payload.
func (d Dialect) VolumeArgs(percent int) map[string]any {
	return map[string]any{d.VolumeArg: percent}
}

// MuteArgs builds the set_mute request payload.
func (d Dialect) MuteArgs(muted bool) map[string]any {
	return map[string]any{MuteArg: muted}
}

// ParseVolumeArg extracts the volume from a set_volume request payload.
func (d Dialect) ParseVolumeArg(args map[string]json.RawMessage) (int, error) {
	raw, ok := args[d.VolumeArg]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", d.VolumeArg)
	}
	var percent int
	if err := json.Unmarshal(raw, &percent); err != nil {
		return 0, fmt.Errorf("argument %q: %w", d.VolumeArg, err)
	}
	return percent, nil
}

// ParseMuteArg extracts the mute flag from a set_mute request payload.
func ParseMuteArg(args map[string]json.RawMessage) (bool, error) {
	raw, ok := args[MuteArg]
	if !ok {
		return false, fmt.Errorf("missing argument %q", MuteArg)
	}
	var muted bool
	if err := json.Unmarshal(raw, &muted); err != nil {
		return false, fmt.Errorf("argument %q: %w", MuteArg, err)
	}
	return muted, nil
}

// isEmptyBody reports whether a response carries no state.
func isEmptyBody(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
