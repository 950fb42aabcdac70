package volume

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"volpanel/internal/domain"
)

// runFunc executes one AppleScript and returns its combined output.
type runFunc func(ctx context.Context, script string) ([]byte, error)

// AppleScriptController implements domain.AudioController using macOS osascript.
// This is a secondary adapter.
type AppleScriptController struct {
	run runFunc
}

// NewAppleScriptController creates a new AppleScript output volume controller.
func NewAppleScriptController() *AppleScriptController {
	return &AppleScriptController{run: runOsascript}
}

func runOsascript(ctx context.Context, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("osascript failed: %w, output: %s", err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// State reads the output volume and mute flag from the volume settings.
func (a *AppleScriptController) State(ctx context.Context) (domain.AudioState, error) {
	out, err := a.run(ctx, "set s to get volume settings\nreturn (output volume of s as text) & \",\" & (output muted of s as text)")
	if err != nil {
		return domain.AudioState{}, err
	}
	return parseVolumeSettings(string(out))
}

// SetVolume sets the output volume (0-100).
func (a *AppleScriptController) SetVolume(ctx context.Context, percent int) error {
	if err := domain.ValidateVolume(percent); err != nil {
		return fmt.Errorf("%w, got %d", err, percent)
	}
	_, err := a.run(ctx, fmt.Sprintf("set volume output volume %d", percent))
	return err
}

// SetMute mutes or unmutes the output without touching the volume.
func (a *AppleScriptController) SetMute(ctx context.Context, muted bool) error {
	_, err := a.run(ctx, fmt.Sprintf("set volume output muted %t", muted))
	return err
}

// parseVolumeSettings parses "<volume>,<muted>" as printed by State's script.
// Some output devices report "missing value" for the volume.
func parseVolumeSettings(out string) (domain.AudioState, error) {
	parts := strings.Split(strings.TrimSpace(out), ",")
	if len(parts) != 2 {
		return domain.AudioState{}, fmt.Errorf("unexpected volume settings %q", out)
	}
	volText := strings.TrimSpace(parts[0])
	if volText == "missing value" {
		return domain.AudioState{}, fmt.Errorf("output device has no volume control")
	}
	vol, err := strconv.Atoi(volText)
	if err != nil {
		return domain.AudioState{}, fmt.Errorf("parse output volume %q: %w", volText, err)
	}
	muted, err := strconv.ParseBool(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.AudioState{}, fmt.Errorf("parse output muted %q: %w", parts[1], err)
	}
	return domain.AudioState{VolumePercent: domain.ClampVolume(vol), IsMuted: muted}, nil
}
