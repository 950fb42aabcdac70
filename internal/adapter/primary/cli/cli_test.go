package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"volpanel/internal/adapter/primary/web"
	"volpanel/internal/adapter/secondary/volume"
	"volpanel/internal/core"
	"volpanel/internal/domain"
	"volpanel/internal/logging"
	"volpanel/internal/usecase"
)

func newBackend(t *testing.T, initial domain.AudioState) *httptest.Server {
	t.Helper()
	uc, err := usecase.NewAudioUseCase(volume.NewMemoryController(initial), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(web.NewServer(uc, "").Handler())
	t.Cleanup(ts.Close)
	return ts
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.json")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVolumeCommand(t *testing.T) {
	ts := newBackend(t, domain.AudioState{VolumePercent: 20})

	for _, dialect := range []string{"state", "command"} {
		out, err := execute(t, "--backend", ts.URL, "--dialect", dialect, "volume", "73")
		if err != nil {
			t.Fatalf("%s: volume: %v", dialect, err)
		}
		if !strings.Contains(out, "Volume: 73%") || !strings.Contains(out, "[ Mute ]") {
			t.Errorf("%s: unexpected output:\n%s", dialect, out)
		}
	}
}

func TestVolumeCommandRejectsInput(t *testing.T) {
	ts := newBackend(t, domain.DefaultState())
	for _, arg := range []string{"loud", "101"} {
		if _, err := execute(t, "--backend", ts.URL, "volume", arg); err == nil {
			t.Errorf("volume %s: expected error", arg)
		}
	}
}

func TestMuteCommandToggles(t *testing.T) {
	ts := newBackend(t, domain.AudioState{VolumePercent: 40})

	out, err := execute(t, "--backend", ts.URL, "mute")
	if err != nil {
		t.Fatalf("mute: %v", err)
	}
	if !strings.Contains(out, "[ Unmute ]") || !strings.Contains(out, core.MutedText) {
		t.Errorf("expected muted panel:\n%s", out)
	}
	out, _ = execute(t, "--backend", ts.URL, "mute")
	if !strings.Contains(out, "[ Mute ]") || !strings.Contains(out, "Volume: 40%") {
		t.Errorf("expected unmuted panel at 40%%:\n%s", out)
	}
}

func TestStateCommandFallsBackToDefault(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	out, err := execute(t, "--backend", url, "state")
	if err != nil {
		t.Fatalf("state must not fail when the backend is down: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("expected JSON, got %q", out)
	}
	if got["volumePercent"] != float64(50) || got["isMuted"] != false {
		t.Errorf("expected default state, got %v", got)
	}
}

func TestRefreshCommand(t *testing.T) {
	ts := newBackend(t, domain.AudioState{VolumePercent: 88, IsMuted: true})

	out, err := execute(t, "--backend", ts.URL, "refresh")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !strings.Contains(out, "Volume: 88%") || !strings.Contains(out, "[ Unmute ]") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigSetThenGet(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.json")
	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetArgs(append([]string{"--config", cfg}, args...))
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("config", "set", "--dialect", "command", "--controller", "memory", "--interval", "500ms")
	out := run("config", "get")

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("expected JSON, got %q", out)
	}
	if got["dialect"] != "command" || got["controller"] != "memory" || got["observeIntervalSeconds"] != 0.5 {
		t.Errorf("unexpected settings %v", got)
	}
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	if _, err := execute(t, "config", "set", "--dialect", "xml"); err == nil {
		t.Error("expected unknown dialect error")
	}
	if _, err := execute(t, "config", "set", "--interval", "1ms"); err == nil {
		t.Error("expected interval error")
	}
}

func TestFormatPanel(t *testing.T) {
	v := core.NewView()
	core.Render(&v, domain.AudioState{VolumePercent: 50, IsMuted: true})

	want := "Volume: 50%\n[----------          ] 50%\n[ Unmute ]  🔇 Muted\n"
	if got := formatPanel(v); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestPortOf(t *testing.T) {
	if port, err := portOf("0.0.0.0:7070"); err != nil || port != 7070 {
		t.Errorf("expected 7070, got %d (%v)", port, err)
	}
	if _, err := portOf("localhost"); err == nil {
		t.Error("expected error without port")
	}
}

func TestShellLogLevelSurvivesCommands(t *testing.T) {
	t.Cleanup(func() { logging.SetVerbosity(0) })
	var out bytes.Buffer
	cfg := filepath.Join(t.TempDir(), "config.json")

	if err := handleShellLog(&out, []string{"-vv"}); err != nil {
		t.Fatalf("log -vv: %v", err)
	}
	if err := executeArgs(&out, []string{"--config", cfg, "config", "get"}); err != nil {
		t.Fatalf("config get: %v", err)
	}
	if got := logging.Verbosity(); got != 2 {
		t.Errorf("expected verbosity 2 after a plain command, got %d", got)
	}

	if err := executeArgs(&out, []string{"--config", cfg, "-v", "config", "get"}); err != nil {
		t.Fatalf("config get -v: %v", err)
	}
	if got := logging.Verbosity(); got != 1 {
		t.Errorf("expected explicit -v to win, got %d", got)
	}

	if err := handleShellLog(&out, []string{"--level", "trace"}); err != nil {
		t.Fatalf("log --level: %v", err)
	}
	if got := logging.LevelName(); got != "trace" {
		t.Errorf("expected trace, got %s", got)
	}
}
