package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"volpanel/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nested", "config.json"))
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.Settings{
		BackendURL:      "http://10.0.0.5:7070",
		Dialect:         "command",
		Addr:            "0.0.0.0:7070",
		Controller:      domain.ControllerMemory,
		ObserveInterval: 500 * time.Millisecond,
		Timeout:         3 * time.Second,
	}
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("tmp file left behind: %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"dialect": "command"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	repo, _ := NewFileRepository(path)
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := domain.DefaultSettings()
	if got.Dialect != "command" || got.BackendURL != def.BackendURL || got.Timeout != def.Timeout {
		t.Errorf("unexpected settings %+v", got)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	repo, _ := NewFileRepository(path)
	if _, err := repo.Load(); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestNewFileRepositoryRequiresPath(t *testing.T) {
	if _, err := NewFileRepository(""); err == nil {
		t.Error("expected error for empty path")
	}
}
