package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"volpanel/internal/domain"
)

// FileRepository implements domain.SettingsRepository using a JSON file.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a new file-based settings repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// persistedData represents the JSON structure on disk.
type persistedData struct {
	BackendURL             string  `json:"backendURL"`
	Dialect                string  `json:"dialect"`
	Addr                   string  `json:"addr"`
	Controller             string  `json:"controller"`
	ObserveIntervalSeconds float64 `json:"observeIntervalSeconds"`
	TimeoutSeconds         float64 `json:"timeoutSeconds"`
}

// Load reads the settings from disk, falling back to defaults.
func (f *FileRepository) Load() (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("read config: %w", err)
	}

	var persisted persistedData
	if err := json.Unmarshal(data, &persisted); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	settings := domain.Settings{
		BackendURL:      persisted.BackendURL,
		Dialect:         persisted.Dialect,
		Addr:            persisted.Addr,
		Controller:      persisted.Controller,
		ObserveInterval: seconds(persisted.ObserveIntervalSeconds),
		Timeout:         seconds(persisted.TimeoutSeconds),
	}
	return domain.NormalizeSettings(settings), nil
}

// Save persists the settings to disk.
func (f *FileRepository) Save(settings domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	persisted := persistedData{
		BackendURL:             settings.BackendURL,
		Dialect:                settings.Dialect,
		Addr:                   settings.Addr,
		Controller:             settings.Controller,
		ObserveIntervalSeconds: settings.ObserveInterval.Seconds(),
		TimeoutSeconds:         settings.Timeout.Seconds(),
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// DefaultPath returns ~/.config/volpanel/config.json (or a cwd fallback).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "volpanel", "config.json")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "volpanel-config.json")
}
