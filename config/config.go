package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the main configuration structure
type Config struct {
	// OutputPort is a case-insensitive substring of the MIDI output port
	// name. Empty matches the first available port.
	OutputPort string `json:"outputPort,omitempty"`

	// BendRangeSemitones is the receiver's pitch bend sensitivity. The
	// engine both configures it via RPN and scales bends against it.
	BendRangeSemitones int `json:"bendRangeSemitones,omitempty"`

	// NoteNames overrides the 12-tone display names. Display only; pitch
	// math never touches it.
	NoteNames []string `json:"noteNames,omitempty"`

	// LibraryPath points at the chord table YAML loaded on startup.
	LibraryPath string `json:"libraryPath,omitempty"`

	// PalettePath optionally points at a GIMP .gpl palette for the TUI.
	PalettePath string `json:"palettePath,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BendRangeSemitones: 2,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-31tone"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.NoteNames) != 0 && len(cfg.NoteNames) != 12 {
		return nil, fmt.Errorf("%s: noteNames needs exactly 12 entries, got %d", path, len(cfg.NoteNames))
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
