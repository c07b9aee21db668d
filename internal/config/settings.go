package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings are the player preferences kept next to the score table.
type Settings struct {
	SoundEnabled bool `json:"sound_enabled"`
}

func DefaultSettings() Settings {
	return Settings{SoundEnabled: true}
}

// LoadSettings never fails: a missing or unreadable file yields the
// defaults.
func LoadSettings(path string) Settings {
	settings := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettings()
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings()
	}
	return settings
}

func WriteSettings(path string, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
