package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/unkn0wn-root/findterm/internal/errdef"
)

// Settings is the user-tunable configuration carried in settings.toml.
type Settings struct {
	// CommitDelayMillis is the debounce quiet period before a search term
	// lands in history. Zero means the built-in default.
	CommitDelayMillis int `toml:"commit_delay_millis"`
	// HistoryLimit caps the persisted search-term list.
	HistoryLimit int `toml:"history_limit"`
	// Theme selects the color theme by name.
	Theme string `toml:"theme"`
}

func DefaultSettings() Settings {
	return Settings{
		CommitDelayMillis: 300,
		HistoryLimit:      100,
		Theme:             "default",
	}
}

// LoadSettings reads settings.toml, returning defaults when the file does
// not exist.
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, errdef.Wrap(errdef.CodeStorage, err, "read settings")
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), errdef.Wrap(errdef.CodeStorage, err, "parse settings")
	}
	if settings.CommitDelayMillis < 0 {
		settings.CommitDelayMillis = DefaultSettings().CommitDelayMillis
	}
	if settings.HistoryLimit <= 0 {
		settings.HistoryLimit = DefaultSettings().HistoryLimit
	}
	return settings, nil
}

// SaveSettings writes settings.toml, creating the config dir on demand.
func SaveSettings(settings Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "encode settings")
	}

	path := SettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "create config dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "write settings")
	}
	return nil
}
