package config

import (
	"os"
	"path/filepath"
	"runtime"
)

func Dir() string {
	if override := os.Getenv("FINDTERM_CONFIG_DIR"); override != "" {
		return override
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".findterm"
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "findterm")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "findterm")
	default:
		return filepath.Join(home, ".config", "findterm")
	}
}

func HistoryPath() string {
	return filepath.Join(Dir(), "history.json")
}

func OptionsPath() string {
	return filepath.Join(Dir(), "options.json")
}

func SettingsPath() string {
	return filepath.Join(Dir(), "settings.toml")
}
