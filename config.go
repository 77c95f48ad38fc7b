package slidecast

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences are the user settings that persist between sessions.
type Preferences struct {
	Orientation Orientation `yaml:"orientation"`
	Theme       Theme       `yaml:"theme"`
	FontDir     string      `yaml:"fontDir,omitempty"`
	Model       string      `yaml:"model,omitempty"`
}

// DefaultPreferences mirrors a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		Orientation: OrientationLandscape,
		Theme:       ThemeDark,
	}
}

// PreferencesPath is the default config location under the OS config
// directory.
func PreferencesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", ConfigError("resolve config dir", err)
	}
	return filepath.Join(dir, "slidecast", "config.yaml"), nil
}

// LoadPreferences reads preferences from path, falling back to defaults
// when the file does not exist. Unknown values normalize rather than
// fail so stale config files keep working across releases.
func LoadPreferences(path string) (Preferences, error) {
	prefs := DefaultPreferences()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, ConfigError("read preferences", err)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return DefaultPreferences(), ConfigError("parse preferences", err)
	}
	prefs.Orientation = NormalizeOrientation(prefs.Orientation)
	prefs.Theme = NormalizeTheme(prefs.Theme)
	return prefs, nil
}

// SavePreferences writes preferences to path, creating parent
// directories as needed.
func SavePreferences(path string, prefs Preferences) error {
	prefs.Orientation = NormalizeOrientation(prefs.Orientation)
	prefs.Theme = NormalizeTheme(prefs.Theme)
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return ConfigError("marshal preferences", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ConfigError("create config dir", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ConfigError("write preferences", err)
	}
	return nil
}
