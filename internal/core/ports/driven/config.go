package driven

import "github.com/lexra-labs/lexra-cli/internal/core/domain"

// SettingsStore persists application settings.
type SettingsStore interface {
	// Load reads the settings, applying defaults for anything unset.
	// A missing settings file is not an error.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error

	// Path returns the location of the backing file, for display.
	Path() string
}
