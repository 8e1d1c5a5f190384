package driving

import "github.com/custodia-labs/serplot/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	// Missing keys fall back to domain.DefaultSettings.
	Get() (*domain.Settings, error)

	// Save validates and persists application settings.
	Save(settings *domain.Settings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
