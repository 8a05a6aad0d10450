package driving

import "github.com/custodia-labs/sherpa-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Validate checks that the settings can be used to start the application.
	Validate() error

	// SetSource records the directory for a source type.
	SetSource(src domain.Source) error
}
