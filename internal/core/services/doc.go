// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services:
//   - IngestService: walks source directories and stores processed documents
//   - SearchService: keyword search hydrated from the document store
//   - SettingsService: reads application settings from the config store
package services
