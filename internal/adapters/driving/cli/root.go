// Package cli implements the sherpa command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sherpa-cli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services configured by the application before Execute.
var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	settingsService driving.SettingsService
)

// Global flags.
var (
	verbose   bool
	configDir string
)

// Services groups the driving ports the commands need.
type Services struct {
	Ingest   driving.IngestService
	Search   driving.SearchService
	Settings driving.SettingsService

	// Close releases the adapters behind the services. Optional.
	Close func() error
}

// Bootstrap builds services once flags are parsed. configDir is the
// --config value, empty for the default location.
type Bootstrap func(ctx context.Context, configDir string) (*Services, error)

var (
	bootstrap     Bootstrap
	closeServices func() error
)

// annotationNoServices marks commands that run without wiring services.
const annotationNoServices = "sherpa/no-services"

var rootCmd = &cobra.Command{
	Use:   "sherpa",
	Short: "Chunk and index product marketing knowledge",
	Long: `Sherpa turns long-form product marketing material into retrieval-ready chunks.

It reads PMM books, PMA blog articles and Sharebird AMA transcripts from
configured directories, splits each into bounded, context-preserving chunks,
and stores them with optional embeddings and a keyword index.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.sherpa)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects already-built services. Bootstrap is skipped for any
// service set here.
func SetServices(s Services) {
	ingestService = s.Ingest
	searchService = s.Search
	settingsService = s.Settings
	closeServices = s.Close
}

// SetBootstrap registers the function that builds services on first use.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := shutdownServices(); err == nil {
		err = closeErr
	}
	return err
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if _, ok := cmd.Annotations[annotationNoServices]; ok {
		return nil
	}
	if bootstrap == nil || ingestService != nil || searchService != nil {
		return nil
	}

	svcs, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return err
	}
	SetServices(*svcs)
	return nil
}

func shutdownServices() error {
	if closeServices == nil {
		return nil
	}
	closeFn := closeServices
	closeServices = nil
	return closeFn()
}

// errNotConfigured is returned when a command runs without its service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
