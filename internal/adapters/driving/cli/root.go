// Package cli implements the docuquery command-line interface.
//
// Commands receive their services through Set* injection functions called
// by main during startup. The services themselves are built lazily via an
// initializer hook so that persistent flags like --server are parsed
// before the backend client is constructed.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
	"github.com/letscode5108/DocuQuery/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	queryService   driving.QueryService
	catalogService driving.CatalogService
	uploadService  driving.UploadService
)

// Persistent flag values.
var (
	flagConfig  string
	flagServer  string
	flagVerbose bool
)

// initServices is installed by main and builds the service graph after
// flags are parsed.
var initServices func() error

var rootCmd = &cobra.Command{
	Use:   "docuquery",
	Short: "Ask questions about your PDF documents",
	Long: `DocuQuery is a terminal client for a document question-answering backend.

Upload PDFs, then ask questions about a single document or across the
whole collection. Answers cite the source passages they were drawn from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if initServices != nil {
			return initServices()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.docuquery/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetInitializer installs the hook that builds services once flags are
// parsed. It runs before any command's RunE.
func SetInitializer(fn func() error) {
	initServices = fn
}

// ConfigPath returns the --config flag value.
func ConfigPath() string { return flagConfig }

// ServerOverride returns the --server flag value.
func ServerOverride() string { return flagServer }

// SetQueryService sets the query service used by commands.
func SetQueryService(s driving.QueryService) {
	queryService = s
}

// SetCatalogService sets the catalog service used by commands.
func SetCatalogService(s driving.CatalogService) {
	catalogService = s
}

// SetUploadService sets the upload service used by commands.
func SetUploadService(s driving.UploadService) {
	uploadService = s
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
