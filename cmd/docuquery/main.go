// Command docuquery is a terminal client for a document question-answering
// backend. It uploads PDFs and answers questions about them, in single
// document or whole-collection scope.
package main

import (
	"fmt"
	"os"

	configfile "github.com/letscode5108/DocuQuery/internal/adapters/driven/config/file"
	"github.com/letscode5108/DocuQuery/internal/adapters/driven/gateway/rest"
	"github.com/letscode5108/DocuQuery/internal/adapters/driven/storage/memory"
	"github.com/letscode5108/DocuQuery/internal/adapters/driven/storage/sqlite"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/cli"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
	"github.com/letscode5108/DocuQuery/internal/core/services"
	"github.com/letscode5108/DocuQuery/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetInitializer(buildServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices wires the service graph. It runs after flag parsing so
// --config and --server are honoured.
func buildServices() error {
	cfg, err := configfile.Load(cli.ConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Verbose {
		logger.SetVerbose(true)
	}
	if override := cli.ServerOverride(); override != "" {
		cfg.Server.BaseURL = override
	}

	gateway := rest.NewClient(rest.Config{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.Server.Timeout(),
	})
	logs := memory.NewConversationStore()

	var history driven.HistoryStore
	if cfg.History.Enabled {
		store, err := sqlite.NewStore(cfg.History.DataDir)
		if err != nil {
			// The archive is a convenience; a broken local database should
			// not keep the client from its backend.
			logger.Warn("History archive disabled: %v", err)
		} else {
			history = store
			logger.Debug("History archive at %s", store.Path())
		}
	}

	protocol := services.Protocol(cfg.Server.Protocol)

	catalog := services.NewCatalogService(gateway, logs, protocol)
	query, err := services.NewQueryService(gateway, logs, history, protocol, catalog)
	if err != nil {
		return err
	}
	upload := services.NewUploadService(gateway, catalog)

	cli.SetCatalogService(catalog)
	cli.SetQueryService(query)
	cli.SetUploadService(upload)

	return nil
}
