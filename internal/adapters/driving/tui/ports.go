// Package tui provides the interactive terminal user interface for
// DocuQuery. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query submits questions and exposes the conversation logs.
	Query driving.QueryService

	// Catalog lists documents and tracks the current selection.
	Catalog driving.CatalogService

	// Upload submits local PDF files to the backend.
	Upload driving.UploadService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	if p.Upload == nil {
		return ErrMissingUploadService
	}
	return nil
}
