package mcp

import (
	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query submits questions and exposes archived history.
	Query driving.QueryService

	// Catalog lists and opens documents.
	Catalog driving.CatalogService
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
	return nil
}
