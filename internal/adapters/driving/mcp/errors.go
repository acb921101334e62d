// Package mcp provides an MCP (Model Context Protocol) server adapter for
// DocuQuery. It lets AI assistants query the document collection through
// the same services the TUI and CLI use.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
