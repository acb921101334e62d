package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// uriScheme is the custom URI scheme for DocuQuery resources.
const uriScheme = "docuquery://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the document catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all uploaded documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for the archived history of a document.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/history",
		Name:        "document-history",
		Description: "Archived question and answer history of a document",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleDocumentsResource returns the uploaded document list.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if err := s.ports.Catalog.Refresh(ctx); err != nil {
		return nil, err
	}

	data, err := json.Marshal(s.ports.Catalog.Documents())
	if err != nil {
		return nil, fmt.Errorf("encoding documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleHistoryResource returns the archived exchanges of one document.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	documentID, err := parseHistoryURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	exchanges, err := s.ports.Query.History(ctx, domain.DocumentLog(documentID), 0)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(exchanges)
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseHistoryURI extracts the document id from
// docuquery://documents/{documentId}/history.
func parseHistoryURI(uri string) (int64, error) {
	rest, ok := strings.CutPrefix(uri, uriScheme+"documents/")
	if !ok {
		return 0, fmt.Errorf("unexpected resource URI %q", uri)
	}
	idPart, ok := strings.CutSuffix(rest, "/history")
	if !ok {
		return 0, fmt.Errorf("unexpected resource URI %q", uri)
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid document id in URI %q", uri)
	}
	return id, nil
}
