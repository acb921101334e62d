package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// AskDocumentInput is the input schema for the ask_document tool.
type AskDocumentInput struct {
	DocumentID int64  `json:"document_id" jsonschema:"the id of the document to ask about"`
	Question   string `json:"question" jsonschema:"the question to ask"`
}

// AskAllInput is the input schema for the ask_all_documents tool.
type AskAllInput struct {
	Question string `json:"question" jsonschema:"the question to ask across all documents"`
}

// AskOutput is the output schema for both ask tools.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput represents a cited source passage.
type SourceOutput struct {
	DocumentID    int64   `json:"document_id"`
	DocumentTitle string  `json:"document_title,omitempty"`
	Filename      string  `json:"filename,omitempty"`
	Score         float64 `json:"score"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single uploaded document.
type DocumentOutput struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Uploaded string `json:"uploaded"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Ask a question about a single uploaded document",
	}, s.handleAskDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_all_documents",
		Description: "Ask a question across all uploaded documents",
	}, s.handleAskAll)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the uploaded documents available for questioning",
	}, s.handleListDocuments)
}

// handleAskDocument handles the ask_document tool invocation.
func (s *Server) handleAskDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskDocumentInput,
) (*mcp.CallToolResult, AskOutput, error) {
	doc, err := s.ports.Catalog.Select(ctx, input.DocumentID)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("opening document %d: %w", input.DocumentID, err)
	}

	exchange, err := s.ports.Query.Submit(ctx, input.Question, domain.ScopeSingle, doc)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, askOutput(exchange), nil
}

// handleAskAll handles the ask_all_documents tool invocation.
func (s *Server) handleAskAll(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskAllInput,
) (*mcp.CallToolResult, AskOutput, error) {
	exchange, err := s.ports.Query.Submit(ctx, input.Question, domain.ScopeAll, nil)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, askOutput(exchange), nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if err := s.ports.Catalog.Refresh(ctx); err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	docs := s.ports.Catalog.Documents()

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:       docs[i].ID,
			Title:    docs[i].Title,
			Filename: docs[i].Filename,
			Uploaded: docs[i].CreatedAt.Format("2006-01-02"),
		}
	}
	return nil, output, nil
}

func askOutput(exchange *domain.Exchange) AskOutput {
	if exchange == nil {
		return AskOutput{}
	}
	out := AskOutput{Answer: exchange.Answer}
	for _, src := range exchange.Sources {
		out.Sources = append(out.Sources, SourceOutput{
			DocumentID:    src.DocumentID,
			DocumentTitle: src.DocumentTitle,
			Filename:      src.Filename,
			Score:         src.RelevanceScore,
		})
	}
	return out
}
