package driving

import (
	"context"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// QueryService submits questions and reconciles the conversation logs with
// the backend's answers.
type QueryService interface {
	// Submit asks a question in the given scope. doc is required when scope
	// is single-document and ignored otherwise.
	//
	// A pending exchange is appended to the targeted log before the network
	// call starts; on success it is replaced by the server exchange, on
	// failure it is rolled back and the error returned. An empty or
	// whitespace-only question is a no-op and returns (nil, nil).
	Submit(ctx context.Context, question string, scope domain.Scope, doc *domain.Document) (*domain.Exchange, error)

	// Log returns the current ordered exchanges of a conversation log.
	Log(key domain.LogKey) []domain.Exchange

	// History returns locally archived exchanges for a log, oldest first.
	// Returns an empty slice when no archive is configured.
	History(ctx context.Context, key domain.LogKey, limit int) ([]domain.Exchange, error)
}
