package driven

import (
	"context"
	"io"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// Gateway is the typed client for the document question-answering backend.
// It performs no retries and no caching: every call either returns a typed
// payload or an error, and the core treats all failures uniformly.
type Gateway interface {
	// ListDocuments returns all uploaded documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// GetDocument returns one document by id.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// CreateDocument uploads a file with an optional title and returns the
	// created record.
	CreateDocument(ctx context.Context, file io.Reader, filename, title string) (*domain.Document, error)

	// ListQueries returns the exchanges scoped to one document, in order.
	ListQueries(ctx context.Context, documentID int64) ([]domain.Exchange, error)

	// ListAllQueries returns the cross-document exchanges, in order.
	ListAllQueries(ctx context.Context) ([]domain.Exchange, error)

	// AskSingle asks a question against one document (stateless protocol).
	AskSingle(ctx context.Context, documentID int64, question string) (*domain.Exchange, error)

	// AskAll asks a question across all documents.
	AskAll(ctx context.Context, question string) (*domain.Exchange, error)

	// CreateSession provisions a session bound to one document
	// (session protocol variant).
	CreateSession(ctx context.Context, documentID int64) (*domain.Session, error)

	// AskInSession asks a question through a previously created session
	// (session protocol variant).
	AskInSession(ctx context.Context, sessionID, question string) (*domain.Exchange, error)
}
