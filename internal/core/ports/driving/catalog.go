package driving

import (
	"context"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// CatalogService holds the set of uploaded documents and the current
// selection state. Selection mutations are synchronous; only the catalog
// refresh and document opening touch the network.
type CatalogService interface {
	// Refresh re-fetches the full document list from the backend.
	// The backend is the source of truth: the list is replaced, not merged.
	Refresh(ctx context.Context) error

	// Documents returns the cached document list.
	Documents() []domain.Document

	// Select opens a document: fetches its record and conversation history,
	// switches scope to single-document and view to chat, and under the
	// session protocol provisions a session bound to it.
	Select(ctx context.Context, documentID int64) (*domain.Document, error)

	// SelectAll switches to the all-documents scope and catalog view and
	// refreshes the global conversation log from the backend.
	SelectAll(ctx context.Context) error

	// Selected returns the currently open document, nil when none.
	Selected() *domain.Document

	// Selection returns a snapshot of the full selection state.
	Selection() domain.Selection

	// SetScope switches the search scope without changing the selection.
	SetScope(scope domain.Scope)

	// SessionFor returns the provisioned session for a document, if any.
	// Only meaningful under the session protocol variant.
	SessionFor(documentID int64) (*domain.Session, bool)
}
