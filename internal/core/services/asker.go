package services

import (
	"context"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
)

// Protocol selects how single-document questions reach the backend.
// The variant is chosen once at startup from configuration; the two are
// mutually exclusive per deployment, never a runtime fallback chain.
type Protocol string

const (
	// ProtocolDocument posts the question with a bare document id.
	ProtocolDocument Protocol = "document"

	// ProtocolSession posts the question against a session bound to the
	// document at selection time.
	ProtocolSession Protocol = "session"
)

// SessionSource exposes the provisioned session for a document.
// CatalogService implements it under the session protocol.
type SessionSource interface {
	SessionFor(documentID int64) (*domain.Session, bool)
}

// singleAsker dispatches a single-document question. Ready is checked
// before the pending exchange is inserted so routing and configuration
// failures never mutate a conversation log.
type singleAsker interface {
	Ready(doc *domain.Document) error
	Ask(ctx context.Context, doc *domain.Document, question string) (*domain.Exchange, error)
}

// documentAsker implements the stateless document-id protocol.
type documentAsker struct {
	gateway driven.Gateway
}

func (a *documentAsker) Ready(doc *domain.Document) error {
	if doc == nil {
		return domain.ErrNoDocumentSelected
	}
	return nil
}

func (a *documentAsker) Ask(ctx context.Context, doc *domain.Document, question string) (*domain.Exchange, error) {
	return a.gateway.AskSingle(ctx, doc.ID, question)
}

// sessionAsker implements the session-bound protocol. A missing session is
// a configuration error, not a cue to fall back to the document protocol.
type sessionAsker struct {
	gateway  driven.Gateway
	sessions SessionSource
}

func (a *sessionAsker) Ready(doc *domain.Document) error {
	if doc == nil {
		return domain.ErrNoDocumentSelected
	}
	if a.sessions == nil {
		return domain.ErrNoSession
	}
	if _, ok := a.sessions.SessionFor(doc.ID); !ok {
		return domain.ErrNoSession
	}
	return nil
}

func (a *sessionAsker) Ask(ctx context.Context, doc *domain.Document, question string) (*domain.Exchange, error) {
	session, ok := a.sessions.SessionFor(doc.ID)
	if !ok {
		return nil, domain.ErrNoSession
	}
	return a.gateway.AskInSession(ctx, session.ID, question)
}

// newSingleAsker builds the strategy for the configured protocol.
func newSingleAsker(protocol Protocol, gateway driven.Gateway, sessions SessionSource) (singleAsker, error) {
	switch protocol {
	case ProtocolDocument, "":
		return &documentAsker{gateway: gateway}, nil
	case ProtocolSession:
		return &sessionAsker{gateway: gateway, sessions: sessions}, nil
	default:
		return nil, domain.ErrUnknownProtocol
	}
}
