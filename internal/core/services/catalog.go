package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
	"github.com/letscode5108/DocuQuery/internal/logger"
)

// Ensure CatalogService implements the interfaces.
var (
	_ driving.CatalogService = (*CatalogService)(nil)
	_ SessionSource          = (*CatalogService)(nil)
)

// CatalogService holds the uploaded documents and the current selection.
// Opening a document loads its conversation history into the store and,
// under the session protocol, provisions a session bound to it. All network
// work completes before any local state changes, so a failed open leaves
// the previous selection and its logs untouched.
type CatalogService struct {
	gateway  driven.Gateway
	logs     driven.ConversationStore
	protocol Protocol

	mu        sync.RWMutex
	documents []domain.Document
	selection domain.Selection
	sessions  map[int64]*domain.Session
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(gateway driven.Gateway, logs driven.ConversationStore, protocol Protocol) *CatalogService {
	return &CatalogService{
		gateway:  gateway,
		logs:     logs,
		protocol: protocol,
		selection: domain.Selection{
			Scope: domain.ScopeAll,
			View:  domain.ViewDocuments,
		},
		sessions: make(map[int64]*domain.Session),
	}
}

// Refresh re-fetches the full document list from the backend.
func (s *CatalogService) Refresh(ctx context.Context) error {
	docs, err := s.gateway.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("refreshing catalog: %w", err)
	}

	s.mu.Lock()
	s.documents = docs
	s.mu.Unlock()

	logger.Debug("Catalog refreshed: %d documents", len(docs))
	return nil
}

// Documents returns the cached document list.
func (s *CatalogService) Documents() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// Select opens a document for single-document questioning.
func (s *CatalogService) Select(ctx context.Context, documentID int64) (*domain.Document, error) {
	doc, err := s.gateway.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("opening document %d: %w", documentID, err)
	}

	queries, err := s.gateway.ListQueries(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation for document %d: %w", documentID, err)
	}

	var session *domain.Session
	if s.protocol == ProtocolSession {
		session, err = s.gateway.CreateSession(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("provisioning session for document %d: %w", documentID, err)
		}
		logger.Debug("Session %s bound to document %d", session.ID, documentID)
	}

	s.logs.Load(domain.DocumentLog(documentID), queries)

	s.mu.Lock()
	s.selection = domain.Selection{
		Document: doc,
		Scope:    domain.ScopeSingle,
		View:     domain.ViewChat,
	}
	if session != nil {
		s.sessions[documentID] = session
	}
	s.mu.Unlock()

	logger.Debug("Selected document %d (%s), %d prior exchanges", doc.ID, doc.Title, len(queries))
	return doc, nil
}

// SelectAll switches to the all-documents scope and refreshes the global
// conversation log.
func (s *CatalogService) SelectAll(ctx context.Context) error {
	queries, err := s.gateway.ListAllQueries(ctx)
	if err != nil {
		return fmt.Errorf("loading cross-document conversation: %w", err)
	}

	s.logs.Load(domain.GlobalLog, queries)

	s.mu.Lock()
	s.selection = domain.Selection{
		Document: nil,
		Scope:    domain.ScopeAll,
		View:     domain.ViewDocuments,
	}
	s.mu.Unlock()

	return nil
}

// Selected returns the currently open document, nil when none.
func (s *CatalogService) Selected() *domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Document
}

// Selection returns a snapshot of the selection state.
func (s *CatalogService) Selection() domain.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SetScope switches the search scope without changing the selection.
func (s *CatalogService) SetScope(scope domain.Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Scope = scope
}

// SessionFor returns the provisioned session for a document, if any.
func (s *CatalogService) SessionFor(documentID int64) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[documentID]
	return session, ok
}
