package tui

import (
	"context"
	"sync"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// MockQueryService is a test double for driving.QueryService backed by an
// in-memory log so transcript rendering can be exercised.
type MockQueryService struct {
	mu        sync.Mutex
	logs      map[domain.LogKey][]domain.Exchange
	exchange  *domain.Exchange
	submitErr error

	LastQuestion string
	LastScope    domain.Scope
	SubmitCalls  int
}

func NewMockQueryService() *MockQueryService {
	return &MockQueryService{logs: make(map[domain.LogKey][]domain.Exchange)}
}

func (m *MockQueryService) Submit(_ context.Context, question string, scope domain.Scope, doc *domain.Document) (*domain.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubmitCalls++
	m.LastQuestion = question
	m.LastScope = scope

	key := domain.GlobalLog
	if scope == domain.ScopeSingle && doc != nil {
		key = domain.DocumentLog(doc.ID)
	}

	if m.submitErr != nil {
		return nil, m.submitErr
	}
	if m.exchange != nil {
		m.logs[key] = append(m.logs[key], *m.exchange)
		return m.exchange, nil
	}
	return nil, nil
}

func (m *MockQueryService) Log(key domain.LogKey) []domain.Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Exchange, len(m.logs[key]))
	copy(out, m.logs[key])
	return out
}

func (m *MockQueryService) History(_ context.Context, _ domain.LogKey, _ int) ([]domain.Exchange, error) {
	return nil, nil
}

// SetLog seeds a conversation log.
func (m *MockQueryService) SetLog(key domain.LogKey, exchanges []domain.Exchange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[key] = exchanges
}

// MockCatalogService is a test double for driving.CatalogService.
type MockCatalogService struct {
	DocumentsList []domain.Document
	RefreshErr    error
	SelectErr     error
	selection     domain.Selection
}

func (m *MockCatalogService) Refresh(_ context.Context) error {
	return m.RefreshErr
}

func (m *MockCatalogService) Documents() []domain.Document {
	return m.DocumentsList
}

func (m *MockCatalogService) Select(_ context.Context, documentID int64) (*domain.Document, error) {
	if m.SelectErr != nil {
		return nil, m.SelectErr
	}
	for i := range m.DocumentsList {
		if m.DocumentsList[i].ID == documentID {
			doc := &m.DocumentsList[i]
			m.selection = domain.Selection{Document: doc, Scope: domain.ScopeSingle, View: domain.ViewChat}
			return doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCatalogService) SelectAll(_ context.Context) error {
	m.selection = domain.Selection{Scope: domain.ScopeAll, View: domain.ViewDocuments}
	return nil
}

func (m *MockCatalogService) Selected() *domain.Document {
	return m.selection.Document
}

func (m *MockCatalogService) Selection() domain.Selection {
	return m.selection
}

func (m *MockCatalogService) SetScope(scope domain.Scope) {
	m.selection.Scope = scope
}

func (m *MockCatalogService) SessionFor(_ int64) (*domain.Session, bool) {
	return nil, false
}

// MockUploadService is a test double for driving.UploadService.
type MockUploadService struct {
	Doc       *domain.Document
	SubmitErr error
	LastPath  string
}

func (m *MockUploadService) Submit(_ context.Context, path, _ string) (*domain.Document, error) {
	m.LastPath = path
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	return m.Doc, nil
}
