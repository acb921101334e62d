package cli

import (
	"context"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// mockQueryService is a test double for driving.QueryService.
type mockQueryService struct {
	exchange   *domain.Exchange
	submitErr  error
	history    []domain.Exchange
	historyErr error

	lastQuestion string
	lastScope    domain.Scope
	lastDoc      *domain.Document
	lastKey      domain.LogKey
	submitCalls  int
}

func (m *mockQueryService) Submit(_ context.Context, question string, scope domain.Scope, doc *domain.Document) (*domain.Exchange, error) {
	m.submitCalls++
	m.lastQuestion = question
	m.lastScope = scope
	m.lastDoc = doc
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.exchange, nil
}

func (m *mockQueryService) Log(_ domain.LogKey) []domain.Exchange {
	return nil
}

func (m *mockQueryService) History(_ context.Context, key domain.LogKey, _ int) ([]domain.Exchange, error) {
	m.lastKey = key
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

// mockCatalogService is a test double for driving.CatalogService.
type mockCatalogService struct {
	documents  []domain.Document
	refreshErr error
	selectErr  error
	selected   *domain.Document
}

func (m *mockCatalogService) Refresh(_ context.Context) error {
	return m.refreshErr
}

func (m *mockCatalogService) Documents() []domain.Document {
	return m.documents
}

func (m *mockCatalogService) Select(_ context.Context, documentID int64) (*domain.Document, error) {
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	for i := range m.documents {
		if m.documents[i].ID == documentID {
			m.selected = &m.documents[i]
			return m.selected, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCatalogService) SelectAll(_ context.Context) error { return nil }

func (m *mockCatalogService) Selected() *domain.Document { return m.selected }

func (m *mockCatalogService) Selection() domain.Selection { return domain.Selection{} }

func (m *mockCatalogService) SetScope(_ domain.Scope) {}

func (m *mockCatalogService) SessionFor(_ int64) (*domain.Session, bool) { return nil, false }

// mockUploadService is a test double for driving.UploadService.
type mockUploadService struct {
	doc       *domain.Document
	submitErr error
	lastPath  string
	lastTitle string
}

func (m *mockUploadService) Submit(_ context.Context, path, title string) (*domain.Document, error) {
	m.lastPath = path
	m.lastTitle = title
	if m.submitErr != nil {
		return m.doc, m.submitErr
	}
	return m.doc, nil
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices(query *mockQueryService, catalog *mockCatalogService, upload *mockUploadService) func() {
	oldQuery := queryService
	oldCatalog := catalogService
	oldUpload := uploadService

	if query != nil {
		queryService = query
	}
	if catalog != nil {
		catalogService = catalog
	}
	if upload != nil {
		uploadService = upload
	}

	return func() {
		queryService = oldQuery
		catalogService = oldCatalog
		uploadService = oldUpload
	}
}
