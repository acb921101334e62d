package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letscode5108/DocuQuery/internal/adapters/driven/storage/memory"
	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// --- Mock implementations ---

// mockGateway implements driven.Gateway for testing. Function fields
// override the canned responses when set.
type mockGateway struct {
	mu sync.Mutex

	documents []domain.Document
	document  *domain.Document
	queries   []domain.Exchange
	exchange  *domain.Exchange
	session   *domain.Session
	err       error

	askSingleFn    func(ctx context.Context, documentID int64, question string) (*domain.Exchange, error)
	askAllFn       func(ctx context.Context, question string) (*domain.Exchange, error)
	askInSessionFn func(ctx context.Context, sessionID, question string) (*domain.Exchange, error)

	askSingleCalls    int
	askAllCalls       int
	askInSessionCalls int
	createDocCalls    int
	listDocCalls      int
}

func (m *mockGateway) ListDocuments(_ context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	m.listDocCalls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.documents, nil
}

func (m *mockGateway) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.document != nil {
		return m.document, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockGateway) CreateDocument(_ context.Context, _ io.Reader, filename, title string) (*domain.Document, error) {
	m.mu.Lock()
	m.createDocCalls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.document, nil
}

func (m *mockGateway) ListQueries(_ context.Context, _ int64) ([]domain.Exchange, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.queries, nil
}

func (m *mockGateway) ListAllQueries(_ context.Context) ([]domain.Exchange, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.queries, nil
}

func (m *mockGateway) AskSingle(ctx context.Context, documentID int64, question string) (*domain.Exchange, error) {
	m.mu.Lock()
	m.askSingleCalls++
	m.mu.Unlock()
	if m.askSingleFn != nil {
		return m.askSingleFn(ctx, documentID, question)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.exchange, nil
}

func (m *mockGateway) AskAll(ctx context.Context, question string) (*domain.Exchange, error) {
	m.mu.Lock()
	m.askAllCalls++
	m.mu.Unlock()
	if m.askAllFn != nil {
		return m.askAllFn(ctx, question)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.exchange, nil
}

func (m *mockGateway) CreateSession(_ context.Context, documentID int64) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.session != nil {
		return m.session, nil
	}
	return &domain.Session{ID: "session-1", DocumentID: documentID}, nil
}

func (m *mockGateway) AskInSession(ctx context.Context, sessionID, question string) (*domain.Exchange, error) {
	m.mu.Lock()
	m.askInSessionCalls++
	m.mu.Unlock()
	if m.askInSessionFn != nil {
		return m.askInSessionFn(ctx, sessionID, question)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.exchange, nil
}

// mockHistoryStore implements driven.HistoryStore for testing.
type mockHistoryStore struct {
	mu       sync.Mutex
	saved    []domain.Exchange
	saveErr  error
	listErr  error
	archived []domain.Exchange
}

func (m *mockHistoryStore) SaveExchange(_ context.Context, ex domain.Exchange) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, ex)
	return nil
}

func (m *mockHistoryStore) ListExchanges(_ context.Context, _ domain.LogKey, _ int) ([]domain.Exchange, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.archived, nil
}

func (m *mockHistoryStore) Close() error { return nil }

// mockSessionSource implements SessionSource for testing.
type mockSessionSource struct {
	sessions map[int64]*domain.Session
}

func (m *mockSessionSource) SessionFor(documentID int64) (*domain.Session, bool) {
	s, ok := m.sessions[documentID]
	return s, ok
}

// --- Helpers ---

func newTestService(t *testing.T, gw *mockGateway) (*QueryService, *memory.ConversationStore) {
	t.Helper()
	store := memory.NewConversationStore()
	svc, err := NewQueryService(gw, store, nil, ProtocolDocument, nil)
	require.NoError(t, err)
	return svc, store
}

func serverExchange(id, docID int64, question, answer string) *domain.Exchange {
	ex := &domain.Exchange{
		ID:        id,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}
	if docID > 0 {
		d := docID
		ex.DocumentID = &d
	}
	return ex
}

// --- Tests ---

func TestNewQueryService_UnknownProtocol(t *testing.T) {
	_, err := NewQueryService(&mockGateway{}, memory.NewConversationStore(), nil, Protocol("carrier-pigeon"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownProtocol)
}

func TestQueryService_Submit_EmptyQuestion_NoOp(t *testing.T) {
	gw := &mockGateway{}
	svc, store := newTestService(t, gw)
	doc := &domain.Document{ID: 1}

	for _, question := range []string{"", "   ", "\n\t "} {
		ex, err := svc.Submit(context.Background(), question, domain.ScopeSingle, doc)
		require.NoError(t, err)
		assert.Nil(t, ex)
	}

	assert.Empty(t, store.List(domain.DocumentLog(1)))
	assert.Empty(t, store.List(domain.GlobalLog))
	assert.Zero(t, gw.askSingleCalls)
	assert.Zero(t, gw.askAllCalls)
}

func TestQueryService_Submit_PlaceholderVisibleBeforeNetworkCall(t *testing.T) {
	doc := &domain.Document{ID: 5, Title: "Q1 Report"}

	var observed []domain.Exchange
	gw := &mockGateway{}
	svc, store := newTestService(t, gw)

	gw.askSingleFn = func(_ context.Context, _ int64, _ string) (*domain.Exchange, error) {
		// The pending exchange must already be in the log when the
		// network call starts.
		observed = store.List(domain.DocumentLog(5))
		return serverExchange(100, 5, "what is the revenue?", "42M"), nil
	}

	_, err := svc.Submit(context.Background(), "what is the revenue?", domain.ScopeSingle, doc)
	require.NoError(t, err)

	require.Len(t, observed, 1)
	assert.True(t, observed[0].Pending())
	assert.Equal(t, domain.PendingAnswer, observed[0].Answer)
	assert.Equal(t, "what is the revenue?", observed[0].Question)
	require.NotNil(t, observed[0].DocumentID)
	assert.Equal(t, int64(5), *observed[0].DocumentID)
}

func TestQueryService_Submit_SuccessfulReconciliation(t *testing.T) {
	doc := &domain.Document{ID: 5}
	gw := &mockGateway{exchange: serverExchange(100, 5, "q", "the answer")}
	svc, store := newTestService(t, gw)

	resolved, err := svc.Submit(context.Background(), "q", domain.ScopeSingle, doc)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, int64(100), resolved.ID)

	log := store.List(domain.DocumentLog(5))
	require.Len(t, log, 1)
	assert.Equal(t, int64(100), log[0].ID)
	assert.Equal(t, "the answer", log[0].Answer)
	assert.False(t, log[0].Pending())
	assert.Equal(t, 1, gw.askSingleCalls, "exactly one network call")
}

func TestQueryService_Submit_RollbackOnFailure(t *testing.T) {
	doc := &domain.Document{ID: 5}
	gw := &mockGateway{err: errors.New("backend: 502")}
	svc, store := newTestService(t, gw)

	ex, err := svc.Submit(context.Background(), "q", domain.ScopeSingle, doc)
	require.Error(t, err)
	assert.Nil(t, ex)

	// Net zero: no trace of the failed attempt in any log.
	assert.Empty(t, store.List(domain.DocumentLog(5)))
	assert.Empty(t, store.List(domain.GlobalLog))
}

func TestQueryService_Submit_ScopeIsolation(t *testing.T) {
	doc := &domain.Document{ID: 7}

	tests := []struct {
		name       string
		scope      domain.Scope
		doc        *domain.Document
		touchedKey domain.LogKey
		otherKey   domain.LogKey
	}{
		{"all scope with document selected", domain.ScopeAll, doc, domain.GlobalLog, domain.DocumentLog(7)},
		{"all scope without document", domain.ScopeAll, nil, domain.GlobalLog, domain.DocumentLog(7)},
		{"single scope", domain.ScopeSingle, doc, domain.DocumentLog(7), domain.GlobalLog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{exchange: serverExchange(1, 0, "q", "a")}
			svc, store := newTestService(t, gw)

			_, err := svc.Submit(context.Background(), "q", tt.scope, tt.doc)
			require.NoError(t, err)

			assert.Len(t, store.List(tt.touchedKey), 1)
			assert.Empty(t, store.List(tt.otherKey))
		})
	}
}

func TestQueryService_Submit_AllScope_RoutesPastSelectedDocument(t *testing.T) {
	doc := &domain.Document{ID: 9}
	gw := &mockGateway{exchange: serverExchange(3, 0, "q", "a")}
	svc, store := newTestService(t, gw)

	_, err := svc.Submit(context.Background(), "q", domain.ScopeAll, doc)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.askAllCalls)
	assert.Zero(t, gw.askSingleCalls)

	log := store.List(domain.GlobalLog)
	require.Len(t, log, 1)
	assert.Nil(t, log[0].DocumentID)
}

func TestQueryService_Submit_SingleScope_NoDocument(t *testing.T) {
	gw := &mockGateway{}
	svc, store := newTestService(t, gw)

	_, err := svc.Submit(context.Background(), "q", domain.ScopeSingle, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoDocumentSelected)

	// Rejected before dispatch: nothing mutated, nothing sent.
	assert.Empty(t, store.List(domain.GlobalLog))
	assert.Zero(t, gw.askSingleCalls)
}

func TestQueryService_Submit_SentinelIDsNeverCollide(t *testing.T) {
	const submissions = 40

	doc := &domain.Document{ID: 2}
	gw := &mockGateway{}
	svc, store := newTestService(t, gw)

	release := make(chan struct{})
	arrived := make(chan struct{}, submissions)
	gw.askSingleFn = func(_ context.Context, _ int64, q string) (*domain.Exchange, error) {
		arrived <- struct{}{}
		<-release
		return serverExchange(int64(len(q))+100, 2, q, "a"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), "question", domain.ScopeSingle, doc)
			assert.NoError(t, err)
		}()
	}

	// Wait until every submission holds its placeholder in the log.
	for i := 0; i < submissions; i++ {
		<-arrived
	}

	pendingLog := store.List(domain.DocumentLog(2))
	require.Len(t, pendingLog, submissions)

	seen := make(map[int64]bool, submissions)
	for _, ex := range pendingLog {
		assert.True(t, ex.Pending())
		assert.False(t, seen[ex.ID], "sentinel id %d issued twice", ex.ID)
		seen[ex.ID] = true
	}

	close(release)
	wg.Wait()
}

func TestQueryService_Submit_LateArrivalLandsInTargetLog(t *testing.T) {
	docA := &domain.Document{ID: 1}
	docB := &domain.Document{ID: 2}

	gw := &mockGateway{}
	svc, store := newTestService(t, gw)

	holdA := make(chan struct{})
	gw.askSingleFn = func(_ context.Context, documentID int64, q string) (*domain.Exchange, error) {
		if documentID == docA.ID {
			<-holdA // A resolves late
			return serverExchange(10, 1, q, "answer for A"), nil
		}
		return serverExchange(20, 2, q, "answer for B"), nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Submit(context.Background(), "question for A", domain.ScopeSingle, docA)
		assert.NoError(t, err)
	}()

	// The user switches to document B while A is in flight.
	require.Eventually(t, func() bool {
		return len(store.List(domain.DocumentLog(1))) == 1
	}, time.Second, time.Millisecond)

	_, err := svc.Submit(context.Background(), "question for B", domain.ScopeSingle, docB)
	require.NoError(t, err)

	close(holdA)
	wg.Wait()

	logA := store.List(domain.DocumentLog(1))
	require.Len(t, logA, 1)
	assert.Equal(t, "answer for A", logA[0].Answer)

	logB := store.List(domain.DocumentLog(2))
	require.Len(t, logB, 1)
	assert.Equal(t, "answer for B", logB[0].Answer)
}

func TestQueryService_Submit_SessionProtocol(t *testing.T) {
	doc := &domain.Document{ID: 4}

	t.Run("no session provisioned fails before dispatch", func(t *testing.T) {
		gw := &mockGateway{}
		store := memory.NewConversationStore()
		svc, err := NewQueryService(gw, store, nil, ProtocolSession, &mockSessionSource{sessions: map[int64]*domain.Session{}})
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), "q", domain.ScopeSingle, doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoSession)

		assert.Empty(t, store.List(domain.DocumentLog(4)))
		assert.Zero(t, gw.askInSessionCalls)
		assert.Zero(t, gw.askSingleCalls, "no fallback to the document protocol")
	})

	t.Run("bound session is used", func(t *testing.T) {
		var gotSession string
		gw := &mockGateway{}
		gw.askInSessionFn = func(_ context.Context, sessionID, q string) (*domain.Exchange, error) {
			gotSession = sessionID
			return serverExchange(7, 4, q, "a"), nil
		}

		sessions := &mockSessionSource{sessions: map[int64]*domain.Session{
			4: {ID: "abc-123", DocumentID: 4},
		}}
		store := memory.NewConversationStore()
		svc, err := NewQueryService(gw, store, nil, ProtocolSession, sessions)
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), "q", domain.ScopeSingle, doc)
		require.NoError(t, err)

		assert.Equal(t, "abc-123", gotSession)
		assert.Zero(t, gw.askSingleCalls)
	})
}

func TestQueryService_Submit_ArchivesResolvedExchange(t *testing.T) {
	doc := &domain.Document{ID: 5}
	history := &mockHistoryStore{}
	gw := &mockGateway{exchange: serverExchange(11, 5, "q", "a")}

	svc, err := NewQueryService(gw, memory.NewConversationStore(), history, ProtocolDocument, nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "q", domain.ScopeSingle, doc)
	require.NoError(t, err)

	require.Len(t, history.saved, 1)
	assert.Equal(t, int64(11), history.saved[0].ID)
}

func TestQueryService_Submit_ArchiveFailureIsNotAnError(t *testing.T) {
	doc := &domain.Document{ID: 5}
	history := &mockHistoryStore{saveErr: errors.New("disk full")}
	gw := &mockGateway{exchange: serverExchange(11, 5, "q", "a")}

	svc, err := NewQueryService(gw, memory.NewConversationStore(), history, ProtocolDocument, nil)
	require.NoError(t, err)

	resolved, err := svc.Submit(context.Background(), "q", domain.ScopeSingle, doc)
	require.NoError(t, err)
	assert.Equal(t, int64(11), resolved.ID)
}

func TestQueryService_History_NoArchiveConfigured(t *testing.T) {
	svc, _ := newTestService(t, &mockGateway{})

	got, err := svc.History(context.Background(), domain.GlobalLog, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
