package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/messages"
	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// mockQuery backs the view with an in-memory log.
type mockQuery struct {
	mu        sync.Mutex
	logs      map[domain.LogKey][]domain.Exchange
	exchange  *domain.Exchange
	submitErr error

	lastQuestion string
	lastScope    domain.Scope
	submitCalls  int
}

func newMockQuery() *mockQuery {
	return &mockQuery{logs: make(map[domain.LogKey][]domain.Exchange)}
}

func (m *mockQuery) Submit(_ context.Context, question string, scope domain.Scope, doc *domain.Document) (*domain.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitCalls++
	m.lastQuestion = question
	m.lastScope = scope
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.exchange, nil
}

func (m *mockQuery) Log(key domain.LogKey) []domain.Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs[key]
}

func (m *mockQuery) History(_ context.Context, _ domain.LogKey, _ int) ([]domain.Exchange, error) {
	return nil, nil
}

func newTestView(query *mockQuery) *View {
	v := NewView(nil, nil, query)
	v.SetDimensions(80, 24)
	return v
}

func typeRunes(v *View, text string) *View {
	for _, r := range text {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func TestView_SetTarget(t *testing.T) {
	v := newTestView(newMockQuery())
	doc := &domain.Document{ID: 3, Title: "Annual Report"}

	v.SetTarget(domain.Selection{Document: doc, Scope: domain.ScopeSingle, View: domain.ViewChat})

	assert.Equal(t, domain.ScopeSingle, v.Scope())
	assert.Equal(t, domain.DocumentLog(3), v.LogKey())
}

func TestView_SetTargetAllDocuments(t *testing.T) {
	v := newTestView(newMockQuery())

	v.SetTarget(domain.Selection{Scope: domain.ScopeAll})

	assert.Equal(t, domain.ScopeAll, v.Scope())
	assert.Equal(t, domain.GlobalLog, v.LogKey())
}

func TestView_SubmitDispatchesQuestion(t *testing.T) {
	query := newMockQuery()
	query.exchange = &domain.Exchange{ID: 50, Question: "q", Answer: "a"}
	v := newTestView(query)
	v.SetTarget(domain.Selection{Scope: domain.ScopeAll})

	v = typeRunes(v, "what changed?")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, v.InFlight())

	// Drain the batch: one command performs the ask, the other schedules
	// the refresh tick.
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var completed *messages.QueryCompleted
	for _, c := range batch {
		if msg, ok := c().(messages.QueryCompleted); ok {
			completed = &msg
		}
	}
	require.NotNil(t, completed, "batch should contain the ask command")
	assert.NoError(t, completed.Err)
	assert.Equal(t, "what changed?", query.lastQuestion)
	assert.Equal(t, domain.ScopeAll, query.lastScope)
}

func TestView_EmptyQuestionIsNoOp(t *testing.T) {
	query := newMockQuery()
	v := newTestView(query)

	v = typeRunes(v, "   ")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.InFlight())
	assert.Zero(t, query.submitCalls)
}

func TestView_InputDisabledWhileInFlight(t *testing.T) {
	query := newMockQuery()
	v := newTestView(query)

	v = typeRunes(v, "first question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.InFlight())

	// A second Enter while in flight submits nothing.
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, query.submitCalls, "ask command not yet executed")
}

func TestView_QueryCompletedReenablesInput(t *testing.T) {
	query := newMockQuery()
	v := newTestView(query)
	v = typeRunes(v, "question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.InFlight())

	v, _ = v.Update(messages.QueryCompleted{Key: domain.GlobalLog, Exchange: &domain.Exchange{ID: 1}})

	assert.False(t, v.InFlight())
	assert.NoError(t, v.Err())
}

func TestView_QueryCompletedErrorShown(t *testing.T) {
	v := newTestView(newMockQuery())
	v = typeRunes(v, "question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	submitErr := errors.New("backend unreachable")
	v, _ = v.Update(messages.QueryCompleted{Key: domain.GlobalLog, Err: submitErr})

	assert.False(t, v.InFlight())
	assert.ErrorIs(t, v.Err(), submitErr)
	assert.Contains(t, v.View(), "backend unreachable")
}

func TestView_TranscriptShowsPendingPlaceholder(t *testing.T) {
	query := newMockQuery()
	query.logs[domain.GlobalLog] = []domain.Exchange{
		{ID: 1, Question: "resolved", Answer: "done"},
		{ID: -2, Question: "in flight", Answer: domain.PendingAnswer},
	}
	v := newTestView(query)
	v.SetTarget(domain.Selection{Scope: domain.ScopeAll})

	out := v.View()
	assert.Contains(t, out, "resolved")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "in flight")
	assert.Contains(t, out, domain.PendingAnswer)
}

func TestView_TranscriptShowsSources(t *testing.T) {
	query := newMockQuery()
	query.logs[domain.DocumentLog(3)] = []domain.Exchange{
		{ID: 1, Question: "q", Answer: "a", Sources: []domain.Source{
			{DocumentID: 3, DocumentTitle: "Annual Report", RelevanceScore: 0.88},
		}},
	}
	v := newTestView(query)
	v.SetTarget(domain.Selection{
		Document: &domain.Document{ID: 3, Title: "Annual Report"},
		Scope:    domain.ScopeSingle,
	})

	assert.Contains(t, v.View(), "Annual Report")
	assert.Contains(t, v.View(), "0.88")
}

func TestView_EscSignalsBack(t *testing.T) {
	v := newTestView(newMockQuery())

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewDocuments, msg.View)
}

func TestView_LogRefreshOnlyTicksWhileInFlight(t *testing.T) {
	v := newTestView(newMockQuery())

	_, cmd := v.Update(messages.LogRefresh{})
	assert.Nil(t, cmd, "no tick when idle")

	v = typeRunes(v, "question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd = v.Update(messages.LogRefresh{})
	assert.NotNil(t, cmd, "tick continues while in flight")
}
