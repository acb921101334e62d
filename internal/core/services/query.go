package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
	"github.com/letscode5108/DocuQuery/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService orchestrates question submission: it inserts an optimistic
// pending exchange into the targeted conversation log, dispatches the
// backend call for the active scope and protocol, and reconciles the log
// with the result - replacing the placeholder on success, rolling it back
// on failure.
//
// Concurrent submissions are safe: each lifecycle touches only the exchange
// it created, matched by a unique negative sentinel id.
type QueryService struct {
	gateway driven.Gateway
	logs    driven.ConversationStore
	history driven.HistoryStore
	asker   singleAsker

	// now is the clock for pending timestamps. Overridable in tests.
	now func() time.Time

	// seq feeds the sentinel id counter. Ids are -(seq), so they stay
	// negative and never collide with server ids or each other.
	seq atomic.Int64
}

// NewQueryService creates a new query service for the configured protocol.
// sessions is only consulted under ProtocolSession and may be nil otherwise.
// history is optional; when nil, resolved exchanges are not archived.
func NewQueryService(
	gateway driven.Gateway,
	logs driven.ConversationStore,
	history driven.HistoryStore,
	protocol Protocol,
	sessions SessionSource,
) (*QueryService, error) {
	asker, err := newSingleAsker(protocol, gateway, sessions)
	if err != nil {
		return nil, fmt.Errorf("configuring query protocol %q: %w", protocol, err)
	}

	return &QueryService{
		gateway: gateway,
		logs:    logs,
		history: history,
		asker:   asker,
		now:     time.Now,
	}, nil
}

// Submit asks a question in the given scope.
//
// Ordering guarantee: the pending insert always precedes the network call,
// and the removal or replacement always follows its resolution. The
// reconciliation applies to the log captured here, not the one displayed
// when the response arrives, so late arrivals are never misrouted.
func (s *QueryService) Submit(
	ctx context.Context, question string, scope domain.Scope, doc *domain.Document,
) (*domain.Exchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		logger.Debug("Empty question, nothing submitted")
		return nil, nil
	}

	// Routing and configuration checks happen before any state mutation.
	if scope == domain.ScopeSingle {
		if err := s.asker.Ready(doc); err != nil {
			return nil, err
		}
	}

	key := s.targetLog(scope, doc)
	pending := s.newPending(question, scope, doc)

	logger.Section("Query Submission")
	logger.Debug("Scope: %s, log: %s, sentinel: %d", scope, key, pending.ID)

	// The user sees their question immediately, independent of latency.
	s.logs.Append(key, pending)

	resolved, err := s.dispatch(ctx, question, scope, doc)
	if err != nil {
		// Rollback: no trace of the failed attempt remains.
		s.logs.Remove(key, pending.ID)
		logger.Debug("Rolled back sentinel %d: %v", pending.ID, err)
		return nil, fmt.Errorf("submitting question: %w", err)
	}

	// The server exchange lands at the end of the same log the placeholder
	// was pending in; intervening submissions keep their positions.
	s.logs.Replace(key, pending.ID, *resolved)
	logger.Debug("Reconciled sentinel %d -> exchange %d", pending.ID, resolved.ID)

	s.archive(ctx, *resolved)

	return resolved, nil
}

// Log returns the current ordered exchanges of a conversation log.
func (s *QueryService) Log(key domain.LogKey) []domain.Exchange {
	return s.logs.List(key)
}

// History returns locally archived exchanges for a log, oldest first.
func (s *QueryService) History(ctx context.Context, key domain.LogKey, limit int) ([]domain.Exchange, error) {
	if s.history == nil {
		return []domain.Exchange{}, nil
	}
	return s.history.ListExchanges(ctx, key, limit)
}

// dispatch performs exactly one gateway call for the submission.
func (s *QueryService) dispatch(
	ctx context.Context, question string, scope domain.Scope, doc *domain.Document,
) (*domain.Exchange, error) {
	if scope == domain.ScopeAll {
		return s.gateway.AskAll(ctx, question)
	}
	return s.asker.Ask(ctx, doc, question)
}

// targetLog resolves which conversation log the submission belongs to.
// The selected document never routes an all-documents question.
func (s *QueryService) targetLog(scope domain.Scope, doc *domain.Document) domain.LogKey {
	if scope == domain.ScopeAll {
		return domain.GlobalLog
	}
	return domain.DocumentLog(doc.ID)
}

// newPending builds the optimistic placeholder exchange.
func (s *QueryService) newPending(question string, scope domain.Scope, doc *domain.Document) domain.Exchange {
	ex := domain.Exchange{
		ID:        -s.seq.Add(1),
		Question:  question,
		Answer:    domain.PendingAnswer,
		CreatedAt: s.now(),
	}
	if scope == domain.ScopeSingle && doc != nil {
		id := doc.ID
		ex.DocumentID = &id
	}
	return ex
}

// archive stores a resolved exchange in the local history, best effort.
func (s *QueryService) archive(ctx context.Context, ex domain.Exchange) {
	if s.history == nil {
		return
	}
	if err := s.history.SaveExchange(ctx, ex); err != nil {
		logger.Warn("Archiving exchange %d failed: %v", ex.ID, err)
	}
}
