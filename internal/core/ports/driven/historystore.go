package driven

import (
	"context"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// HistoryStore archives resolved exchanges locally so past conversations
// can be reviewed without the backend. It is a display cache only: the
// backend remains the source of truth, and archive failures never affect
// query reconciliation.
type HistoryStore interface {
	// SaveExchange archives a resolved exchange. Pending exchanges are
	// never archived.
	SaveExchange(ctx context.Context, ex domain.Exchange) error

	// ListExchanges returns archived exchanges for a log, oldest first,
	// at most limit entries (0 means no limit).
	ListExchanges(ctx context.Context, key domain.LogKey, limit int) ([]domain.Exchange, error)

	// Close releases the underlying storage.
	Close() error
}
