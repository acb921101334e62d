package driven

import "github.com/letscode5108/DocuQuery/internal/core/domain"

// ConversationStore holds the in-memory conversation logs: one global log
// and one per opened document, each an ordered append-only sequence of
// exchanges.
//
// All operations are synchronous and atomic per store: a reader never
// observes a placeholder and its replacement coexisting, or neither.
// Removal happens only when rolling back or replacing a pending exchange,
// always matched by id, never by position.
type ConversationStore interface {
	// Append adds an exchange to the end of a log.
	Append(key domain.LogKey, ex domain.Exchange)

	// Remove deletes the exchange with the given id from a log.
	// Returns false if no such exchange exists.
	Remove(key domain.LogKey, id int64) bool

	// Replace removes the exchange with oldID and appends ex at the end of
	// the same log, as one atomic step. The replacement lands at the end,
	// not at the removed position: concurrent submissions may have
	// intervened. Returns false if oldID was not present, in which case
	// nothing is appended.
	Replace(key domain.LogKey, oldID int64, ex domain.Exchange) bool

	// List returns a copy of a log's ordered exchanges.
	List(key domain.LogKey) []domain.Exchange

	// Load overwrites a log with exchanges fetched from the backend.
	// Used when a document is opened and its history is refetched.
	Load(key domain.LogKey, exchanges []domain.Exchange)
}
