package domain

import "time"

// PendingAnswer is the placeholder answer text an exchange carries while
// the backend call is in flight.
const PendingAnswer = "..."

// Exchange is one question/answer pair in a conversation log.
//
// While an exchange is awaiting the backend it carries a client-generated
// negative sentinel id; the server replaces it with a non-negative id on
// resolution. Reconciliation always matches by id, never by position.
type Exchange struct {
	// ID is the exchange identifier. Negative while pending, server-assigned
	// and non-negative once resolved.
	ID int64

	// Question is the trimmed user question.
	Question string

	// Answer is the generated answer, or PendingAnswer while in flight.
	Answer string

	// DocumentID is the owning document, nil when the exchange was asked
	// across all documents.
	DocumentID *int64

	// CreatedAt is the creation timestamp (client clock while pending,
	// server clock once resolved).
	CreatedAt time.Time

	// Sources are the citations the backend used to answer, if any.
	Sources []Source
}

// Pending reports whether the exchange is still awaiting its server
// counterpart.
func (e Exchange) Pending() bool {
	return e.ID < 0
}

// Source is a citation attached to a resolved exchange.
type Source struct {
	// DocumentID is the cited document.
	DocumentID int64

	// DocumentTitle is the cited document's title.
	DocumentTitle string

	// Filename is the cited document's filename.
	Filename string

	// RelevanceScore is the retrieval score for the cited chunk.
	RelevanceScore float64
}
