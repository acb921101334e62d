package domain

// Session is an opaque backend-issued handle binding questions to one
// document. It exists only under the session protocol variant: created when
// a document is selected, replaced when a different document is selected,
// never mutated.
type Session struct {
	// ID is the backend-issued session identifier.
	ID string

	// DocumentID is the document the session is bound to.
	DocumentID int64
}
