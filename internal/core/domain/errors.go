package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoDocumentSelected indicates a single-document question was
	// submitted without a target document.
	ErrNoDocumentSelected = errors.New("no document selected")

	// ErrNoSession indicates the session protocol is configured but no
	// session has been provisioned for the target document.
	ErrNoSession = errors.New("no session provisioned for document")

	// ErrInvalidFile indicates an upload was rejected before any network
	// call: missing file or unsupported extension.
	ErrInvalidFile = errors.New("invalid file")

	// ErrEmptyCatalog indicates the backend holds no documents.
	ErrEmptyCatalog = errors.New("no documents uploaded")

	// ErrUnknownProtocol indicates the configured query protocol variant
	// is neither "document" nor "session".
	ErrUnknownProtocol = errors.New("unknown query protocol")
)
