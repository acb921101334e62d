package domain

import "time"

// Document represents a PDF uploaded to the backend.
// Documents are created by upload and never edited or deleted from the
// client side; the catalog replaces its whole list on refresh.
type Document struct {
	// ID is the server-assigned identifier. Server ids are never reused.
	ID int64

	// Title is the human-readable title, derived from the filename when
	// the user does not supply one.
	Title string

	// Filename is the original upload filename.
	Filename string

	// StorageURL is where the backend stored the file.
	StorageURL string

	// PublicID is the backend's storage reference id.
	PublicID string

	// FileSize is the upload size in bytes.
	FileSize int64

	// MimeType is the detected MIME type.
	MimeType string

	// CreatedAt is when the backend created the record.
	CreatedAt time.Time
}
