package driving

import (
	"context"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// UploadService submits local PDF files to the backend and keeps the
// catalog in sync afterwards.
type UploadService interface {
	// Submit validates and uploads the file at path. An empty title is
	// derived from the filename. On success the catalog is refreshed and
	// the new document selected; on failure the previous selection and its
	// logs are left untouched.
	Submit(ctx context.Context, path, title string) (*domain.Document, error)
}
