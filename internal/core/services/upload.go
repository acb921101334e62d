package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
	"github.com/letscode5108/DocuQuery/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// UploadService submits local PDF files to the backend, then refreshes the
// catalog and selects the new document so its conversation opens.
type UploadService struct {
	gateway driven.Gateway
	catalog driving.CatalogService
}

// NewUploadService creates a new upload service.
func NewUploadService(gateway driven.Gateway, catalog driving.CatalogService) *UploadService {
	return &UploadService{
		gateway: gateway,
		catalog: catalog,
	}
}

// Submit validates and uploads the file at path.
//
// Validation failures are rejected before any network call. When the upload
// itself succeeds but the follow-up catalog refresh or selection fails, the
// created document is returned together with the error, so callers can
// still report the upload.
func (s *UploadService) Submit(ctx context.Context, path, title string) (*domain.Document, error) {
	if err := validateUpload(path); err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	if strings.TrimSpace(title) == "" {
		title = TitleFromFilename(filename)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFile, err)
	}
	defer file.Close()

	logger.Section("Upload")
	logger.Debug("File: %s, title: %q", filename, title)

	doc, err := s.gateway.CreateDocument(ctx, file, filename, title)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}

	// The backend is the source of truth: full re-fetch, not a merge.
	if err := s.catalog.Refresh(ctx); err != nil {
		return doc, fmt.Errorf("document %d uploaded, but: %w", doc.ID, err)
	}

	if _, err := s.catalog.Select(ctx, doc.ID); err != nil {
		return doc, fmt.Errorf("document %d uploaded, but: %w", doc.ID, err)
	}

	return doc, nil
}

// validateUpload rejects missing files and unsupported extensions before
// any network call is made.
func validateUpload(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: no file given", domain.ErrInvalidFile)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrInvalidFile, path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: only PDF files are supported", domain.ErrInvalidFile)
	}

	return nil
}

// TitleFromFilename derives a display title from an upload filename:
// the extension is dropped and underscores and hyphens become spaces.
func TitleFromFilename(filename string) string {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.ReplaceAll(title, "-", " ")
	return strings.TrimSpace(title)
}
