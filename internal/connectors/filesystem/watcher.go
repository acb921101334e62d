// Package filesystem watches a drop folder and uploads new PDFs.
//
// Pointing docuquery at a directory turns it into an inbox: any PDF that
// appears there is uploaded to the backend automatically. Events are
// debounced per file so a document still being copied in is only uploaded
// once its writes have settled.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/services"
	"github.com/letscode5108/DocuQuery/internal/logger"
)

// DefaultSettle is how long a file must go without write events before
// it is considered fully copied in.
const DefaultSettle = 2 * time.Second

// Uploader is the slice of the upload service the watcher needs.
type Uploader interface {
	Submit(ctx context.Context, path, title string) (*domain.Document, error)
}

// Watcher uploads PDFs that appear in a directory.
type Watcher struct {
	dir      string
	uploader Uploader
	settle   time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	// OnUpload, if set, is called after each upload attempt. Used by the
	// watch command to report progress.
	OnUpload func(path string, doc *domain.Document, err error)
}

// New creates a watcher for the given directory.
func New(dir string, uploader Uploader) *Watcher {
	return &Watcher{
		dir:      dir,
		uploader: uploader,
		settle:   DefaultSettle,
		timers:   make(map[string]*time.Timer),
	}
}

// SetSettle overrides the debounce window.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Watch blocks, uploading qualifying files as they appear, until ctx is
// cancelled or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory %s: not a directory", w.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for new PDFs", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handleFsEvent(event) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleFsEvent reports whether the event should trigger an upload.
// Only create and write events on visible PDF files qualify; directories
// and removals are ignored.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if isHidden(event.Name) {
		return false
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}

// schedule resets the debounce timer for a path. The upload fires once
// the file has gone quiet for the settle window.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.upload(ctx, path)
	})
}

func (w *Watcher) upload(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	title := services.TitleFromFilename(filepath.Base(path))
	doc, err := w.uploader.Submit(ctx, path, title)
	if err != nil {
		logger.Warn("Upload of %s failed: %v", path, err)
	} else {
		logger.Info("Uploaded %s as document %d", path, doc.ID)
	}

	if w.OnUpload != nil {
		w.OnUpload(path, doc, err)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// isHidden reports whether any path element starts with a dot.
// "." and ".." are not considered hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
