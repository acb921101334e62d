// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments is the document catalog view.
	ViewDocuments ViewType = iota
	// ViewChat is the question and answer view.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// CatalogLoaded carries the refreshed document list.
type CatalogLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentOpened signals a document was opened for questioning.
type DocumentOpened struct {
	Document *domain.Document
	Err      error
}

// AllDocumentsOpened signals the all-documents scope was entered.
type AllDocumentsOpened struct {
	Err error
}

// QueryCompleted carries the outcome of a submitted question.
// Exchange is nil when the question failed or was empty.
type QueryCompleted struct {
	Key      domain.LogKey
	Exchange *domain.Exchange
	Err      error
}

// LogRefresh asks the chat view to re-render its transcript from the
// conversation log. Sent on a timer while a question is in flight so the
// pending placeholder stays visible.
type LogRefresh struct{}

// UploadCompleted signals an upload attempt finished.
type UploadCompleted struct {
	Document *domain.Document
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
