package domain

// View identifies which screen the user is looking at.
type View int

const (
	// ViewDocuments is the catalog browsing screen.
	ViewDocuments View = iota

	// ViewChat is the conversation screen.
	ViewChat
)

// String returns the string representation of the view.
func (v View) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Selection is the current UI state: which document is open, which search
// scope is active, and which view is shown. It is pure presentation state,
// mutated synchronously by user actions and read by the query engine at
// submission time.
type Selection struct {
	// Document is the currently open document, nil when none is selected.
	Document *Document

	// Scope is the active search scope.
	Scope Scope

	// View is the active screen.
	View View
}

// LogKey returns the conversation log the selection addresses: the global
// log when scope is all-documents, the selected document's log otherwise.
func (s Selection) LogKey() LogKey {
	if s.Scope == ScopeAll || s.Document == nil {
		return GlobalLog
	}
	return DocumentLog(s.Document.ID)
}
