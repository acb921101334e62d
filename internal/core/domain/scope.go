package domain

import "strconv"

// Scope selects whether a question is answered from one document's content
// or from all uploaded documents.
type Scope int

const (
	// ScopeSingle answers from the currently selected document.
	ScopeSingle Scope = iota

	// ScopeAll answers across every uploaded document.
	ScopeAll
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeSingle:
		return "single"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// LogKey identifies a conversation log: a positive document id for a
// per-document log, or GlobalLog for the cross-document log.
type LogKey int64

// GlobalLog is the key of the cross-document conversation log.
// Server document ids are positive, so zero never collides.
const GlobalLog LogKey = 0

// DocumentLog returns the log key for a document's conversation.
func DocumentLog(documentID int64) LogKey {
	return LogKey(documentID)
}

// Global reports whether the key addresses the cross-document log.
func (k LogKey) Global() bool {
	return k == GlobalLog
}

// String returns the string representation of the log key.
func (k LogKey) String() string {
	if k.Global() {
		return "all"
	}
	return "doc:" + strconv.FormatInt(int64(k), 10)
}
