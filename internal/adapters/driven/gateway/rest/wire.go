package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
)

// wireTime parses the backend's timestamps, which arrive either with a
// timezone (RFC 3339) or as a naive ISO 8601 local time.
type wireTime struct {
	time.Time
}

// timeLayouts are tried in order when decoding a timestamp.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// documentWire is the backend's document record shape.
type documentWire struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Filename      string   `json:"filename"`
	CloudinaryURL string   `json:"cloudinary_url"`
	PublicID      string   `json:"public_id"`
	FileSize      int64    `json:"file_size"`
	MimeType      string   `json:"mime_type"`
	CreatedAt     wireTime `json:"created_at"`
}

func (w documentWire) toDomain() domain.Document {
	return domain.Document{
		ID:         w.ID,
		Title:      w.Title,
		Filename:   w.Filename,
		StorageURL: w.CloudinaryURL,
		PublicID:   w.PublicID,
		FileSize:   w.FileSize,
		MimeType:   w.MimeType,
		CreatedAt:  w.CreatedAt.Time,
	}
}

// sourceWire is one citation in an exchange.
type sourceWire struct {
	DocumentID     int64   `json:"document_id"`
	DocumentTitle  string  `json:"document_title"`
	Filename       string  `json:"filename"`
	RelevanceScore float64 `json:"relevance_score"`
}

// exchangeWire is the backend's query record shape.
type exchangeWire struct {
	ID         int64        `json:"id"`
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	DocumentID *int64       `json:"document_id"`
	CreatedAt  wireTime     `json:"created_at"`
	Sources    []sourceWire `json:"sources,omitempty"`
}

func (w exchangeWire) toDomain() domain.Exchange {
	ex := domain.Exchange{
		ID:         w.ID,
		Question:   w.Question,
		Answer:     w.Answer,
		DocumentID: w.DocumentID,
		CreatedAt:  w.CreatedAt.Time,
	}
	for _, s := range w.Sources {
		ex.Sources = append(ex.Sources, domain.Source{
			DocumentID:     s.DocumentID,
			DocumentTitle:  s.DocumentTitle,
			Filename:       s.Filename,
			RelevanceScore: s.RelevanceScore,
		})
	}
	return ex
}

// sessionWire is the backend's session record shape.
type sessionWire struct {
	SessionID  string `json:"session_id"`
	DocumentID int64  `json:"document_id"`
}

func (w sessionWire) toDomain() domain.Session {
	return domain.Session{
		ID:         w.SessionID,
		DocumentID: w.DocumentID,
	}
}

// singleQuestionWire is the JSON body of the stateless ask endpoint.
type singleQuestionWire struct {
	Question   string `json:"question"`
	DocumentID int64  `json:"document_id"`
}

// errorWire is the backend's error envelope.
type errorWire struct {
	Detail string `json:"detail"`
}
