package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
	"github.com/letscode5108/DocuQuery/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Gateway = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 120 * time.Second

	// askRate is the proactive client-side throttle. Answer generation is
	// slow on the backend; there is no reason to hammer it.
	askRate = 4 // requests per second
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend address without the /api prefix
	// (default: http://localhost:8000).
	BaseURL string

	// Timeout is the per-request timeout (default: 120s). Expiry surfaces
	// as a gateway failure like any other transport error.
	Timeout time.Duration
}

// Client is the typed HTTP client for the DocuQuery backend.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/api",
		limiter: rate.NewLimiter(rate.Limit(askRate), askRate),
	}
}

// ListDocuments returns all uploaded documents.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var wires []documentWire
	if err := c.get(ctx, "/documents/", &wires); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, len(wires))
	for i, w := range wires {
		docs[i] = w.toDomain()
	}
	return docs, nil
}

// GetDocument returns one document by id.
func (c *Client) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	var wire documentWire
	if err := c.get(ctx, "/documents/"+strconv.FormatInt(id, 10), &wire); err != nil {
		return nil, err
	}
	doc := wire.toDomain()
	return &doc, nil
}

// CreateDocument uploads a file with an optional title.
func (c *Client) CreateDocument(ctx context.Context, file io.Reader, filename, title string) (*domain.Document, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if strings.TrimSpace(title) != "" {
		if err := writer.WriteField("title", title); err != nil {
			return nil, fmt.Errorf("building upload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	var wire documentWire
	if err := c.do(ctx, http.MethodPost, "/documents/", &body, writer.FormDataContentType(), &wire); err != nil {
		return nil, err
	}
	doc := wire.toDomain()
	return &doc, nil
}

// ListQueries returns the exchanges scoped to one document.
func (c *Client) ListQueries(ctx context.Context, documentID int64) ([]domain.Exchange, error) {
	var wires []exchangeWire
	if err := c.get(ctx, "/queries/"+strconv.FormatInt(documentID, 10), &wires); err != nil {
		return nil, err
	}
	return exchangesToDomain(wires), nil
}

// ListAllQueries returns the cross-document exchanges.
func (c *Client) ListAllQueries(ctx context.Context) ([]domain.Exchange, error) {
	var wires []exchangeWire
	if err := c.get(ctx, "/queries/all", &wires); err != nil {
		return nil, err
	}
	return exchangesToDomain(wires), nil
}

// AskSingle asks a question against one document (stateless protocol).
func (c *Client) AskSingle(ctx context.Context, documentID int64, question string) (*domain.Exchange, error) {
	payload, err := json.Marshal(singleQuestionWire{
		Question:   question,
		DocumentID: documentID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding question: %w", err)
	}

	var wire exchangeWire
	if err := c.do(ctx, http.MethodPost, "/query/", bytes.NewReader(payload), "application/json", &wire); err != nil {
		return nil, err
	}
	ex := wire.toDomain()
	return &ex, nil
}

// AskAll asks a question across all documents.
func (c *Client) AskAll(ctx context.Context, question string) (*domain.Exchange, error) {
	return c.postForm(ctx, "/query-all/", question)
}

// CreateSession provisions a session bound to one document.
func (c *Client) CreateSession(ctx context.Context, documentID int64) (*domain.Session, error) {
	path := "/sessions/?document_id=" + strconv.FormatInt(documentID, 10)

	var wire sessionWire
	if err := c.do(ctx, http.MethodPost, path, nil, "", &wire); err != nil {
		return nil, err
	}
	session := wire.toDomain()
	return &session, nil
}

// AskInSession asks a question through a previously created session.
func (c *Client) AskInSession(ctx context.Context, sessionID, question string) (*domain.Exchange, error) {
	return c.postForm(ctx, "/sessions/"+sessionID+"/query", question)
}

// postForm submits a question as a form body and decodes one exchange.
func (c *Client) postForm(ctx context.Context, path, question string) (*domain.Exchange, error) {
	form := url.Values{"question": {question}}

	var wire exchangeWire
	err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", &wire)
	if err != nil {
		return nil, err
	}
	ex := wire.toDomain()
	return &ex, nil
}

// get performs a GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// do performs one HTTP exchange against the backend.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	logger.Debug("Backend %s %s (request %s)", method, path, requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend %s %s: reading response: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("backend %s %s: %s: %w", method, path, errorDetail(data), domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend %s %s: status %d: %s", method, path, resp.StatusCode, errorDetail(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend %s %s: decoding response: %w", method, path, err)
	}
	return nil
}

// errorDetail extracts the backend's error message, falling back to the
// raw body.
func errorDetail(data []byte) string {
	var wire errorWire
	if err := json.Unmarshal(data, &wire); err == nil && wire.Detail != "" {
		return wire.Detail
	}
	return strings.TrimSpace(string(data))
}

func exchangesToDomain(wires []exchangeWire) []domain.Exchange {
	exchanges := make([]domain.Exchange, len(wires))
	for i, w := range wires {
		exchanges[i] = w.toDomain()
	}
	return exchanges
}
