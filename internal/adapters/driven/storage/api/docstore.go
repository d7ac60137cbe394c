// Package api implements the document store against the remote
// documentation backend over HTTP.
//
// Transient failures are retried with exponential backoff; writes can
// degrade to a filesystem fallback supplied by the caller. Reads report
// failure as absence, per the store contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

const (
	// DefaultTimeout is the request timeout for reads and writes.
	DefaultTimeout = 30 * time.Second

	// HealthTimeout is the short probe timeout for health checks.
	HealthTimeout = 5 * time.Second

	// MaxRetries is the number of attempts for a write.
	MaxRetries = 3

	// RetryDelay is the initial delay between attempts; it doubles on
	// each retry.
	RetryDelay = time.Second

	// WriteRate is the proactive client-side throttle for writes, in
	// requests per second.
	WriteRate = 4
)

// DocumentStore is the HTTP implementation of driven.DocumentStore.
type DocumentStore struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewDocumentStore creates a store client for the backend at baseURL.
// token, when non-empty, is sent as a bearer token.
func NewDocumentStore(baseURL, token string) *DocumentStore {
	return &DocumentStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(WriteRate), 1),
	}
}

// documentPayload is the wire form of a document record.
type documentPayload struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Path       string `json:"path"`
	Collection string `json:"collection"`
	RepoURL    string `json:"repo_url"`
	RepoName   string `json:"repo_name"`
	DocType    string `json:"doc_type"`
	Content    string `json:"content"`
	Location   string `json:"location"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// versionPayload is the wire form of a version record.
type versionPayload struct {
	AuthorType     string            `json:"author_type"`
	AuthorMetadata map[string]string `json:"author_metadata"`
	CreatedAt      string            `json:"created_at"`
}

// CreateOrUpdate posts the document to the backend, retrying transient
// failures with exponential backoff. Validation happens before any
// network traffic; validation failures are never retried. When retries
// are exhausted and fallbackPath is non-empty, the content is written
// there and the result reports the degraded path explicitly.
func (s *DocumentStore) CreateOrUpdate(ctx context.Context, req *domain.WriteRequest, fallbackPath string) (*domain.WriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", domain.ErrInvalidInput, err)
	}

	endpoint := s.baseURL + "/api/docs"
	var lastErr error

	for attempt := 0; attempt < MaxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		logger.Debug("POST %s (attempt %d/%d)", endpoint, attempt+1, MaxRetries)
		result, err := s.postWrite(ctx, endpoint, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("write attempt %d failed: %v", attempt+1, err)

		if attempt < MaxRetries-1 {
			if err := sleepCtx(ctx, RetryDelay<<attempt); err != nil {
				return nil, err
			}
		}
	}

	if fallbackPath != "" {
		return s.fallbackToFile(req, fallbackPath)
	}
	return nil, fmt.Errorf("%w: %d attempts failed: %v", domain.ErrStoreUnavailable, MaxRetries, lastErr)
}

// postWrite performs one write attempt.
func (s *DocumentStore) postWrite(ctx context.Context, endpoint string, body []byte) (*domain.WriteResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	s.setHeaders(httpReq)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	var result domain.WriteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if result.Method == "" {
		result.Method = domain.MethodAPI
	}
	return &result, nil
}

// fallbackToFile writes the content to disk when the backend is
// unreachable.
func (s *DocumentStore) fallbackToFile(req *domain.WriteRequest, path string) (*domain.WriteResult, error) {
	logger.Warn("backend unreachable, falling back to %s", path)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFallbackFailed, err)
	}
	if err := os.WriteFile(path, []byte(req.Content), 0600); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFallbackFailed, err)
	}

	return &domain.WriteResult{
		ID:     domain.ComputeDocumentID(req.RepoURL, req.Path, req.Title, req.DocType),
		Status: domain.StatusFallback,
		Method: domain.MethodFilesystem,
		File:   path,
	}, nil
}

// Get retrieves a document. Not-found and transient failure are both
// reported as absence.
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.DocumentRecord, bool) {
	var payload documentPayload
	if !s.getJSON(ctx, s.baseURL+"/api/docs/"+url.PathEscape(id), &payload) {
		return nil, false
	}
	if payload.ID == "" {
		return nil, false
	}
	rec := payload.toDomain()
	return &rec, true
}

// GetVersions returns the version log, newest first. Empty on failure.
func (s *DocumentStore) GetVersions(ctx context.Context, id string) []domain.DocumentVersion {
	var payloads []versionPayload
	if !s.getJSON(ctx, s.baseURL+"/api/docs/"+url.PathEscape(id)+"/versions", &payloads) {
		return nil
	}
	versions := make([]domain.DocumentVersion, 0, len(payloads))
	for _, p := range payloads {
		versions = append(versions, domain.DocumentVersion{
			AuthorType:     domain.AuthorType(p.AuthorType),
			AuthorMetadata: p.AuthorMetadata,
			CreatedAt:      p.CreatedAt,
		})
	}
	return versions
}

// GetAll lists up to limit documents. Empty on failure.
func (s *DocumentStore) GetAll(ctx context.Context, limit int) []domain.DocumentRecord {
	return s.listDocuments(ctx, url.Values{"limit": {strconv.Itoa(limit)}})
}

// GetByRepository lists up to limit documents for a repository.
// Empty on failure.
func (s *DocumentStore) GetByRepository(ctx context.Context, repoURL string, limit int) []domain.DocumentRecord {
	return s.listDocuments(ctx, url.Values{
		"repo_url": {repoURL},
		"limit":    {strconv.Itoa(limit)},
	})
}

// listDocuments fetches /api/docs with query parameters.
func (s *DocumentStore) listDocuments(ctx context.Context, query url.Values) []domain.DocumentRecord {
	var payloads []documentPayload
	if !s.getJSON(ctx, s.baseURL+"/api/docs?"+query.Encode(), &payloads) {
		return nil
	}
	records := make([]domain.DocumentRecord, 0, len(payloads))
	for _, p := range payloads {
		records = append(records, p.toDomain())
	}
	return records
}

// BatchDelete removes documents best-effort in one backend call.
func (s *DocumentStore) BatchDelete(ctx context.Context, ids []string) domain.BatchDeleteResult {
	if len(ids) == 0 {
		return domain.BatchDeleteResult{Errors: []string{}}
	}

	payload, err := json.Marshal(map[string]any{
		"operation": "delete",
		"doc_ids":   ids,
	})
	if err != nil {
		return failedBatch(ids, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/docs/batch", bytes.NewReader(payload))
	if err != nil {
		return failedBatch(ids, err)
	}
	s.setHeaders(httpReq)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return failedBatch(ids, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failedBatch(ids, fmt.Errorf("backend returned %s", resp.Status))
	}

	var result domain.BatchDeleteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return failedBatch(ids, err)
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	return result
}

// HealthCheck probes /health with a short timeout.
func (s *DocumentStore) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// getJSON performs a GET and decodes the response. Returns false on any
// failure, including 404.
func (s *DocumentStore) getJSON(ctx context.Context, endpoint string, out any) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	s.setHeaders(httpReq)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		logger.Debug("GET %s failed: %v", endpoint, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("GET %s returned %s", endpoint, resp.Status)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Debug("GET %s: decoding response failed: %v", endpoint, err)
		return false
	}
	return true
}

// setHeaders applies content type and bearer auth.
func (s *DocumentStore) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}

// toDomain converts a wire document to the domain record.
func (p documentPayload) toDomain() domain.DocumentRecord {
	createdAt, _ := time.Parse(time.RFC3339, p.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, p.UpdatedAt)
	return domain.DocumentRecord{
		ID:         p.ID,
		Title:      p.Title,
		Path:       p.Path,
		Collection: p.Collection,
		RepoURL:    p.RepoURL,
		RepoName:   p.RepoName,
		DocType:    p.DocType,
		Content:    p.Content,
		Location:   p.Location,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// failedBatch builds the all-failed result for a batch call that never
// reached the backend or returned garbage.
func failedBatch(ids []string, err error) domain.BatchDeleteResult {
	logger.Warn("batch delete failed: %v", err)
	return domain.BatchDeleteResult{
		Total:  len(ids),
		Failed: len(ids),
		Errors: []string{err.Error()},
	}
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
