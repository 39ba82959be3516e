package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"routine-maker/backend/internal/model"
	pkgerrors "routine-maker/backend/pkg/errors"
)

// ── Upstream catalog source ──

// ErrExamFeedNotConfigured no separate exam feed URL is set.
var ErrExamFeedNotConfigured = errors.New("exam feed url not configured")

const defaultCatalogMaxBytes = 64 << 20

// CatalogSource fetches the section catalog and the exam feed.
type CatalogSource interface {
	// FetchSections returns the decoded sections and the raw payload.
	FetchSections(ctx context.Context) ([]model.Section, []byte, error)
	FetchExamFeed(ctx context.Context) ([]model.ExamRecord, error)
	Name() string
}

// HTTPCatalogSource reads both feeds over HTTP. The exam feed has the same
// section shape as the catalog.
type HTTPCatalogSource struct {
	dataURL    string
	examURL    string
	maxBytes   int64
	httpClient *http.Client
}

// NewHTTPCatalogSource creates a source. maxBytes <= 0 uses 64 MiB.
func NewHTTPCatalogSource(dataURL, examURL string, maxBytes int64, httpClient *http.Client) *HTTPCatalogSource {
	if maxBytes <= 0 {
		maxBytes = defaultCatalogMaxBytes
	}
	if httpClient == nil {
		httpClient = DefaultCatalogHTTPClient(15 * time.Second)
	}
	return &HTTPCatalogSource{
		dataURL:    strings.TrimSpace(dataURL),
		examURL:    strings.TrimSpace(examURL),
		maxBytes:   maxBytes,
		httpClient: httpClient,
	}
}

// DefaultCatalogHTTPClient returns a client with the given timeout.
func DefaultCatalogHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Name returns the catalog URL.
func (s *HTTPCatalogSource) Name() string { return s.dataURL }

func (s *HTTPCatalogSource) FetchSections(ctx context.Context) ([]model.Section, []byte, error) {
	raw, err := s.get(ctx, s.dataURL)
	if err != nil {
		return nil, nil, err
	}
	var sections []model.Section
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, nil, fmt.Errorf("%w: decode catalog: %v", pkgerrors.ErrUpstreamUnavailable, err)
	}
	return sections, raw, nil
}

func (s *HTTPCatalogSource) FetchExamFeed(ctx context.Context) ([]model.ExamRecord, error) {
	if s.examURL == "" {
		return nil, ErrExamFeedNotConfigured
	}
	raw, err := s.get(ctx, s.examURL)
	if err != nil {
		return nil, err
	}
	var items []model.Section
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode exam feed: %v", pkgerrors.ErrUpstreamUnavailable, err)
	}
	return model.ExamRecordsFromSections(items), nil
}

func (s *HTTPCatalogSource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", pkgerrors.ErrUpstreamUnavailable, url, resp.StatusCode)
	}

	// one byte past the limit tells a truncated body from an exact fit
	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", pkgerrors.ErrUpstreamUnavailable, err)
	}
	if int64(len(raw)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s body exceeds %d bytes", pkgerrors.ErrUpstreamUnavailable, url, s.maxBytes)
	}
	return raw, nil
}
