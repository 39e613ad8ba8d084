// Package stores contains remote vector store clients. The core pipeline
// depends only on the StoreClient interface; the wire protocol lives here.
package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/rs/zerolog"
)

var (
	ErrEndpointNotSet   = errors.New("store endpoint not set")
	ErrInvalidEndpoint  = errors.New("store endpoint is not a valid URL")
	ErrRequestFailed    = errors.New("store request failed")
	ErrEmptyBatch       = errors.New("batch contains no documents")
	ErrConnectivityFail = errors.New("store connectivity check failed")
)

const defaultTimeout = 30 * time.Second

// HTTPStore submits bulk-index batches to the remote store over HTTP JSON.
type HTTPStore struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// bulkIndexRequest is the body of one batch submission.
type bulkIndexRequest struct {
	Documents []*models.IndexDocument `json:"documents"`
}

// bulkIndexResponse is the store's answer to a batch submission.
type bulkIndexResponse struct {
	Indexed int      `json:"indexed"`
	Errors  []string `json:"errors,omitempty"`
}

// NewHTTPStore creates a store client from environment configuration.
func NewHTTPStore() (*HTTPStore, error) {
	endpoint := os.Getenv("VECBRIDGE_STORE_ENDPOINT")
	return NewHTTPStoreWithClient(endpoint, os.Getenv("VECBRIDGE_STORE_TOKEN"), nil)
}

// NewHTTPStoreWithClient creates a store client with a custom HTTP client,
// used by tests to point at a local server.
func NewHTTPStoreWithClient(endpoint, authToken string, httpClient *http.Client) (*HTTPStore, error) {
	logger := util.NewLogger(zerolog.ErrorLevel)

	if strings.EqualFold(endpoint, "") {
		logger.Error().Msg("VECBRIDGE_STORE_ENDPOINT env variable not set")
		return nil, ErrEndpointNotSet
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		logger.Error().Str("endpoint", endpoint).Msg("store endpoint is not a valid URL")
		return nil, ErrInvalidEndpoint
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &HTTPStore{
		endpoint:   strings.TrimRight(endpoint, "/"),
		authToken:  authToken,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SubmitBatch indexes one batch and returns the indexed document count.
func (s *HTTPStore) SubmitBatch(ctx context.Context, docs []*models.IndexDocument) (int, error) {
	if len(docs) == 0 {
		return 0, ErrEmptyBatch
	}

	body, err := json.Marshal(bulkIndexRequest{Documents: docs})
	if err != nil {
		s.logger.Err(err).Msg("failed to marshal batch")
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/documents/bulk", bytes.NewBuffer(body))
	if err != nil {
		s.logger.Err(err).Msg("failed to create request")
		return 0, err
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Err(err).Msg("failed to submit batch")
		return 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error().Int("status_code", resp.StatusCode).Msg("bulk index request failed")
		return 0, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var response bulkIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		s.logger.Err(err).Msg("failed to decode response")
		return 0, err
	}

	if len(response.Errors) > 0 {
		s.logger.Warn().Strs("errors", response.Errors).Msg("store reported partial errors")
	}
	return response.Indexed, nil
}

// Probe checks connectivity and schema availability. The endpoint is masked
// down to scheme and host in the result.
func (s *HTTPStore) Probe(ctx context.Context) (*models.ProbeResult, error) {
	result := &models.ProbeResult{
		EndpointMasked: maskEndpoint(s.endpoint),
		CheckedAt:      time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/schema", nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Err(err).Msg("store unreachable")
		return result, fmt.Errorf("%w: %v", ErrConnectivityFail, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to close response body")
		}
	}()

	result.Reachable = true
	result.SchemaAvailable = resp.StatusCode == http.StatusOK
	return result, nil
}

// DeleteBySource removes every document of a source from a collection.
func (s *HTTPStore) DeleteBySource(ctx context.Context, source, collection string) error {
	q := url.Values{}
	q.Set("source", source)
	q.Set("collection", collection)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		s.endpoint+"/documents?"+q.Encode(),
		nil,
	)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Err(err).Str("source", source).Msg("failed to delete documents")
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		s.logger.Error().Int("status_code", resp.StatusCode).Str("source", source).Msg("delete request failed")
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return nil
}

func (s *HTTPStore) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.authToken))
	}
}

// maskEndpoint strips credentials, path and query from an endpoint so it can
// be logged or reported safely.
func maskEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "***"
	}
	return u.Scheme + "://" + u.Host
}
