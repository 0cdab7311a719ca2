// Package endpoint executes queries against remote SPARQL HTTP
// endpoints using the protocol's form-encoded POST convention.
package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgeql/sparqlforge/internal/pattern"
)

// Results holds a SPARQL JSON results document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Binding maps one solution's variables to their bound terms.
type Binding map[string]Term

// Term is a single RDF term in a results binding.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// ExecutionError reports a failed endpoint round trip. RequestID ties
// the error back to the client's log lines for that request, and Query
// holds the text that was sent so callers can render both together.
type ExecutionError struct {
	RequestID string
	Endpoint  string
	Status    int
	Message   string
	Query     string
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("endpoint %s returned %d (request %s): %s", e.Endpoint, e.Status, e.RequestID, e.Message)
	}
	return fmt.Sprintf("endpoint %s failed (request %s): %s", e.Endpoint, e.RequestID, e.Message)
}

// IsExecutionError reports whether err is an ExecutionError.
// Uses errors.As to handle wrapped errors.
func IsExecutionError(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}

// Client executes serialized queries against SPARQL endpoints.
// The zero value is not usable; construct with New.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, typically to
// point at a test server or adjust transport settings.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger routes request logging to the given logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// New builds a Client with a 30 second request timeout and logging to
// the default slog handler.
func New(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute serializes q and posts it to the endpoint as an
// application/x-www-form-urlencoded query parameter, requesting
// application/sparql-results+json. The context bounds the whole
// round trip.
func (c *Client) Execute(ctx context.Context, endpoint string, q *pattern.Query) (*Results, error) {
	text, err := q.Serialize()
	if err != nil {
		return nil, err
	}
	return c.ExecuteText(ctx, endpoint, text)
}

// ExecuteText posts already-serialized query text to the endpoint.
func (c *Client) ExecuteText(ctx context.Context, endpoint, query string) (*Results, error) {
	requestID := uuid.NewString()
	form := url.Values{"query": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ExecutionError{RequestID: requestID, Endpoint: endpoint, Message: err.Error(), Query: query}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	c.logger.Debug("executing query", "request_id", requestID, "endpoint", endpoint, "bytes", len(query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("endpoint request failed", "request_id", requestID, "endpoint", endpoint, "error", err)
		return nil, &ExecutionError{RequestID: requestID, Endpoint: endpoint, Message: err.Error(), Query: query}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("endpoint returned error status",
			"request_id", requestID, "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &ExecutionError{
			RequestID: requestID,
			Endpoint:  endpoint,
			Status:    resp.StatusCode,
			Message:   strings.TrimSpace(string(body)),
			Query:     query,
		}
	}

	var results Results
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, &ExecutionError{RequestID: requestID, Endpoint: endpoint, Message: "decoding results: " + err.Error(), Query: query}
	}
	c.logger.Debug("query executed",
		"request_id", requestID, "vars", len(results.Head.Vars), "bindings", len(results.Results.Bindings))
	return &results, nil
}
