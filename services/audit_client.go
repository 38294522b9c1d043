package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"housingbridge/models"
	"housingbridge/utils"
)

// AuditPath is where the audit service listens.
const AuditPath = "/api/audit"

var (
	// ErrUnexpectedStatus is returned for any non-2xx audit response.
	ErrUnexpectedStatus = errors.New("audit failed")
	// ErrMalformedResponse is returned when a 2xx body is not a usable audit result.
	ErrMalformedResponse = errors.New("malformed audit response")
)

// AuditClient calls a remote audit service over HTTP.
type AuditClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewAuditClient creates a client for the service at endpoint (scheme and
// host, optionally a path prefix; AuditPath is appended).
func NewAuditClient(endpoint string, timeout time.Duration, logger *utils.Logger) *AuditClient {
	return &AuditClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithHTTPClient swaps the underlying http.Client.
func (c *AuditClient) WithHTTPClient(hc *http.Client) *AuditClient {
	c.httpClient = hc
	return c
}

// auditPayload mirrors the response with pointers so missing fields can
// be told apart from zero values.
type auditPayload struct {
	Price        *float64 `json:"price"`
	Neighborhood *string  `json:"neighborhood"`
	ScamScore    *float64 `json:"scamScore"`
}

// Audit posts req to the service and returns the merged fields.
func (c *AuditClient) Audit(ctx context.Context, req models.AuditRequest) (models.AuditResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.AuditResult{}, fmt.Errorf("encode audit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+AuditPath, bytes.NewReader(body))
	if err != nil {
		return models.AuditResult{}, fmt.Errorf("build audit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("[audit-client] POST %s url=%s", c.endpoint+AuditPath, req.URL)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.AuditResult{}, fmt.Errorf("audit request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return models.AuditResult{}, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, res.StatusCode)
	}

	var p auditPayload
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return models.AuditResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return p.validate()
}

func (p auditPayload) validate() (models.AuditResult, error) {
	switch {
	case p.Price == nil:
		return models.AuditResult{}, fmt.Errorf("%w: missing price", ErrMalformedResponse)
	case p.Neighborhood == nil:
		return models.AuditResult{}, fmt.Errorf("%w: missing neighborhood", ErrMalformedResponse)
	case p.ScamScore == nil:
		return models.AuditResult{}, fmt.Errorf("%w: missing scamScore", ErrMalformedResponse)
	case *p.Price < 0:
		return models.AuditResult{}, fmt.Errorf("%w: negative price %v", ErrMalformedResponse, *p.Price)
	case *p.ScamScore < 0 || *p.ScamScore > 100 || *p.ScamScore != float64(int(*p.ScamScore)):
		return models.AuditResult{}, fmt.Errorf("%w: scamScore %v is not an integer in 0-100", ErrMalformedResponse, *p.ScamScore)
	}

	return models.AuditResult{
		Price:        *p.Price,
		Neighborhood: *p.Neighborhood,
		ScamScore:    int(*p.ScamScore),
	}, nil
}
