// Package gateway talks to the external payment provider's verification API.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable means the provider could not give a definite answer:
// network failure, timeout, 5xx or an unparseable body. Callers must not
// treat it as "not paid".
var ErrUnavailable = errors.New("payment gateway unavailable")

// VerificationResult is the provider's answer for one transaction reference.
type VerificationResult struct {
	Verified      bool
	GatewayStatus string
	Amount        float64
	Reference     string
}

// Verifier is implemented by Client; services depend on this interface so
// tests can substitute a stub.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerificationResult, error)
}

// Client is an HTTP client for the provider's verification endpoint.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a gateway client. The timeout bounds every verification
// call end to end.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string  `json:"status"`
		Amount    float64 `json:"amount"`
		Reference string  `json:"reference"`
	} `json:"data"`
}

// VerifyTransaction asks the provider whether the transaction with the given
// reference was paid. A definite "no" comes back as Verified=false with a
// nil error; only indeterminate outcomes return ErrUnavailable.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerificationResult, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	// A 4xx or a negative body is a definite answer: the reference is
	// unknown or the transaction did not succeed.
	result := &VerificationResult{
		Verified:      resp.StatusCode == http.StatusOK && body.Status && body.Data.Status == "success",
		GatewayStatus: body.Data.Status,
		Amount:        body.Data.Amount,
		Reference:     body.Data.Reference,
	}
	if result.Reference == "" {
		result.Reference = reference
	}
	return result, nil
}
