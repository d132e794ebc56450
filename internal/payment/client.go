// Package payment talks to the external payment providers. Each provider is
// an opaque HTTP service exposing invoice creation and invoice status; the
// only contract is the status code plus the invoice_id / paid JSON fields.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/shahair/internal/domain"
)

type Client struct {
	http   *http.Client
	apiKey string
}

type createInvoiceRequest struct {
	APIKey   string   `json:"api_key"`
	Amount   int64    `json:"amount"`
	Metadata []string `json:"metadata"`
}

type createInvoiceResponse struct {
	InvoiceID string `json:"invoice_id"`
}

type invoiceStatusRequest struct {
	APIKey string `json:"api_key"`
}

type invoiceStatusResponse struct {
	Paid bool `json:"paid"`
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		apiKey: apiKey,
	}
}

// CreateInvoice POSTs {base_url}invoice/ and returns the provider's invoice
// id. Amount is in the provider's minor unit.
func (c *Client) CreateInvoice(ctx context.Context, baseURL string, amount int64) (string, error) {
	body, err := json.Marshal(createInvoiceRequest{APIKey: c.apiKey, Amount: amount, Metadata: []string{}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"invoice/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.ProviderError{StatusCode: resp.StatusCode}
	}

	var out createInvoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode invoice response: %w", err)
	}
	return out.InvoiceID, nil
}

// InvoiceStatus GETs {base_url}invoice/{invoice_id}/ and reports whether the
// provider marks the invoice as paid. The api key travels in the request body,
// matching what the providers expect.
func (c *Client) InvoiceStatus(ctx context.Context, baseURL, invoiceID string) (bool, error) {
	body, err := json.Marshal(invoiceStatusRequest{APIKey: c.apiKey})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%sinvoice/%s/", baseURL, invoiceID), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, &domain.ProviderError{StatusCode: resp.StatusCode}
	}

	var out invoiceStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode status response: %w", err)
	}
	return out.Paid, nil
}
