package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pubgarena/backend/internal/config"
)

// Client handles NOWPayments API integration
type Client struct {
	baseURL     string
	apiKey      string
	callbackURL string
	httpClient  *http.Client
}

// Default is the package-level default client
var Default *Client

// NewClient creates a new NOWPayments client
func NewClient(cfg *config.Config) *Client {
	if cfg == nil || cfg.NowPaymentsAPIKey == "" {
		log.Printf("[PAYMENT] NOWPayments not fully configured - skipping initialization")
		return nil
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.NowPaymentsBaseURL, "/"),
		apiKey:      cfg.NowPaymentsAPIKey,
		callbackURL: cfg.NowPaymentsCallbackURL,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.NowPaymentsTimeout) * time.Second},
	}
}

// SetDefault sets the package-level default client
func SetDefault(c *Client) {
	Default = c
}

// Invoice is the gateway's response to an invoice creation request.
type Invoice struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	InvoiceURL string `json:"invoice_url"`
}

// CreateInvoice asks the gateway for a hosted payment page crediting the
// given account. The returned invoice carries the canonical order id that
// will come back on the callback.
func (c *Client) CreateInvoice(ctx context.Context, pubgID string, amountUSD float64, payCurrency string) (*Invoice, error) {
	orderID := BuildOrderID(pubgID)

	body := map[string]interface{}{
		"price_amount":      amountUSD,
		"price_currency":    "usd",
		"pay_currency":      payCurrency,
		"order_id":          orderID,
		"order_description": fmt.Sprintf("Balance top-up for %s", pubgID),
		"ipn_callback_url":  c.callbackURL,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/invoice", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoice request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("[PAYMENT] Invoice request failed: status=%d body=%s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("invoice request failed with status %d", resp.StatusCode)
	}

	var invoice Invoice
	if err := json.NewDecoder(resp.Body).Decode(&invoice); err != nil {
		return nil, fmt.Errorf("failed to decode invoice response: %w", err)
	}
	if invoice.OrderID == "" {
		invoice.OrderID = orderID
	}

	log.Printf("[PAYMENT] Created invoice for %s (order_id=%s amount=%.2f)", pubgID, orderID, amountUSD)
	return &invoice, nil
}
