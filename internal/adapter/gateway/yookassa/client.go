// Package yookassa is the client for the YooKassa payments API.
package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"case-opening-platform/config"
	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/money"

	"github.com/rs/zerolog"
)

const (
	paymentsPath = "/v3/payments"
	maxErrorBody = 4 << 10
)

// Amount is a YooKassa money value. Value is a decimal string such as "10.00".
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// Metadata links a payment back to our ledger.
type Metadata struct {
	UserID        string `json:"userId,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

type createPaymentRequest struct {
	Amount       Amount       `json:"amount"`
	Capture      bool         `json:"capture"`
	Confirmation confirmation `json:"confirmation"`
	Description  string       `json:"description,omitempty"`
	Metadata     Metadata     `json:"metadata"`
}

// Payment is the payment object returned by the API and embedded in notifications.
type Payment struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Paid         bool          `json:"paid"`
	Amount       Amount        `json:"amount"`
	Confirmation *confirmation `json:"confirmation,omitempty"`
	Metadata     Metadata      `json:"metadata"`
}

// Notification is the body YooKassa posts to the webhook URL.
type Notification struct {
	Type   string  `json:"type"`
	Event  string  `json:"event"`
	Object Payment `json:"object"`
}

// AmountMinor returns the notification amount in kopecks.
func (p *Payment) AmountMinor() (int64, error) {
	return money.FromMajor(p.Amount.Value)
}

// Client implements ports.PaymentGateway for YooKassa.
type Client struct {
	cfg        config.YooKassaConfig
	httpClient ports.HTTPClient
	log        zerolog.Logger
}

// NewClient creates a YooKassa client.
func NewClient(cfg config.YooKassaConfig, httpClient ports.HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log.With().Str("gateway", "yookassa").Logger(),
	}
}

// Provider returns YOOKASSA.
func (c *Client) Provider() domain.Provider {
	return domain.ProviderYooKassa
}

// CreateOrder creates a redirect-confirmed, auto-captured payment.
// The client ref doubles as the Idempotence-Key so a retried create cannot double-charge.
func (c *Client) CreateOrder(ctx context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	body, err := json.Marshal(createPaymentRequest{
		Amount:  Amount{Value: money.ToMajor(req.Amount), Currency: req.Currency},
		Capture: true,
		Confirmation: confirmation{
			Type:      "redirect",
			ReturnURL: req.ReturnURL,
		},
		Description: req.Description,
		Metadata: Metadata{
			UserID:        req.AccountID.String(),
			TransactionID: req.LedgerEntryID.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("yookassa: marshal payment: %w", err)
	}

	var p Payment
	if err := c.do(ctx, http.MethodPost, paymentsPath, body, req.ClientRef.String(), &p); err != nil {
		return nil, err
	}
	if p.Status == "canceled" {
		return nil, fmt.Errorf("%w: yookassa: payment %s canceled on creation", ports.ErrGatewayRejected, p.ID)
	}
	if p.ID == "" || p.Confirmation == nil || p.Confirmation.ConfirmationURL == "" {
		return nil, fmt.Errorf("%w: yookassa: payment response without confirmation url", ports.ErrGatewayRejected)
	}

	c.log.Info().
		Str("payment_id", p.ID).
		Str("ledger_entry_id", req.LedgerEntryID.String()).
		Int64("amount", req.Amount).
		Msg("YooKassa payment created")

	return &ports.GatewayOrder{ExternalRef: p.ID, PaymentURL: p.Confirmation.ConfirmationURL}, nil
}

// FetchStatus re-reads a payment from the API.
func (c *Client) FetchStatus(ctx context.Context, paymentID string) (*ports.GatewayStatus, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, fmt.Errorf("yookassa: empty payment id")
	}
	var p Payment
	if err := c.do(ctx, http.MethodGet, paymentsPath+"/"+url.PathEscape(paymentID), nil, "", &p); err != nil {
		return nil, err
	}
	return &ports.GatewayStatus{
		ExternalRef: p.ID,
		ClientRef:   p.Metadata.TransactionID,
		RawStatus:   p.Status,
		Outcome:     domain.YooKassaOutcome(p.Status),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, idempotenceKey string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.APIURL, "/")+path, reader)
	if err != nil {
		return fmt.Errorf("yookassa: build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ShopID, c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")
	if idempotenceKey != "" {
		req.Header.Set("Idempotence-Key", idempotenceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("yookassa: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("body", string(msg)).
			Msg("YooKassa API error")
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: yookassa: %s returned %d", ports.ErrGatewayRejected, path, resp.StatusCode)
		}
		return fmt.Errorf("yookassa: %s returned %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("yookassa: decode response: %w", err)
	}
	return nil
}
