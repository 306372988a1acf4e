// Package exnode is the client for the Exnode crypto invoice API.
package exnode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"case-opening-platform/config"
	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/money"

	"github.com/rs/zerolog"
)

const (
	createPath = "/api/crypto/invoice/create"
	getPath    = "/api/crypto/invoice/get"

	maxErrorBody = 4 << 10
)

// createInvoiceRequest is the body of an invoice creation call.
type createInvoiceRequest struct {
	Token               string      `json:"token"`
	Amount              json.Number `json:"amount"` // rubles
	FiatCurrency        string      `json:"fiat_currency"`
	ClientTransactionID string      `json:"client_transaction_id"`
	Payform             bool        `json:"payform"`
	RedirectURL         string      `json:"redirect_url,omitempty"`
	AutoRedirect        bool        `json:"auto_redirect"`
	StrictCurrency      bool        `json:"strict_currency"`
	CallbackURL         string      `json:"call_back_url"`
	MerchantUUID        string      `json:"merchant_uuid,omitempty"`
}

type createInvoiceResponse struct {
	TrackerID  string `json:"tracker_id"`
	PaymentURL string `json:"payment_url"`
}

// Invoice is the order state returned by the get endpoint.
type Invoice struct {
	TrackerID           string      `json:"tracker_id"`
	ClientTransactionID string      `json:"client_transaction_id"`
	Status              string      `json:"status"`
	Token               string      `json:"token"`
	Amount              json.Number `json:"amount"`
	PayedAmount         json.Number `json:"payed_amount"`
	FiatAmount          json.Number `json:"fiat_amount"`
	FiatPayedAmount     json.Number `json:"fiat_payed_amount"`
	FiatCurrency        string      `json:"fiat_currency"`
	DateExpire          string      `json:"date_expire"`
	Hash                string      `json:"hash"`
}

// Client implements ports.PaymentGateway for Exnode.
type Client struct {
	cfg        config.ExnodeConfig
	httpClient ports.HTTPClient
	now        func() time.Time
	log        zerolog.Logger
}

// NewClient creates an Exnode client.
func NewClient(cfg config.ExnodeConfig, httpClient ports.HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		now:        time.Now,
		log:        log.With().Str("gateway", "exnode").Logger(),
	}
}

// Provider returns EXNODE.
func (c *Client) Provider() domain.Provider {
	return domain.ProviderExnode
}

// CreateOrder creates a hosted-payform invoice and returns its tracker id and payment URL.
func (c *Client) CreateOrder(ctx context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	body, err := json.Marshal(createInvoiceRequest{
		Token:               c.cfg.Token,
		Amount:              money.ToMajorNumber(req.Amount),
		FiatCurrency:        req.Currency,
		ClientTransactionID: req.ClientRef.String(),
		Payform:             true,
		RedirectURL:         req.ReturnURL,
		AutoRedirect:        true,
		StrictCurrency:      true,
		CallbackURL:         c.cfg.CallbackURL,
		MerchantUUID:        c.cfg.MerchantID,
	})
	if err != nil {
		return nil, fmt.Errorf("exnode: marshal invoice: %w", err)
	}

	var out createInvoiceResponse
	if err := c.do(ctx, http.MethodPost, createPath, nil, body, &out); err != nil {
		return nil, err
	}
	if out.TrackerID == "" || out.PaymentURL == "" {
		return nil, fmt.Errorf("%w: exnode: invoice response without tracker_id or payment_url", ports.ErrGatewayRejected)
	}

	c.log.Info().
		Str("tracker_id", out.TrackerID).
		Str("client_ref", req.ClientRef.String()).
		Int64("amount", req.Amount).
		Msg("Exnode invoice created")

	return &ports.GatewayOrder{ExternalRef: out.TrackerID, PaymentURL: out.PaymentURL}, nil
}

// FetchStatus reads the authoritative invoice status.
func (c *Client) FetchStatus(ctx context.Context, trackerID string) (*ports.GatewayStatus, error) {
	inv, err := c.GetInvoice(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	return &ports.GatewayStatus{
		ExternalRef: inv.TrackerID,
		ClientRef:   inv.ClientTransactionID,
		RawStatus:   inv.Status,
		Outcome:     domain.ExnodeOutcome(inv.Status),
	}, nil
}

// GetInvoice fetches an invoice by tracker id.
func (c *Client) GetInvoice(ctx context.Context, trackerID string) (*Invoice, error) {
	if strings.TrimSpace(trackerID) == "" {
		return nil, fmt.Errorf("exnode: empty tracker id")
	}
	q := url.Values{"tracker_id": {trackerID}}

	var inv Invoice
	if err := c.do(ctx, http.MethodGet, getPath, q, nil, &inv); err != nil {
		return nil, err
	}
	if inv.TrackerID == "" {
		inv.TrackerID = trackerID
	}
	return &inv, nil
}

// do sends a signed request. A 4xx answer is a definitive rejection; anything
// else that fails leaves the outcome unknown.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	endpoint := strings.TrimRight(c.cfg.APIURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("exnode: build request: %w", err)
	}

	ts := c.now().Unix()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ApiPublic", c.cfg.PublicKey)
	req.Header.Set("Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("Signature", Sign(c.cfg.PrivateKey, ts, body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("exnode: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("body", string(msg)).
			Msg("Exnode API error")
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: exnode: %s returned %d", ports.ErrGatewayRejected, path, resp.StatusCode)
		}
		return fmt.Errorf("exnode: %s returned %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("exnode: decode %s response: %w", path, err)
	}
	return nil
}
