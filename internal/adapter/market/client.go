// Package market fetches item prices from the market.csgo.com batch API.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"case-opening-platform/config"
	"case-opening-platform/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	batchPath    = "/search-list-items-by-hash-name-all"
	maxBatchSize = 50
)

// Client implements ports.PriceSource.
type Client struct {
	baseURL    string
	apiKey     string
	batchSize  int
	httpClient ports.HTTPClient
	log        zerolog.Logger
}

// NewClient creates a market price client.
func NewClient(cfg config.MarketConfig, httpClient ports.HTTPClient, log zerolog.Logger) *Client {
	size := cfg.BatchSize
	if size <= 0 || size > maxBatchSize {
		size = maxBatchSize
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		apiKey:     cfg.APIKey,
		batchSize:  size,
		httpClient: httpClient,
		log:        log.With().Str("component", "market").Logger(),
	}
}

type batchResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type offer struct {
	Price flexInt `json:"price"`
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("price %q: %w", s, err)
	}
	*f = flexInt(n)
	return nil
}

// FetchPrices returns the cheapest offer price in kopecks for every name the market knows.
// Names are queried in batches; a failed batch only drops its own names.
func (c *Client) FetchPrices(ctx context.Context, names []string) (map[string]int64, error) {
	prices := make(map[string]int64, len(names))
	if len(names) == 0 {
		return prices, nil
	}

	var failed, batches int
	var lastErr error
	for start := 0; start < len(names); start += c.batchSize {
		end := min(start+c.batchSize, len(names))
		batches++

		got, err := c.fetchBatch(ctx, names[start:end])
		if err != nil {
			failed++
			lastErr = err
			c.log.Warn().Err(err).Int("batch_size", end-start).Msg("Market price batch failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}
		for name, price := range got {
			prices[name] = price
		}
	}

	if failed == batches {
		return nil, fmt.Errorf("market: all %d price batches failed: %w", batches, lastErr)
	}
	return prices, nil
}

func (c *Client) fetchBatch(ctx context.Context, names []string) (map[string]int64, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	for _, n := range names {
		q.Add("list_hash_name[]", n)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+batchPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("market: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("market: status %d", resp.StatusCode)
	}

	var body batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("market: decode: %w", err)
	}
	if !body.Success {
		if body.Error == "" {
			body.Error = "unsuccessful response"
		}
		return nil, errors.New("market: " + body.Error)
	}

	return minPrices(body.Data)
}

// minPrices reduces each name's offers to the cheapest positive price.
// The API sends an empty array instead of an object when nothing matched.
func minPrices(raw json.RawMessage) (map[string]int64, error) {
	out := make(map[string]int64)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return out, nil
	}

	var data map[string][]offer
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("market: decode offers: %w", err)
	}
	for name, offers := range data {
		var best int64
		for _, o := range offers {
			p := int64(o.Price)
			if p > 0 && (best == 0 || p < best) {
				best = p
			}
		}
		if best > 0 {
			out[name] = best
		}
	}
	return out, nil
}
