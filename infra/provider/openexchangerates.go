// Package provider implements the external exchange rate source
// client.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
)

// OpenExchangeRatesClient fetches daily rates from openexchangerates.org.
// The free plan only serves USD-based tables, so callers needing
// another base rebase the result themselves.
type OpenExchangeRatesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type openExchangeRatesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`

	// Error fields, present on non-2xx responses.
	Error       bool   `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewOpenExchangeRatesClient creates a client with the configured
// bounded HTTP timeout. A slow upstream times out and the caller falls
// through its fallback chain instead of blocking the request.
func NewOpenExchangeRatesClient(cfg *config.ExchangeRate, logger *slog.Logger) *OpenExchangeRatesClient {
	return &OpenExchangeRatesClient{
		apiKey:  cfg.ApiKey,
		baseURL: cfg.ApiUrl,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// HasCredentials reports whether an API key is configured. Absence is a
// valid degraded mode, not an error.
func (c *OpenExchangeRatesClient) HasCredentials() bool {
	return c.apiKey != ""
}

// FetchUSDRates fetches the latest USD-based rate table. Failures wrap
// domain.ErrUpstream so callers can recover via their fallback chain.
func (c *OpenExchangeRatesClient) FetchUSDRates(ctx context.Context) (currency.RateTable, error) {
	reqURL := fmt.Sprintf("%s?app_id=%s", c.baseURL, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", domain.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, string(body))
	}

	var apiResp openExchangeRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrUpstream, err)
	}
	if len(apiResp.Rates) == 0 {
		return nil, fmt.Errorf("%w: no rates in response", domain.ErrUpstream)
	}

	table := make(currency.RateTable, len(apiResp.Rates))
	for code, rate := range apiResp.Rates {
		table[currency.Code(code)] = rate
	}
	c.logger.Debug("Fetched live exchange rates", "base", apiResp.Base, "count", len(table))
	return table, nil
}
