// Package quant is the HTTP client for the external analytics engine, the
// opaque service that computes CAGR, Volatility, Sharpe, Beta and per-share
// return series from a portfolio.
package quant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
)

const defaultTimeout = 30 * time.Second

// StatusError is an engine-reported failure: the engine answered, with a
// non-success status and a message. Both are propagated to callers verbatim.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine returned %d: %s", e.Status, e.Message)
}

// Client calls the analytics engine.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client with the default timeout.
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, defaultTimeout)
}

// NewClientWithTimeout creates a client with an explicit timeout.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type computeRequest struct {
	Portfolio portfolio.Portfolio `json:"portfolio"`
}

type computeResponse struct {
	CAGR         float64                `json:"CAGR"`
	Volatility   float64                `json:"Volatility"`
	Sharpe       float64                `json:"Sharpe"`
	Beta         *float64               `json:"Beta"`
	ShareProfits portfolio.ShareProfits `json:"shareProfits"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Compute posts the portfolio to the engine and returns its metrics payload.
// Engine-reported failures come back as *StatusError; transport and decode
// failures as plain wrapped errors.
func (c *Client) Compute(ctx context.Context, p portfolio.Portfolio) (*portfolio.MetricsResult, error) {
	body, err := json.Marshal(computeRequest{Portfolio: p})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/metrics"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Message: engineMessage(data),
		}
	}

	var payload computeResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	symbols, err := shareProfitKeys(data)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	log.Debug().
		Int("holdings", len(p)).
		Int("symbols", len(symbols)).
		Msg("Fetched metrics from engine")

	return &portfolio.MetricsResult{
		CAGR:         payload.CAGR,
		Volatility:   payload.Volatility,
		Sharpe:       payload.Sharpe,
		Beta:         payload.Beta,
		ShareProfits: payload.ShareProfits,
		Symbols:      symbols,
	}, nil
}

// engineMessage extracts the engine's {"error": ...} message, falling back to
// a snippet of the raw body for non-JSON failure pages.
func engineMessage(data []byte) string {
	var e errorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "no error message"
	}
	return msg
}

// shareProfitKeys walks the raw payload and returns the shareProfits object
// keys in document order. encoding/json maps drop ordering, and ranking needs
// the engine's order for its stable tie-break.
func shareProfitKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Opening brace of the payload object.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		if key != "shareProfits" {
			// Skip this field's value entirely.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			// "shareProfits": null, same as absent.
			return nil, nil
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("shareProfits is not an object, got token %v", tok)
		}
		var keys []string
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			symbol, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected token %v", tok)
			}
			keys = append(keys, symbol)
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		return keys, nil
	}

	// shareProfits absent: treat as empty, not malformed.
	return nil, nil
}
