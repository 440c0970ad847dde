// Package mcp is a client for the MyCarrierPackets carrier risk API.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/freightops/carrierwatch/pkg/domain/interfaces"
	"github.com/freightops/carrierwatch/pkg/domain/model"
	"github.com/freightops/carrierwatch/pkg/utils/logging"
	"github.com/freightops/carrierwatch/pkg/utils/safe"
)

// DefaultBaseURL is the PreviewCarrier endpoint of the staging environment
const DefaultBaseURL = "https://mycarrierpacketsapi-stage.azurewebsites.net/api/v1/Carrier/PreviewCarrier"

const (
	lookupTimeout = 10 * time.Second

	// Error bodies are attached to logs; cap them so a misbehaving upstream
	// cannot flood the log pipeline.
	maxErrorBodyBytes = 2048
)

// Client calls the carrier lookup endpoint with the current bearer token
type Client struct {
	baseURL    string
	tokens     interfaces.TokenSource
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for lookups
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a carrier API client. tokens supplies the bearer token for
// each request, so a refresh between attempts is picked up automatically.
func New(baseURL string, tokens interfaces.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: lookupTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PreviewCarrier looks up the carrier identified by docketNumber. It returns
// (nil, nil) when the API has no data for the number. A 401 response is
// reported as ErrUnauthorized, other error statuses as *StatusError.
func (c *Client) PreviewCarrier(ctx context.Context, docketNumber string) (*model.CarrierRecord, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid carrier API URL", goerr.V("url", c.baseURL))
	}
	q := u.Query()
	q.Set("docketNumber", docketNumber)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build carrier lookup request")
	}
	req.Header.Set("Authorization", "Bearer "+c.tokens.BearerToken())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "carrier lookup request failed", goerr.V("docket_number", docketNumber))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, goerr.Wrap(ErrUnauthorized, "carrier lookup unauthorized", goerr.V("docket_number", docketNumber))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, goerr.Wrap(&StatusError{Code: resp.StatusCode, Body: string(body)}, "carrier lookup failed",
			goerr.V("docket_number", docketNumber),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read carrier lookup response")
	}

	if len(body) == 0 {
		return nil, nil
	}

	var records []model.CarrierRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, goerr.Wrap(err, "failed to decode carrier lookup response", goerr.V("docket_number", docketNumber))
	}

	if len(records) == 0 {
		logging.From(ctx).Info("carrier lookup returned no data", "docket_number", docketNumber)
		return nil, nil
	}

	return &records[0], nil
}
