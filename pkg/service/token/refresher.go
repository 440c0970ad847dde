package token

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/singleflight"

	"github.com/freightops/carrierwatch/pkg/utils/logging"
	"github.com/freightops/carrierwatch/pkg/utils/safe"
)

const refreshTimeout = 10 * time.Second

var (
	// ErrMissingAccessToken is returned when the token endpoint answered 2xx
	// but the body carried no access_token.
	ErrMissingAccessToken = goerr.New("token endpoint response did not include an access_token")

	// ErrRefreshRejected is returned on HTTP 400/401 from the token endpoint.
	// It means the refresh token itself is invalid or expired; retrying will
	// not help and a human has to re-authorize the integration.
	ErrRefreshRejected = goerr.New("token endpoint rejected the refresh token")
)

// Refresher exchanges the stored refresh token for a new bearer token at an
// OAuth2 token endpoint. Each exchange is exactly one network round trip;
// retry orchestration belongs to the caller. Concurrent callers share a
// single in-flight exchange through singleflight, so two 401s racing on the
// same expired bearer token trigger one upstream call and one store update.
type Refresher struct {
	store      *Store
	endpoint   string
	httpClient *http.Client
	group      singleflight.Group
}

// RefresherOption configures a Refresher
type RefresherOption func(*Refresher)

// WithHTTPClient replaces the HTTP client used for the token exchange
func WithHTTPClient(client *http.Client) RefresherOption {
	return func(r *Refresher) {
		r.httpClient = client
	}
}

// NewRefresher creates a Refresher bound to store and the token endpoint URL
func NewRefresher(store *Store, endpoint string, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		store:    store,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: refreshTimeout,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh performs the token exchange and returns the new bearer token.
// On success the store is updated; a persistence failure is logged but does
// not fail the refresh, because the in-memory tokens are already valid.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		return r.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r *Refresher) refresh(ctx context.Context) (string, error) {
	logger := logging.From(ctx)
	logger.Info("refreshing access token")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", r.store.RefreshToken())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token refresh request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "token refresh request failed", goerr.V("endpoint", r.endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read token endpoint response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return "", goerr.Wrap(ErrRefreshRejected, "manual re-authorization required",
				goerr.V("status_code", resp.StatusCode),
				goerr.V("body", string(body)),
			)
		}
		return "", goerr.New("token endpoint returned error status",
			goerr.V("status_code", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", goerr.Wrap(err, "failed to decode token endpoint response")
	}

	if payload.AccessToken == "" {
		return "", goerr.Wrap(ErrMissingAccessToken, "token refresh failed")
	}

	refreshToken := payload.RefreshToken
	if refreshToken == "" {
		logger.Warn("token endpoint did not rotate the refresh token, keeping the current one")
		refreshToken = r.store.RefreshToken()
	}

	if err := r.store.Update(ctx, payload.AccessToken, refreshToken); err != nil {
		// The refreshed pair is committed in memory; losing the file write
		// only costs durability across a restart.
		logger.Warn("failed to persist refreshed tokens", "error", err)
	}

	logger.Info("access token refreshed")
	return payload.AccessToken, nil
}
