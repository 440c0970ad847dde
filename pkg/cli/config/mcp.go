package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/freightops/carrierwatch/pkg/service/mcp"
	"github.com/freightops/carrierwatch/pkg/service/token"
)

// MCP is the MyCarrierPackets API configuration: the credential pair, the
// token endpoint, and where refreshed credentials are persisted.
type MCP struct {
	bearerToken      string
	refreshToken     string
	tokenEndpointURL string
	apiURL           string
	stateFile        string
}

// Flags returns the CLI flags for the carrier API. The credential pair reads
// the same unprefixed variables that the state file persists, so a restart
// picks up rotated tokens.
func (x *MCP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bearer-token",
			Usage:       "MyCarrierPackets API bearer token",
			Category:    "Carrier API",
			Sources:     cli.EnvVars(token.EnvBearerToken),
			Destination: &x.bearerToken,
		},
		&cli.StringFlag{
			Name:        "refresh-token",
			Usage:       "MyCarrierPackets API refresh token",
			Category:    "Carrier API",
			Sources:     cli.EnvVars(token.EnvRefreshToken),
			Destination: &x.refreshToken,
		},
		&cli.StringFlag{
			Name:        "token-endpoint-url",
			Usage:       "OAuth2 token endpoint for refreshing the bearer token",
			Category:    "Carrier API",
			Sources:     cli.EnvVars("TOKEN_ENDPOINT_URL"),
			Destination: &x.tokenEndpointURL,
		},
		&cli.StringFlag{
			Name:        "carrier-api-url",
			Usage:       "Carrier lookup endpoint",
			Category:    "Carrier API",
			Value:       mcp.DefaultBaseURL,
			Sources:     cli.EnvVars("MCP_API_URL"),
			Destination: &x.apiURL,
		},
		&cli.StringFlag{
			Name:        "state-file",
			Usage:       "Credential file updated when tokens are refreshed",
			Category:    "Carrier API",
			Value:       ".env",
			Sources:     cli.EnvVars("CARRIERWATCH_ENV_FILE"),
			Destination: &x.stateFile,
		},
	}
}

// LogValue implements slog.LogValuer, hiding the credential pair
func (x MCP) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bearer-token.len", len(x.bearerToken)),
		slog.Int("refresh-token.len", len(x.refreshToken)),
		slog.String("token-endpoint-url", x.tokenEndpointURL),
		slog.String("api-url", x.apiURL),
		slog.String("state-file", x.stateFile),
	)
}

// Validate checks that all required carrier API settings are present
func (x *MCP) Validate() error {
	var missing []string
	if x.bearerToken == "" {
		missing = append(missing, "bearer-token")
	}
	if x.refreshToken == "" {
		missing = append(missing, "refresh-token")
	}
	if x.tokenEndpointURL == "" {
		missing = append(missing, "token-endpoint-url")
	}
	if len(missing) > 0 {
		return goerr.Wrap(ErrMissingConfig, "carrier API configuration is incomplete", goerr.V("missing", missing))
	}
	return nil
}

// Configure builds the token store, refresher and carrier API client
func (x *MCP) Configure() (*token.Store, *token.Refresher, *mcp.Client, error) {
	if err := x.Validate(); err != nil {
		return nil, nil, nil, err
	}

	store := token.NewStore(x.stateFile, x.bearerToken, x.refreshToken)
	refresher := token.NewRefresher(store, x.tokenEndpointURL)
	client := mcp.New(x.apiURL, store)

	return store, refresher, client, nil
}
