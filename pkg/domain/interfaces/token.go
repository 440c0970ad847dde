package interfaces

import "context"

// TokenSource provides the bearer token for outbound carrier API calls
type TokenSource interface {
	BearerToken() string
}

// TokenRefresher exchanges the refresh token for a new bearer token.
// Implementations collapse concurrent calls into a single exchange; every
// caller receives the bearer token of the shared flight.
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}
