package mcp

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// ErrUnauthorized is returned when the carrier API answers 401. The bearer
// token has expired or been revoked; the caller may refresh and retry once.
var ErrUnauthorized = goerr.New("carrier API rejected the bearer token")

// StatusError is returned for non-401 error statuses from the carrier API
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("carrier API returned status %d", e.Code)
}
