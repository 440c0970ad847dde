package config

import "github.com/m-mizutani/goerr/v2"

// ErrMissingConfig is returned when required settings are absent. Startup
// fails fast on it rather than running partially configured.
var ErrMissingConfig = goerr.New("missing required configuration")
