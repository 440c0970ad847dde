package token

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"

	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

// Credential file keys. The same keys are mirrored into the process
// environment so configuration re-reads observe refreshed tokens.
const (
	EnvBearerToken  = "BEARER_TOKEN"
	EnvRefreshToken = "REFRESH_TOKEN"
)

// ErrStateDirMissing is returned by Update when the directory that should
// hold the credential file does not exist. The in-memory tokens are already
// committed at that point; persistence is best effort.
var ErrStateDirMissing = goerr.New("credential file directory does not exist")

// Store holds the bearer/refresh token pair for the carrier API. The
// in-memory copy is authoritative for the process lifetime; Update also
// persists the pair to a line-oriented KEY=value file so a restart picks up
// rotated tokens.
type Store struct {
	mu      sync.Mutex
	path    string
	bearer  string
	refresh string
}

// NewStore creates a Store seeded with the configured token pair. path is
// the credential file updated on refresh.
func NewStore(path, bearer, refresh string) *Store {
	return &Store{
		path:    path,
		bearer:  bearer,
		refresh: refresh,
	}
}

// BearerToken returns the current bearer token
func (s *Store) BearerToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bearer
}

// RefreshToken returns the current refresh token
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// Update commits the new token pair. The in-memory copy and the process
// environment are always updated; file persistence failures are reported but
// never roll the commit back, so the current process keeps working with the
// fresh tokens even on a read-only filesystem. The durability gap (a restart
// loses tokens that could not be written) is accepted.
func (s *Store) Update(ctx context.Context, bearer, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bearer = bearer
	s.refresh = refresh
	os.Setenv(EnvBearerToken, bearer)
	os.Setenv(EnvRefreshToken, refresh)

	return s.persist(ctx)
}

// persist writes the pair to the credential file, preserving unrelated keys.
// Caller holds s.mu.
func (s *Store) persist(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return goerr.Wrap(ErrStateDirMissing, "cannot persist tokens", goerr.V("dir", dir))
		}
		return goerr.Wrap(err, "failed to stat credential file directory", goerr.V("dir", dir))
	}

	values, err := godotenv.Read(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return goerr.Wrap(err, "failed to read credential file", goerr.V("path", s.path))
		}
		logging.From(ctx).Warn("credential file not found, creating it", "path", s.path)
		values = map[string]string{}
	}

	values[EnvBearerToken] = s.bearer
	values[EnvRefreshToken] = s.refresh

	if err := writeEnvFile(s.path, values); err != nil {
		return goerr.Wrap(err, "failed to write credential file", goerr.V("path", s.path))
	}

	logging.From(ctx).Info("credential file updated", "path", s.path)
	return nil
}

// writeEnvFile serializes values as unquoted KEY=value lines in key order.
// godotenv.Write is not used because it quotes values; the file is shared
// with tooling that expects the unquoted form.
func writeEnvFile(path string, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, values[k])
	}

	return os.WriteFile(path, []byte(b.String()), 0600)
}
