package earthengine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested for the platform session.
var scopes = []string{
	"https://www.googleapis.com/auth/earthengine",
	"https://www.googleapis.com/auth/cloud-platform",
}

// Authenticator owns the process-wide credential cache: a service-account key file
// exchanged for an access token, lazily refreshed by the token source. Forced
// reinitialization (after a platform failure) is serialized by a mutex so
// concurrent requests cannot race the exchange.
type Authenticator struct {
	keyFile string

	mu     sync.Mutex
	source oauth2.TokenSource
}

func NewAuthenticator(keyFile string) *Authenticator {
	return &Authenticator{keyFile: keyFile}
}

// Token returns a valid access token, initializing or refreshing as needed.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	src, err := a.tokenSource(ctx, false)
	if err != nil {
		return nil, err
	}
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	return tok, nil
}

// Reauthenticate discards the cached token source and performs a fresh exchange.
// Used when the platform rejects a session mid-request.
func (a *Authenticator) Reauthenticate(ctx context.Context) error {
	src, err := a.tokenSource(ctx, true)
	if err != nil {
		return err
	}
	if _, err := src.Token(); err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}
	return nil
}

// tokenSource returns the cached source, building it from the key file on first
// use or when force is set. The source outlives any single request, so it is
// bound to the background context rather than the caller's.
func (a *Authenticator) tokenSource(_ context.Context, force bool) (oauth2.TokenSource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.source != nil && !force {
		return a.source, nil
	}

	key, err := os.ReadFile(a.keyFile)
	if err != nil {
		return nil, fmt.Errorf("read service account key %s: %w", a.keyFile, err)
	}
	conf, err := google.JWTConfigFromJSON(key, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	// ReuseTokenSource caches the token and serializes refresh internally.
	a.source = oauth2.ReuseTokenSource(nil, conf.TokenSource(context.Background()))
	return a.source, nil
}
