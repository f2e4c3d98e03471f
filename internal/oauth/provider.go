package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Token is the credential set returned by a provider's token endpoint.
// IDToken is populated by Google only; the other providers return just an
// access token.
type Token struct {
	AccessToken string
	IDToken     string
}

// UserInfo is the provider-agnostic profile produced by FetchProfile and
// consumed once by the identity store. Photo is empty when the provider
// reported none.
type UserInfo struct {
	Name     string
	Email    string
	Photo    string
	Provider string
}

// Provider is implemented once per external identity provider. Exchange and
// fetch are single-attempt: authorization codes are single-use, so retrying
// an exchange with the same code is guaranteed to fail.
type Provider interface {
	// Name returns the provider tag used in callback paths (e.g. "google").
	Name() string

	// AuthCodeURL returns the provider authorization URL for the given state.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges the authorization code for provider credentials.
	ExchangeCode(ctx context.Context, code string) (*Token, error)

	// FetchProfile fetches and normalizes the provider's user profile.
	FetchProfile(ctx context.Context, tok *Token) (*UserInfo, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(list ...Provider) *Registry {
	m := make(map[string]Provider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}

// ExchangeError reports a failed token exchange: a transport failure, a
// non-success upstream status, or an undecodable payload. Status is 0 when
// no HTTP response was received.
type ExchangeError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s token exchange: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s token exchange: status %d: %s", e.Provider, e.Status, e.Body)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// ProfileError reports a failed or undecodable profile fetch.
type ProfileError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *ProfileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s profile fetch: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s profile fetch: status %d: %s", e.Provider, e.Status, e.Body)
}

func (e *ProfileError) Unwrap() error { return e.Err }

const userAgent = "oauth-service"

// readBody drains a response body for inclusion in an error. Best effort.
func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	return string(b)
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
