package http_test

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/oauth-service/internal/config"
	api "github.com/tazhibayda/oauth-service/internal/http"
	"github.com/tazhibayda/oauth-service/internal/oauth"
	"github.com/tazhibayda/oauth-service/internal/queue"
	"github.com/tazhibayda/oauth-service/internal/repo"
)

const (
	testSecret = "test-secret"
	testOrigin = "http://localhost:3000"
)

type testEnv struct {
	Store  *repo.Store
	Router *gin.Engine
}

// newTestEnv wires a router around an in-memory store and the given
// providers. No redis, no broker.
func newTestEnv(t *testing.T, providers ...oauth.Provider) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repo.NewStore()
	cfg := config.Config{
		ClientOrigin:   testOrigin,
		JWTSecret:      testSecret,
		TokenMaxAgeMin: 60,
	}
	h := api.NewHandler(store, oauth.NewRegistry(providers...), cfg, nil, queue.NewNoop())
	return &testEnv{Store: store, Router: api.NewRouter(h)}
}

// stubProvider satisfies oauth.Provider without any network I/O.
type stubProvider struct {
	name        string
	tok         *oauth.Token
	info        *oauth.UserInfo
	exchangeErr error
	profileErr  error

	exchangeCalled bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (s *stubProvider) ExchangeCode(ctx context.Context, code string) (*oauth.Token, error) {
	s.exchangeCalled = true
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return s.tok, nil
}

func (s *stubProvider) FetchProfile(ctx context.Context, tok *oauth.Token) (*oauth.UserInfo, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.info, nil
}
