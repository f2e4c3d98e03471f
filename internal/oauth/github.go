package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	ghendpoint "golang.org/x/oauth2/github"

	"github.com/tazhibayda/oauth-service/internal/domain"
)

const githubUserURL = "https://api.github.com/user"

// GitHub's token endpoint takes only client_id, client_secret and code —
// no grant_type, no redirect_uri — so the exchange is a plain form POST
// rather than an x/oauth2 Exchange.
type GitHub struct {
	Conf    *oauth2.Config
	UserURL string
	HTTP    *http.Client
}

func NewGitHub(clientID, clientSecret, redirectURL string) *GitHub {
	return &GitHub{
		Conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     ghendpoint.Endpoint,
		},
		UserURL: githubUserURL,
	}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) AuthCodeURL(state string) string {
	return g.Conf.AuthCodeURL(state)
}

type basicToken struct {
	AccessToken string `json:"access_token"`
}

func (g *GitHub) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{
		"client_id":     {g.Conf.ClientID},
		"client_secret": {g.Conf.ClientSecret},
		"code":          {code},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Conf.Endpoint.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ExchangeError{Provider: g.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(g.HTTP).Do(req)
	if err != nil {
		return nil, &ExchangeError{Provider: g.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExchangeError{Provider: g.Name(), Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var tok basicToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, &ExchangeError{Provider: g.Name(), Err: err}
	}
	return &Token{AccessToken: tok.AccessToken}, nil
}

type githubUser struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"` // may be null upstream; passes through empty
}

func (g *GitHub) FetchProfile(ctx context.Context, tok *Token) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserURL, nil)
	if err != nil {
		return nil, &ProfileError{Provider: g.Name(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient(g.HTTP).Do(req)
	if err != nil {
		return nil, &ProfileError{Provider: g.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProfileError{Provider: g.Name(), Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, &ProfileError{Provider: g.Name(), Err: err}
	}
	return &UserInfo{
		Name:     gu.Login,
		Email:    gu.Email,
		Photo:    gu.AvatarURL,
		Provider: domain.ProviderGitHub,
	}, nil
}
