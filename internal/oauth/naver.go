package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/tazhibayda/oauth-service/internal/domain"
)

const (
	naverAuthURL  = "https://nid.naver.com/oauth2.0/authorize"
	naverTokenURL = "https://nid.naver.com/oauth2.0/token"
	naverUserURL  = "https://openapi.naver.com/v1/nid/me"
)

// Naver wraps the profile payload in a {resultcode, message, response}
// envelope; the fields of interest live under response.
type Naver struct {
	Conf    *oauth2.Config
	UserURL string
	HTTP    *http.Client
}

func NewNaver(clientID, clientSecret, redirectURL string) *Naver {
	return &Naver{
		Conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oauth2.Endpoint{AuthURL: naverAuthURL, TokenURL: naverTokenURL},
		},
		UserURL: naverUserURL,
	}
}

func (n *Naver) Name() string { return "naver" }

func (n *Naver) AuthCodeURL(state string) string {
	return n.Conf.AuthCodeURL(state)
}

func (n *Naver) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {n.Conf.ClientID},
		"client_secret": {n.Conf.ClientSecret},
		"redirect_uri":  {n.Conf.RedirectURL},
		"code":          {code},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Conf.Endpoint.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ExchangeError{Provider: n.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient(n.HTTP).Do(req)
	if err != nil {
		return nil, &ExchangeError{Provider: n.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExchangeError{Provider: n.Name(), Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var tok basicToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, &ExchangeError{Provider: n.Name(), Err: err}
	}
	return &Token{AccessToken: tok.AccessToken}, nil
}

type naverUser struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Nickname     string `json:"nickname"`
		Email        string `json:"email"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

func (n *Naver) FetchProfile(ctx context.Context, tok *Token) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.UserURL, nil)
	if err != nil {
		return nil, &ProfileError{Provider: n.Name(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient(n.HTTP).Do(req)
	if err != nil {
		return nil, &ProfileError{Provider: n.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProfileError{Provider: n.Name(), Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var nu naverUser
	if err := json.NewDecoder(resp.Body).Decode(&nu); err != nil {
		return nil, &ProfileError{Provider: n.Name(), Err: err}
	}
	return &UserInfo{
		Name:     nu.Response.Nickname,
		Email:    nu.Response.Email,
		Photo:    nu.Response.ProfileImage,
		Provider: domain.ProviderNaver,
	}, nil
}
