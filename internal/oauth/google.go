package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	ggoogle "golang.org/x/oauth2/google"

	"github.com/tazhibayda/oauth-service/internal/domain"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

// Google exchanges through x/oauth2 because its wire shape is the standard
// one (grant_type + client credentials + redirect_uri as form fields) and
// the id_token arrives in the token response extras.
type Google struct {
	Conf        *oauth2.Config
	UserInfoURL string
	HTTP        *http.Client
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		Conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     ggoogle.Endpoint,
		},
		UserInfoURL: googleUserInfoURL,
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) AuthCodeURL(state string) string {
	return g.Conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *Google) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if g.HTTP != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.HTTP)
	}
	tok, err := g.Conf.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, &ExchangeError{
				Provider: g.Name(),
				Status:   re.Response.StatusCode,
				Body:     string(re.Body),
			}
		}
		return nil, &ExchangeError{Provider: g.Name(), Err: err}
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, &ExchangeError{Provider: g.Name(), Err: errors.New("no id_token in response")}
	}
	return &Token{AccessToken: tok.AccessToken, IDToken: idToken}, nil
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// FetchProfile calls the userinfo endpoint the way Google's v1 API expects:
// access token as a query parameter, id token as the bearer credential.
func (g *Google) FetchProfile(ctx context.Context, tok *Token) (*UserInfo, error) {
	u, err := url.Parse(g.UserInfoURL)
	if err != nil {
		return nil, &ProfileError{Provider: g.Name(), Err: err}
	}
	q := u.Query()
	q.Set("alt", "json")
	q.Set("access_token", tok.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ProfileError{Provider: g.Name(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+tok.IDToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient(g.HTTP).Do(req)
	if err != nil {
		return nil, &ProfileError{Provider: g.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProfileError{Provider: g.Name(), Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, &ProfileError{Provider: g.Name(), Err: err}
	}
	return &UserInfo{
		Name:     gu.Name,
		Email:    gu.Email,
		Photo:    gu.Picture,
		Provider: domain.ProviderGoogle,
	}, nil
}
