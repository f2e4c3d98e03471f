package oauth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/tazhibayda/oauth-service/internal/oauth"
)

func newGoogle(t *testing.T, tokenSrv, profileSrv *httptest.Server) *oauth.Google {
	t.Helper()
	g := oauth.NewGoogle("cid", "csec", "http://localhost:8080/api/sessions/oauth/google")
	if tokenSrv != nil {
		g.Conf.Endpoint = oauth2.Endpoint{
			AuthURL:   tokenSrv.URL + "/auth",
			TokenURL:  tokenSrv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}
		g.HTTP = tokenSrv.Client()
	}
	if profileSrv != nil {
		g.UserInfoURL = profileSrv.URL + "/userinfo"
		g.HTTP = profileSrv.Client()
	}
	return g
}

func TestGoogle_ExchangeInvalidCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	g := newGoogle(t, srv, nil)
	_, err := g.ExchangeCode(context.Background(), "expired-code")
	var xe *oauth.ExchangeError
	if !errors.As(err, &xe) {
		t.Fatalf("want ExchangeError, got %T: %v", err, err)
	}
	if xe.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", xe.Status)
	}
}

func TestGoogle_ExchangeMissingIDToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","token_type":"bearer"}`))
	}))
	defer srv.Close()

	g := newGoogle(t, srv, nil)
	_, err := g.ExchangeCode(context.Background(), "code")
	var xe *oauth.ExchangeError
	if !errors.As(err, &xe) {
		t.Fatalf("want ExchangeError for missing id_token, got %v", err)
	}
}

func TestGoogle_ExchangeAndProfile(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.Form.Get("grant_type"); got != "authorization_code" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.Form.Get("code"); got != "good-code" {
			t.Errorf("code = %q", got)
		}
		if r.Form.Get("redirect_uri") == "" {
			t.Error("redirect_uri missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","token_type":"bearer","id_token":"idt-1"}`))
	}))
	defer tokenSrv.Close()

	g := newGoogle(t, tokenSrv, nil)
	tok, err := g.ExchangeCode(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if tok.AccessToken != "at-1" || tok.IDToken != "idt-1" {
		t.Fatalf("token = %+v", tok)
	}

	profileSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("access_token"); got != "at-1" {
			t.Errorf("access_token query = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer idt-1" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","email":"a@x.com","verified_email":true,"name":"Alice","picture":"http://img/a.png"}`))
	}))
	defer profileSrv.Close()

	g = newGoogle(t, nil, profileSrv)
	info, err := g.FetchProfile(context.Background(), tok)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if info.Name != "Alice" || info.Email != "a@x.com" || info.Photo != "http://img/a.png" {
		t.Fatalf("info = %+v", info)
	}
	if info.Provider != "Google" {
		t.Fatalf("provider = %q", info.Provider)
	}
}

func TestGoogle_ProfileUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer srv.Close()

	g := newGoogle(t, nil, srv)
	_, err := g.FetchProfile(context.Background(), &oauth.Token{AccessToken: "bad", IDToken: "bad"})
	var pe *oauth.ProfileError
	if !errors.As(err, &pe) {
		t.Fatalf("want ProfileError, got %v", err)
	}
	if pe.Status != http.StatusUnauthorized || pe.Body == "" {
		t.Fatalf("error = %+v", pe)
	}
}
