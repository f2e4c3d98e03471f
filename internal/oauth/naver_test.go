package oauth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tazhibayda/oauth-service/internal/oauth"
)

func TestNaver_ExchangeWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		for k, want := range map[string]string{
			"grant_type":    "authorization_code",
			"client_id":     "cid",
			"client_secret": "csec",
			"redirect_uri":  "http://localhost:8080/cb",
			"code":          "code",
		} {
			if got := r.Form.Get(k); got != want {
				t.Errorf("%s = %q, want %q", k, got, want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"nv-at","token_type":"bearer"}`))
	}))
	defer srv.Close()

	n := oauth.NewNaver("cid", "csec", "http://localhost:8080/cb")
	n.Conf.Endpoint.TokenURL = srv.URL
	n.HTTP = srv.Client()

	tok, err := n.ExchangeCode(context.Background(), "code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if tok.AccessToken != "nv-at" {
		t.Fatalf("token = %+v", tok)
	}
}

func TestNaver_ExchangeInvalidCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	n := oauth.NewNaver("cid", "csec", "")
	n.Conf.Endpoint.TokenURL = srv.URL
	n.HTTP = srv.Client()

	_, err := n.ExchangeCode(context.Background(), "expired")
	var xe *oauth.ExchangeError
	if !errors.As(err, &xe) {
		t.Fatalf("want ExchangeError, got %T: %v", err, err)
	}
}

func TestNaver_Profile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer nv-at" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultcode": "00",
			"message": "success",
			"response": {
				"id": "nid-1",
				"nickname": "mj",
				"email": "mj@naver.com",
				"profile_image": "http://img/mj.png"
			}
		}`))
	}))
	defer srv.Close()

	n := oauth.NewNaver("cid", "csec", "")
	n.UserURL = srv.URL
	n.HTTP = srv.Client()

	info, err := n.FetchProfile(context.Background(), &oauth.Token{AccessToken: "nv-at"})
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if info.Name != "mj" || info.Email != "mj@naver.com" || info.Photo != "http://img/mj.png" {
		t.Fatalf("info = %+v", info)
	}
	if info.Provider != "Naver" {
		t.Fatalf("provider = %q", info.Provider)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := oauth.NewRegistry(oauth.NewNaver("cid", "csec", ""))
	if _, err := r.Get("naver"); err != nil {
		t.Fatalf("naver should resolve: %v", err)
	}
	if _, err := r.Get("facebook"); err == nil {
		t.Fatal("unknown provider must not resolve")
	}
}
