package security_test

import (
	"errors"
	"testing"
	"time"

	"github.com/tazhibayda/oauth-service/internal/security"
)

const secret = "test-secret"

func TestIssueValidate_RoundTrip(t *testing.T) {
	for _, sub := range []string{"u1", "a-b-c-d", ""} {
		tok, err := security.Issue(secret, sub, time.Minute)
		if err != nil {
			t.Fatalf("issue(%q): %v", sub, err)
		}
		claims, err := security.Validate(secret, tok)
		if err != nil {
			t.Fatalf("validate(%q): %v", sub, err)
		}
		if claims.Subject != sub {
			t.Fatalf("sub = %q, want %q", claims.Subject, sub)
		}
		if claims.IssuedAt == nil || claims.ExpiresAt == nil {
			t.Fatal("iat/exp missing")
		}
	}
}

func TestValidate_Expired(t *testing.T) {
	tok, err := security.Issue(secret, "u1", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	_, err = security.Validate(secret, tok)
	if !errors.Is(err, security.ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	good, err := security.Issue(secret, "u1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"garbage":      "not-a-jwt",
		"empty":        "",
		"truncated":    good[:len(good)-5] + "xxxxx",
		"wrong secret": mustIssue(t, "other-secret", "u1"),
	}
	for name, tok := range cases {
		if _, err := security.Validate(secret, tok); !errors.Is(err, security.ErrMalformed) {
			t.Errorf("%s: err = %v, want ErrMalformed", name, err)
		}
	}
}

func mustIssue(t *testing.T, secret, sub string) string {
	t.Helper()
	tok, err := security.Issue(secret, sub, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}
