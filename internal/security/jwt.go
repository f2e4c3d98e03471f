package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The guard distinguishes exactly two verification failures: a structurally
// valid token whose exp has passed, and everything else.
var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("invalid token")
)

// Issue signs a stateless HS256 session token with sub/iat/exp claims.
func Issue(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

// Validate verifies the signature and decodes the claims. A valid signature
// with a passed exp yields ErrExpired; any other failure (bad signature,
// wrong method, garbage) yields ErrMalformed.
func Validate(secret, token string) (*jwt.RegisteredClaims, error) {
	c := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !t.Valid {
		return nil, ErrMalformed
	}
	return c, nil
}
