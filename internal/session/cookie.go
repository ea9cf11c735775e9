package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCookie covers tampered, malformed and expired cookies.
var ErrInvalidCookie = errors.New("invalid session cookie")

// claims is the payload of the session cookie.  Only the session id
// travels to the browser; the bearer token stays server side.
type claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Cookie signs and verifies the session cookie as an HS256 JWT.
type Cookie struct {
	Name   string
	Secret []byte
	Secure bool
}

// Sign returns the cookie value naming sid, valid until exp.
func (c Cookie) Sign(sid string, exp time.Time) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := t.SignedString(c.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// Verify returns the session id carried by raw.
func (c Cookie) Verify(raw string) (string, error) {
	var cl claims
	tok, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCookie
		}
		return c.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || cl.SID == "" {
		return "", ErrInvalidCookie
	}
	return cl.SID, nil
}

// Write sets the signed cookie on w.
func (c Cookie) Write(w http.ResponseWriter, sid string, exp time.Time) error {
	value, err := c.Sign(sid, exp)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns the session id from the request cookie.
func (c Cookie) Read(r *http.Request) (string, error) {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return "", ErrInvalidCookie
	}
	return c.Verify(ck.Value)
}

// Clear expires the cookie.
func (c Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenExpiry reads the `exp` claim of a backend bearer token without
// verifying its signature; the dashboard does not hold the backend key.
func TokenExpiry(token string) (time.Time, bool) {
	var cl jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &cl); err != nil {
		return time.Time{}, false
	}
	if cl.ExpiresAt == nil {
		return time.Time{}, false
	}
	return cl.ExpiresAt.Time, true
}
