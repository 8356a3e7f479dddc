package httpkit

import (
	"errors"
	"net/http"
	"time"

	perr "tasker/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenFunc turns a raw bearer token into a user id
type TokenFunc func(token string) (userID string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the user id from an Authorization Bearer token
// a missing header, a malformed one or a rejected token are all unauthorized
func (p *Port) Parse(r *http.Request) (string, error) {
	raw, err := JWT(r)
	if err != nil {
		return "", err
	}
	if p == nil || p.parse == nil {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	uid, err := p.parse(raw)
	if err != nil || uid == "" {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return uid, nil
}

// JWTPort verifies HS256 tokens signed with secret, the subject is the user id
func JWTPort(secret []byte) *Port {
	return NewPortFunc(func(raw string) (string, error) {
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return "", err
		}
		if claims.Subject == "" {
			return "", errors.New("token has no subject")
		}
		return claims.Subject, nil
	})
}

// SignJWT issues an HS256 token for userID valid for ttl from now
// a zero ttl issues a token without expiry
func SignJWT(secret []byte, userID string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
		Issuer:   "tasker",
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
