// Package auth verifies bearer tokens and enforces route-level access
// requirements.
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperrors "climate-router/internal/common/errors"
	"climate-router/internal/routing"
)

// Claims is the JWT payload this service issues and accepts.
type Claims struct {
	Grants []string `json:"grants,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller derived from a verified token.
type Principal struct {
	Subject string
	Grants  []string
}

// HasGrant reports whether the principal holds the named grant.
func (p *Principal) HasGrant(grant string) bool {
	for _, g := range p.Grants {
		if g == grant {
			return true
		}
	}
	return false
}

// Verifier validates HMAC-signed bearer tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens signed with the given secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a raw token string.
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.AuthError("unexpected token signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, apperrors.AuthError("invalid token").WithContext("reason", err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.AuthError("invalid token claims")
	}

	return &Principal{
		Subject: claims.Subject,
		Grants:  claims.Grants,
	}, nil
}

// FromRequest extracts and verifies the bearer token of an HTTP request.
// A missing Authorization header yields a nil principal with no error;
// whether that is acceptable depends on the matched route.
func (v *Verifier) FromRequest(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return nil, apperrors.AuthError("authorization header is not a bearer token")
	}
	return v.Verify(tokenString)
}

// Authorize checks the principal against a matched route's requirements.
// Public routes pass with or without a principal; token routes need a
// verified principal holding every required grant.
func Authorize(principal *Principal, route *routing.Route) error {
	if !route.RequiresToken() {
		return nil
	}
	if principal == nil {
		return apperrors.AuthError("authentication required").WithContext("route", route.Name)
	}
	for _, grant := range route.Grants {
		if !principal.HasGrant(grant) {
			return apperrors.ForbiddenError("missing required grant").
				WithContext("route", route.Name).
				WithContext("grant", grant)
		}
	}
	return nil
}
