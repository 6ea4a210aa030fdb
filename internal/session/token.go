// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package session verifies the auth provider's JWT access tokens and turns
// them into sessions. Sign-up and sign-in live in the external provider; this
// package only consumes the tokens it issues.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/knagano/go-meal-log/models"
)

// ErrInvalidToken is returned when a token fails signature, issuer or
// expiration checks, or carries no subject.
var ErrInvalidToken = errors.New("invalid session token")

// tokenClaims is the claim set carried by the provider's access tokens:
// the registered claims plus the subscription plan.
type tokenClaims struct {
	jwt.RegisteredClaims
	Plan string `json:"plan,omitempty"`
}

// TokenParser validates HMAC-SHA256 access tokens against a shared secret
// and an expected issuer.
type TokenParser struct {
	signKey string
	issuer  string
}

// NewTokenParser returns a parser bound to the given verification key and
// expected issuer. Both are required.
func NewTokenParser(signKey, issuer string) (*TokenParser, error) {
	if signKey == "" || issuer == "" {
		return nil, errors.New("token sign key and issuer are required")
	}
	return &TokenParser{signKey: signKey, issuer: issuer}, nil
}

// Parse validates tokenString and extracts the session. Validation covers
// the signature, the issuer claim and expiration; the subject claim becomes
// the session's UserID and the plan claim its Plan. Any failure is reported
// as [ErrInvalidToken].
func (p *TokenParser) Parse(tokenString string) (models.Session, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(p.signKey), nil
	},
		jwt.WithIssuer(p.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return models.Session{}, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	return models.Session{
		UserID:        claims.Subject,
		Authenticated: true,
		Plan:          claims.Plan,
	}, nil
}

// ParseBearerToken extracts the raw token from an Authorization header
// value of the form "Bearer <token>".
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
