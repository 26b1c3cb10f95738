// Package middleware provides HTTP middleware: bearer-token
// authentication, request IDs, and per-client rate limiting.
package middleware

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims holds the identity claims extracted from a validated token.
// Subject carries the account id for locally-issued tokens; externally
// issued tokens fall back to the email claim for account resolution.
type TokenClaims struct {
	Subject string
	Issuer  string
	Email   string
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*TokenClaims, error)
}

// HS256Validator validates tokens signed with a shared HS256 secret.
// This is the local/dev issuance path (see groceryctl token mint).
type HS256Validator struct {
	secret []byte
}

// NewHS256Validator creates a validator for HS256 tokens.
func NewHS256Validator(secret string) (*HS256Validator, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	return &HS256Validator{secret: []byte(secret)}, nil
}

// Validate verifies an HS256 signature and extracts the claims.
func (v *HS256Validator) Validate(_ context.Context, token string) (*TokenClaims, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	raw, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("parse claims: unsupported claim type %T", tok.Claims)
	}

	claims := &TokenClaims{}
	claims.Subject, _ = raw["sub"].(string)
	claims.Issuer, _ = raw["iss"].(string)
	claims.Email, _ = raw["email"].(string)
	if claims.Subject == "" && claims.Email == "" {
		return nil, fmt.Errorf("token carries neither sub nor email claim")
	}
	return claims, nil
}

// OIDCValidator validates tokens against an external identity provider
// via OIDC discovery and JWKS.
type OIDCValidator struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCValidator creates a validator from an OIDC issuer URL.
func NewOIDCValidator(ctx context.Context, issuerURL, audience string) (*OIDCValidator, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: audience})
	return &OIDCValidator{verifier: verifier}, nil
}

// Validate verifies the token against the provider's JWKS.
func (v *OIDCValidator) Validate(ctx context.Context, token string) (*TokenClaims, error) {
	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var raw map[string]interface{}
	if err := idToken.Claims(&raw); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	claims := &TokenClaims{
		Subject: idToken.Subject,
		Issuer:  idToken.Issuer,
	}
	claims.Email, _ = raw["email"].(string)
	return claims, nil
}
