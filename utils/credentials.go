// Package utils provides credential helpers for DDI source adapters: a
// CredentialSource abstraction over static API keys and OAuth2 client
// credentials, and a pre-flight expiry check for JWT-shaped secrets.
package utils

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"
)

// CredentialSource resolves the Authorization header value for a request.
// Adapters call it per request so rotating credentials (OAuth2 tokens)
// stay fresh without rebuilding the adapter.
type CredentialSource func(ctx context.Context) (string, error)

// StaticCredential returns a CredentialSource that always yields the given
// secret. This is the common case for API-key based DDI services.
func StaticCredential(secret string) CredentialSource {
	return func(ctx context.Context) (string, error) {
		return secret, nil
	}
}

// NewOAuthCredentialSource returns a CredentialSource backed by the OAuth2
// client-credentials flow, for deployments that front the DDI service with
// a token-issuing gateway. Token caching and refresh are handled by the
// oauth2 package.
func NewOAuthCredentialSource(clientID, clientSecret, tokenURL string, scopes ...string) CredentialSource {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}
	return func(ctx context.Context) (string, error) {
		tok, err := conf.TokenSource(ctx).Token()
		if err != nil {
			return "", fmt.Errorf("fetch oauth2 token: %w", err)
		}
		return tok.Type() + " " + tok.AccessToken, nil
	}
}
