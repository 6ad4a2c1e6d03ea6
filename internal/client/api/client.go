// Package api contains the transport-agnostic contract for the identity
// provider's endpoints used by the client: the refresh-token grant and the
// signed entitlement payload fetch. A concrete HTTPS implementation lives in
// http.go; tests substitute fakes.
//
// Common failure conditions are mapped to sentinel errors that callers can
// match with errors.Is: common.ErrUnauthorized (the provider rejected the
// credential) and common.ErrUnavailable (network failure or 5xx).
package api

import "context"

// TokenReply is the token endpoint's answer to a refresh-token grant.
type TokenReply struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// Client talks to the identity provider.
type Client interface {
	// RefreshToken exchanges a refresh token for a fresh access token.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenReply, error)

	// FetchUserData performs an authenticated GET against the entitlement
	// endpoint and returns the raw signed token from the response body.
	FetchUserData(ctx context.Context, accessToken string) (string, error)
}
