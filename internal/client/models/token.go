// Package models defines the session and entitlement value types shared by
// the client's auth components.
package models

import "time"

// TokenSet is the authoritative session credential: a long-lived refresh
// token plus the current access token and its absolute expiry. A nil
// *TokenSet means logged out.
//
// The session store owns the only mutable instance; everything else works
// with copies.
type TokenSet struct {
	RefreshToken      string    `json:"refresh_token"`
	AccessToken       string    `json:"access_token"`
	AccessTokenExpiry time.Time `json:"access_token_expiry"`
}

// Clone returns an independent copy, nil-safe.
func (t *TokenSet) Clone() *TokenSet {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
