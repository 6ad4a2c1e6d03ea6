// Package userdata fetches, verifies, and decodes the signed entitlement
// payload describing the user's email and subscription, with a
// last-known-good fallback when a fresh fetch fails.
package userdata

import (
	"crypto/rsa"
	_ "embed"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wirescope/internal/client/models"
	"github.com/dmitrijs2005/wirescope/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultPublicKeyPEM is the entitlement signing key shipped with the
// deployed binary.
//
//go:embed entitlement_key.pem
var DefaultPublicKeyPEM []byte

// EntitlementClaims is the decoded payload of the signed entitlement token.
// Transient: reconstructed from wire bytes on every parse.
type EntitlementClaims struct {
	jwt.RegisteredClaims
	Email              string           `json:"email"`
	SubscriptionID     int64            `json:"subscription_id"`
	SubscriptionPlanID int64            `json:"subscription_plan_id"`
	SubscriptionExpiry *jwt.NumericDate `json:"subscription_expiry"`
}

// Verifier checks entitlement tokens: RS256 signature against a fixed public
// key plus audience and issuer claims.
type Verifier struct {
	key      *rsa.PublicKey
	audience string
	issuer   string
}

func NewVerifier(publicKeyPEM []byte, audience, issuer string) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse entitlement public key: %w", err)
	}
	return &Verifier{key: key, audience: audience, issuer: issuer}, nil
}

// Parse verifies tokenString and returns its claims. Any signature, claim,
// or format problem is reported as common.ErrInvalidToken.
func (v *Verifier) Parse(tokenString string) (*EntitlementClaims, error) {
	claims := &EntitlementClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// UserFromClaims projects verified claims into the UI-safe User value. The
// subscription is included only when the plan id resolves to a known plan
// and both the subscription id and expiry are present; otherwise the whole
// subscription field stays absent.
func UserFromClaims(c *EntitlementClaims) models.User {
	u := models.User{Email: c.Email}

	plan, ok := models.PlanFromID(c.SubscriptionPlanID)
	if !ok || c.SubscriptionID == 0 || c.SubscriptionExpiry == nil {
		return u
	}
	expiry := c.SubscriptionExpiry.Time
	if expiry.IsZero() || expiry.Equal(time.Unix(0, 0)) {
		return u
	}

	u.Subscription = &models.Subscription{
		ID:     c.SubscriptionID,
		Plan:   plan,
		Expiry: expiry,
	}
	return u
}
