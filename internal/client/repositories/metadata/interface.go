// Package metadata implements the client's durable key-value store. It holds
// the sealed session credential, the storage salt, and the last successfully
// fetched entitlement token.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyTokenSet         = "token_set"         // sealed TokenSet JSON
	KeyStorageSalt      = "storage_salt"      // argon2 salt for the storage key
	KeyEntitlementToken = "entitlement_token" // raw last-known signed entitlement token
)

// Repository is a durable string-keyed byte store. Get returns (nil, nil)
// for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
