// Package session owns the client's session credential: a mutex-guarded
// in-memory TokenSet with synchronous, encrypted write-through persistence,
// and the access-token refresh policy on top of it.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/wirescope/internal/client/models"
	"github.com/dmitrijs2005/wirescope/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/wirescope/internal/common"
	"github.com/dmitrijs2005/wirescope/internal/cryptox"
	"github.com/dmitrijs2005/wirescope/internal/logging"

	"sync"
)

const storageSaltSize = 16

// LoadStorageKey derives the AES key protecting the persisted TokenSet from
// the per-install machine secret. The argon2 salt lives in the metadata
// store and is created on first use.
func LoadStorageKey(ctx context.Context, repo metadata.Repository, secret []byte) ([]byte, error) {
	salt, err := repo.Get(ctx, metadata.KeyStorageSalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(storageSaltSize)
		if err := repo.Set(ctx, metadata.KeyStorageSalt, salt); err != nil {
			return nil, err
		}
	}
	return cryptox.DeriveStorageKey(secret, salt), nil
}

// Store holds the only mutable TokenSet. All mutation happens under its
// lock, and every mutation writes through to the metadata repository before
// the in-memory state changes, so persisted and in-memory state never
// diverge.
type Store struct {
	mu     sync.Mutex
	tokens *models.TokenSet

	repo metadata.Repository
	key  []byte
	log  logging.Logger
}

// NewStore seeds the in-memory state from durable storage. Persisted state
// that cannot be decrypted or parsed is discarded with a warning; the client
// then starts logged out.
func NewStore(ctx context.Context, repo metadata.Repository, key []byte, log logging.Logger) (*Store, error) {
	s := &Store{repo: repo, key: key, log: log}

	sealed, err := repo.Get(ctx, metadata.KeyTokenSet)
	if err != nil {
		return nil, fmt.Errorf("load persisted session: %w", err)
	}
	if sealed == nil {
		return s, nil
	}

	plain, err := cryptox.Open(sealed, key)
	if err != nil {
		log.Warn(ctx, "discarding undecryptable persisted session", "error", err)
		return s, nil
	}
	defer common.WipeByteArray(plain)

	var ts models.TokenSet
	if err := json.Unmarshal(plain, &ts); err != nil {
		log.Warn(ctx, "discarding corrupt persisted session", "error", err)
		return s, nil
	}

	s.tokens = &ts
	return s, nil
}

// Set atomically replaces the TokenSet and its persisted mirror. A nil
// TokenSet means logged out and removes the persisted copy. If persisting
// fails the in-memory state is left unchanged.
func (s *Store) Set(ctx context.Context, ts *models.TokenSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts = ts.Clone()
	if err := s.persistLocked(ctx, ts); err != nil {
		return err
	}
	s.tokens = ts
	return nil
}

// Current returns a copy of the TokenSet, or nil when logged out.
func (s *Store) Current() *models.TokenSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Clone()
}

// persistLocked writes ts through to durable storage. Caller must hold s.mu.
func (s *Store) persistLocked(ctx context.Context, ts *models.TokenSet) error {
	if ts == nil {
		if err := s.repo.Delete(ctx, metadata.KeyTokenSet); err != nil {
			return fmt.Errorf("clear persisted session: %w", err)
		}
		return nil
	}

	plain, err := json.Marshal(ts)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	defer common.WipeByteArray(plain)

	sealed, err := cryptox.Seal(plain, s.key)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	if err := s.repo.Set(ctx, metadata.KeyTokenSet, sealed); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
