package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wirescope/internal/client/models"
	"github.com/dmitrijs2005/wirescope/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/wirescope/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memRepo implements metadata.Repository in memory for unit tests.
type memRepo struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemRepo() *memRepo {
	return &memRepo{m: make(map[string][]byte)}
}

func (r *memRepo) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (r *memRepo) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = append([]byte(nil), value...)
	return nil
}

func (r *memRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, key)
	return nil
}

func (r *memRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = make(map[string][]byte)
	return nil
}

var _ metadata.Repository = (*memRepo)(nil)

func testKey(t *testing.T, ctx context.Context, repo metadata.Repository) []byte {
	t.Helper()
	key, err := LoadStorageKey(ctx, repo, []byte("machine-secret"))
	require.NoError(t, err)
	return key
}

// ---- TESTS ----

func TestStore_SetPersistsAndSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	key := testKey(t, ctx, repo)

	s, err := NewStore(ctx, repo, key, testLogger())
	require.NoError(t, err)
	require.Nil(t, s.Current())

	ts := &models.TokenSet{
		RefreshToken:      "R",
		AccessToken:       "A",
		AccessTokenExpiry: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Set(ctx, ts))

	// Simulated process restart: a fresh store over the same repository and
	// the same derived key must see the same TokenSet.
	s2, err := NewStore(ctx, repo, testKey(t, ctx, repo), testLogger())
	require.NoError(t, err)
	require.Equal(t, ts, s2.Current())
}

func TestStore_PersistedFormIsSealed(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	key := testKey(t, ctx, repo)

	s, err := NewStore(ctx, repo, key, testLogger())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, &models.TokenSet{RefreshToken: "topsecret-refresh", AccessToken: "topsecret-access"}))

	sealed, err := repo.Get(ctx, metadata.KeyTokenSet)
	require.NoError(t, err)
	require.NotNil(t, sealed)
	require.NotContains(t, string(sealed), "topsecret-refresh")
	require.NotContains(t, string(sealed), "topsecret-access")
}

func TestStore_SetNilClearsPersistedState(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	key := testKey(t, ctx, repo)

	s, err := NewStore(ctx, repo, key, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, &models.TokenSet{RefreshToken: "R", AccessToken: "A"}))

	require.NoError(t, s.Set(ctx, nil))
	require.Nil(t, s.Current())

	v, err := repo.Get(ctx, metadata.KeyTokenSet)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestNewStore_CorruptPersistedStateStartsLoggedOut(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	key := testKey(t, ctx, repo)

	require.NoError(t, repo.Set(ctx, metadata.KeyTokenSet, []byte("not a sealed blob")))

	s, err := NewStore(ctx, repo, key, testLogger())
	require.NoError(t, err)
	require.Nil(t, s.Current())
}

func TestNewStore_WrongKeyStartsLoggedOut(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	key := testKey(t, ctx, repo)

	s, err := NewStore(ctx, repo, key, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, &models.TokenSet{RefreshToken: "R", AccessToken: "A"}))

	other, err := LoadStorageKey(ctx, repo, []byte("another-machine"))
	require.NoError(t, err)

	s2, err := NewStore(ctx, repo, other, testLogger())
	require.NoError(t, err)
	require.Nil(t, s2.Current())
}

func TestLoadStorageKey_SaltIsCreatedOnceAndStable(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()

	k1, err := LoadStorageKey(ctx, repo, []byte("secret"))
	require.NoError(t, err)
	k2, err := LoadStorageKey(ctx, repo, []byte("secret"))
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	salt, err := repo.Get(ctx, metadata.KeyStorageSalt)
	require.NoError(t, err)
	require.Len(t, salt, storageSaltSize)
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	key := testKey(t, ctx, repo)

	s, err := NewStore(ctx, repo, key, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, &models.TokenSet{RefreshToken: "R", AccessToken: "A"}))

	c := s.Current()
	c.AccessToken = "mutated"
	require.Equal(t, "A", s.Current().AccessToken)
}
