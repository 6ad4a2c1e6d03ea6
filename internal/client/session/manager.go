package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wirescope/internal/client/api"
	"github.com/dmitrijs2005/wirescope/internal/common"
	"github.com/dmitrijs2005/wirescope/internal/logging"
)

// Default refresh policy thresholds.
const (
	DefaultRefreshAhead = 10 * time.Minute
	DefaultBlockWindow  = 5 * time.Second
)

// Refresher exchanges a refresh token for a fresh access token. Satisfied by
// api.Client.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*api.TokenReply, error)
}

// refreshOp is a single in-flight refresh shared by all interested callers.
// token/err are published before done is closed.
type refreshOp struct {
	done  chan struct{}
	token string
	err   error
}

// Manager implements the access-token policy on top of the Store:
//
//   - logged out: fail with common.ErrNoSession, without touching the refresher;
//   - more than refreshAhead to expiry: return the cached token;
//   - inside refreshAhead: return the cached token and refresh in the
//     background (at most one refresh in flight);
//   - inside blockWindow (token effectively unusable): wait for the refresh
//     and return its result.
//
// The policy is evaluated atomically under the store's lock, so concurrent
// callers never race on a half-updated TokenSet.
type Manager struct {
	store     *Store
	refresher Refresher
	log       logging.Logger

	refreshAhead time.Duration
	blockWindow  time.Duration
	now          func() time.Time

	// refreshing is guarded by store.mu.
	refreshing *refreshOp
}

func NewManager(store *Store, refresher Refresher, refreshAhead, blockWindow time.Duration, log logging.Logger) *Manager {
	if refreshAhead <= 0 {
		refreshAhead = DefaultRefreshAhead
	}
	if blockWindow <= 0 {
		blockWindow = DefaultBlockWindow
	}
	return &Manager{
		store:        store,
		refresher:    refresher,
		log:          log,
		refreshAhead: refreshAhead,
		blockWindow:  blockWindow,
		now:          time.Now,
	}
}

// AccessToken returns a usable access token, applying the refresh policy.
// It fails with common.ErrNoSession when logged out and with
// common.ErrRefreshFailed when the token is about to expire and the refresh
// could not produce a replacement.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.store.mu.Lock()

	t := m.store.tokens
	if t == nil {
		m.store.mu.Unlock()
		return "", common.ErrNoSession
	}

	ttl := t.AccessTokenExpiry.Sub(m.now())

	var op *refreshOp
	if ttl < m.refreshAhead {
		op = m.ensureRefreshLocked()
	}

	if ttl > m.blockWindow {
		// Possibly soon-stale, but still valid: hand it out immediately and
		// let any refresh complete in the background.
		token := t.AccessToken
		m.store.mu.Unlock()
		return token, nil
	}

	if op == nil {
		op = m.ensureRefreshLocked()
	}
	m.store.mu.Unlock()

	select {
	case <-op.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if op.err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrRefreshFailed, op.err)
	}
	return op.token, nil
}

// ensureRefreshLocked starts a refresh for the current refresh token unless
// one is already in flight. Caller must hold store.mu.
func (m *Manager) ensureRefreshLocked() *refreshOp {
	if m.refreshing != nil {
		return m.refreshing
	}

	op := &refreshOp{done: make(chan struct{})}
	m.refreshing = op
	go m.runRefresh(op, m.store.tokens.RefreshToken)
	return op
}

// runRefresh performs the token-endpoint exchange and writes the result back
// under the store's lock. The write is skipped when the session was
// superseded meanwhile (logout, or a new login with a different refresh
// token): a stale refresh result must never resurrect a logged-out session.
func (m *Manager) runRefresh(op *refreshOp, refreshToken string) {
	ctx := context.Background()

	var (
		reply *api.TokenReply
		err   error
	)
	if refreshToken == "" {
		err = errors.New("no refresh token")
	} else {
		reply, err = m.refresher.RefreshToken(ctx, refreshToken)
	}

	m.store.mu.Lock()
	m.refreshing = nil

	if err == nil {
		switch {
		case m.store.tokens == nil || m.store.tokens.RefreshToken != refreshToken:
			err = common.ErrSessionSuperseded
		default:
			next := m.store.tokens.Clone()
			next.AccessToken = reply.AccessToken
			next.AccessTokenExpiry = m.now().Add(time.Duration(reply.ExpiresIn) * time.Second)
			if perr := m.store.persistLocked(ctx, next); perr != nil {
				m.log.Warn(ctx, "failed to persist refreshed session", "error", perr)
			}
			m.store.tokens = next
			op.token = next.AccessToken
		}
	}
	m.store.mu.Unlock()

	if err != nil {
		op.err = err
		m.log.Warn(ctx, "token refresh failed", "error", err)
	}
	close(op.done)
}
