package userdata

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/wirescope/internal/client/events"
	"github.com/dmitrijs2005/wirescope/internal/client/models"
	"github.com/dmitrijs2005/wirescope/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/wirescope/internal/common"
	"github.com/dmitrijs2005/wirescope/internal/logging"
)

// TokenSource yields a usable access token, refreshing if needed.
// Satisfied by session.Manager.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Endpoint fetches the raw signed entitlement token. Satisfied by api.Client.
type Endpoint interface {
	FetchUserData(ctx context.Context, accessToken string) (string, error)
}

// ErrorReporter forwards failures to an external collector, fire-and-forget.
type ErrorReporter interface {
	Report(ctx context.Context, err error)
}

// Service implements the entitlement data operations.
//
// GetLatestUserData never fails its caller: any fetch or verification
// problem is reported, broadcast as an authorization_error event, and
// answered with the last successfully fetched data instead.
type Service struct {
	tokens   TokenSource
	endpoint Endpoint
	repo     metadata.Repository
	verifier *Verifier
	bus      *events.Bus
	reporter ErrorReporter
	log      logging.Logger
}

func NewService(tokens TokenSource, endpoint Endpoint, repo metadata.Repository, verifier *Verifier, bus *events.Bus, reporter ErrorReporter, log logging.Logger) *Service {
	return &Service{
		tokens:   tokens,
		endpoint: endpoint,
		repo:     repo,
		verifier: verifier,
		bus:      bus,
		reporter: reporter,
		log:      log,
	}
}

// GetLastUserData decodes the last persisted entitlement token without any
// network I/O. A missing, unverifiable, or corrupt token yields the
// logged-out projection with a warning, never an error.
func (s *Service) GetLastUserData(ctx context.Context) models.User {
	raw, err := s.repo.Get(ctx, metadata.KeyEntitlementToken)
	if err != nil {
		s.log.Warn(ctx, "failed to read persisted entitlement token", "error", err)
		return models.User{}
	}
	if raw == nil {
		return models.User{}
	}

	claims, err := s.verifier.Parse(string(raw))
	if err != nil {
		s.log.Warn(ctx, "discarding invalid persisted entitlement token", "error", err)
		return models.User{}
	}

	return UserFromClaims(claims)
}

// GetLatestUserData fetches, verifies, and decodes a fresh entitlement
// payload. On success the raw token becomes the new last-known-good and a
// user_data_loaded event is broadcast. On any failure the service degrades
// to the last-known-good data.
func (s *Service) GetLatestUserData(ctx context.Context) models.User {
	lastUserData := s.GetLastUserData(ctx)

	accessToken, err := s.tokens.AccessToken(ctx)
	if errors.Is(err, common.ErrNoSession) {
		return models.User{}
	}
	if err != nil {
		return s.degrade(ctx, lastUserData, err)
	}

	raw, err := s.endpoint.FetchUserData(ctx, accessToken)
	if err != nil {
		return s.degrade(ctx, lastUserData, err)
	}

	claims, err := s.verifier.Parse(raw)
	if err != nil {
		return s.degrade(ctx, lastUserData, err)
	}

	if err := s.repo.Set(ctx, metadata.KeyEntitlementToken, []byte(raw)); err != nil {
		// Freshness-only concern: the verified data is still good.
		s.log.Warn(ctx, "failed to persist entitlement token", "error", err)
	}

	user := UserFromClaims(claims)
	s.bus.Publish(events.Event{Name: events.UserDataLoaded, Data: user})
	return user
}

func (s *Service) degrade(ctx context.Context, last models.User, err error) models.User {
	s.log.Warn(ctx, "entitlement fetch failed, falling back to last known data", "error", err)
	if s.reporter != nil {
		s.reporter.Report(ctx, err)
	}
	s.bus.Publish(events.Event{Name: events.AuthorizationError, Data: err})
	return last
}
