// Package services exposes the client-facing auth facade: one object the UI
// talks to for login, logout, and entitlement data.
package services

import (
	"context"

	"github.com/dmitrijs2005/wirescope/internal/client/events"
	"github.com/dmitrijs2005/wirescope/internal/client/identity"
	"github.com/dmitrijs2005/wirescope/internal/client/models"
	"github.com/dmitrijs2005/wirescope/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/wirescope/internal/client/userdata"
	"github.com/dmitrijs2005/wirescope/internal/logging"
)

// AuthService is the single authentication surface the UI layers use.
type AuthService interface {
	ShowLoginDialog(ctx context.Context) (bool, error)
	LogOut(ctx context.Context) error
	GetLastUserData(ctx context.Context) models.User
	GetLatestUserData(ctx context.Context) models.User
	Events() *events.Bus
}

// Auth wires the login flow and the entitlement service behind AuthService.
type Auth struct {
	flow *identity.Flow
	data *userdata.Service
	repo metadata.Repository
	bus  *events.Bus
	log  logging.Logger
}

var _ AuthService = (*Auth)(nil)

func NewAuth(flow *identity.Flow, data *userdata.Service, repo metadata.Repository, bus *events.Bus, log logging.Logger) *Auth {
	return &Auth{flow: flow, data: data, repo: repo, bus: bus, log: log}
}

func (a *Auth) ShowLoginDialog(ctx context.Context) (bool, error) {
	return a.flow.ShowLoginDialog(ctx)
}

// LogOut clears the session and the persisted entitlement token. A failure
// to drop the entitlement token is logged; the logout itself still succeeds.
func (a *Auth) LogOut(ctx context.Context) error {
	if err := a.flow.LogOut(ctx); err != nil {
		return err
	}
	if err := a.repo.Delete(ctx, metadata.KeyEntitlementToken); err != nil {
		a.log.Warn(ctx, "failed to drop persisted entitlement token", "error", err)
	}
	return nil
}

func (a *Auth) GetLastUserData(ctx context.Context) models.User {
	return a.data.GetLastUserData(ctx)
}

func (a *Auth) GetLatestUserData(ctx context.Context) models.User {
	return a.data.GetLatestUserData(ctx)
}

// Events exposes the bus carrying auth lifecycle events.
func (a *Auth) Events() *events.Bus {
	return a.bus
}
