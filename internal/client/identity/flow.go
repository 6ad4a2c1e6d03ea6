package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/wirescope/internal/client/events"
	"github.com/dmitrijs2005/wirescope/internal/client/models"
	"github.com/dmitrijs2005/wirescope/internal/client/session"
	"github.com/dmitrijs2005/wirescope/internal/common"
	"github.com/dmitrijs2005/wirescope/internal/logging"
)

// DataLoader fetches fresh entitlement data. Satisfied by userdata.Service.
type DataLoader interface {
	GetLatestUserData(ctx context.Context) models.User
}

// Flow runs the interactive login and logout operations. At most one login
// dialog is active at a time.
type Flow struct {
	widget Widget
	store  *session.Store
	loader DataLoader
	bus    *events.Bus
	log    logging.Logger
	now    func() time.Time

	mu     sync.Mutex
	active bool
}

func NewFlow(widget Widget, store *session.Store, loader DataLoader, bus *events.Bus, log logging.Logger) *Flow {
	return &Flow{
		widget: widget,
		store:  store,
		loader: loader,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

type outcome struct {
	ok  bool
	err error
}

// ShowLoginDialog presents the login widget and blocks until the flow
// settles. It returns (true, nil) when the user authenticated and their
// entitlement data loaded, (false, nil) when the user dismissed the widget,
// and an error when authentication or the data load failed. The first
// settled outcome wins; later widget events are ignored.
func (f *Flow) ShowLoginDialog(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.active {
		f.mu.Unlock()
		return false, common.ErrLoginInProgress
	}
	f.active = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.active = false
		f.mu.Unlock()
	}()

	result := make(chan outcome, 1)
	settle := func(ok bool, err error) {
		select {
		case result <- outcome{ok, err}:
		default:
		}
	}

	// The loader publishes user_data_loaded synchronously, so the listener
	// must be in place before the authenticated handler can start the load.
	unsubLoaded := f.bus.SubscribeOnce(events.UserDataLoaded, func(events.Event) {
		settle(true, nil)
		f.widget.Hide()
	})
	defer unsubLoaded()

	unsubAuth := f.bus.SubscribeOnce(events.Authenticated, func(e events.Event) {
		f.onAuthenticated(ctx, e, settle)
	})
	defer unsubAuth()

	unsubHide := f.bus.Subscribe(events.Hide, func(events.Event) {
		settle(false, nil)
	})
	defer unsubHide()

	onError := func(e events.Event) {
		settle(false, eventError(e))
	}
	unsubAuthErr := f.bus.Subscribe(events.AuthorizationError, onError)
	defer unsubAuthErr()
	unsubFatal := f.bus.Subscribe(events.UnrecoverableError, onError)
	defer unsubFatal()

	if err := f.widget.Show(ctx); err != nil {
		return false, fmt.Errorf("show login widget: %w", err)
	}

	select {
	case r := <-result:
		return r.ok, r.err
	case <-ctx.Done():
		f.widget.Hide()
		return false, ctx.Err()
	}
}

func (f *Flow) onAuthenticated(ctx context.Context, e events.Event, settle func(bool, error)) {
	payload, ok := e.Data.(AuthenticatedPayload)
	if !ok {
		settle(false, fmt.Errorf("unexpected authenticated payload %T", e.Data))
		return
	}

	ts := &models.TokenSet{
		RefreshToken:      payload.RefreshToken,
		AccessToken:       payload.AccessToken,
		AccessTokenExpiry: f.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
	if err := f.store.Set(ctx, ts); err != nil {
		settle(false, fmt.Errorf("store session: %w", err))
		return
	}

	f.log.Info(ctx, "user authenticated, loading entitlement data")

	// The load settles the flow through its own events: user_data_loaded on
	// success, authorization_error on failure.
	go f.loader.GetLatestUserData(ctx)
}

// LogOut clears the session and broadcasts a logout event. An in-flight
// token refresh, if any, finds the store changed when it completes and
// discards its result.
func (f *Flow) LogOut(ctx context.Context) error {
	if err := f.store.Set(ctx, nil); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	f.log.Info(ctx, "user logged out")
	f.bus.Publish(events.Event{Name: events.Logout})
	return nil
}

func eventError(e events.Event) error {
	if err, ok := e.Data.(error); ok && err != nil {
		return err
	}
	return fmt.Errorf("login failed: %s", e.Name)
}
