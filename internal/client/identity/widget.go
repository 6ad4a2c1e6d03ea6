// Package identity drives the hosted login widget: it shows the widget,
// reacts to the lifecycle events the widget publishes, and turns a completed
// authentication into a stored session.
package identity

import (
	"context"
	"fmt"
)

// Widget is a hosted login surface. Show presents it and returns once the
// widget is up; the outcome arrives later as bus events. Hide dismisses it.
//
// Implementations publish events.Authenticated with an AuthenticatedPayload
// on success, events.Hide when the user dismisses the widget, and
// events.AuthorizationError or events.UnrecoverableError with an error
// payload on failure.
type Widget interface {
	Show(ctx context.Context) error
	Hide()
}

// AuthenticatedPayload carries the credentials issued by a completed login.
type AuthenticatedPayload struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until the access token expires
}

// WidgetError is a failure reported by the widget itself.
type WidgetError struct {
	Code        string
	Description string
}

func (e *WidgetError) Error() string {
	return fmt.Sprintf("identity widget error %s: %s", e.Code, e.Description)
}
