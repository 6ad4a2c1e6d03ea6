package cli

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/dmitrijs2005/wirescope/internal/client/events"
	"github.com/dmitrijs2005/wirescope/internal/client/identity"
)

const defaultExpiresIn = 3600

// TerminalWidget is the terminal stand-in for the hosted login widget: it
// collects tokens interactively and reports the outcome through the event
// bus, exactly like the hosted widget would.
type TerminalWidget struct {
	bus    *events.Bus
	reader *bufio.Reader
	out    io.Writer
}

func NewTerminalWidget(bus *events.Bus, reader *bufio.Reader, out io.Writer) *TerminalWidget {
	return &TerminalWidget{bus: bus, reader: reader, out: out}
}

// Show starts the interactive prompt on its own goroutine and returns
// immediately; the outcome arrives as bus events.
func (w *TerminalWidget) Show(ctx context.Context) error {
	go w.prompt()
	return nil
}

func (w *TerminalWidget) prompt() {
	refreshToken, err := GetMaskedText("Paste refresh token (empty to cancel): ", w.out)
	if err != nil {
		w.bus.Publish(events.Event{Name: events.UnrecoverableError, Data: err})
		return
	}
	if refreshToken == "" {
		w.bus.Publish(events.Event{Name: events.Hide})
		return
	}

	accessToken, err := GetMaskedText("Paste access token: ", w.out)
	if err != nil {
		w.bus.Publish(events.Event{Name: events.UnrecoverableError, Data: err})
		return
	}

	expiresIn := int64(defaultExpiresIn)
	if s, err := GetSimpleText(w.reader, "Access token lifetime in seconds (empty for 3600)", w.out); err == nil && s != "" {
		if n, convErr := strconv.ParseInt(s, 10, 64); convErr == nil && n > 0 {
			expiresIn = n
		}
	}

	w.bus.Publish(events.Event{Name: events.Authenticated, Data: identity.AuthenticatedPayload{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}})
}

// Hide is a no-op for the terminal: there is no surface to dismiss.
func (w *TerminalWidget) Hide() {}
