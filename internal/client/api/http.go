package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/wirescope/internal/common"
)

// HTTPClient implements Client over the provider's HTTPS API.
//
// Timeout semantics are delegated to the supplied *http.Client and the
// caller's context; no extra timeout is layered here.
type HTTPClient struct {
	tokenURL    string
	userDataURL string
	clientID    string
	hc          *http.Client
}

func NewHTTPClient(tokenURL, userDataURL, clientID string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{
		tokenURL:    tokenURL,
		userDataURL: userDataURL,
		clientID:    clientID,
		hc:          hc,
	}
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenReply, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.clientID)
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("token endpoint: %w", err)
	}

	var reply TokenReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode token reply: %w", err)
	}
	if reply.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint: %w: empty access token", common.ErrUnauthorized)
	}

	return &reply, nil
}

func (c *HTTPClient) FetchUserData(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userDataURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return "", fmt.Errorf("entitlement endpoint: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read entitlement body: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}

// mapStatus converts an HTTP status to a sentinel error, nil for 2xx.
func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", common.ErrUnauthorized, code)
	case code >= 500:
		return fmt.Errorf("%w (status %d)", common.ErrUnavailable, code)
	default:
		return errors.New(http.StatusText(code))
	}
}
