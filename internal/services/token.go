package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// TokenManager holds the bearer credential shared by every request of a [Client].
//
// Reads and writes of the credential are guarded by a mutex. Refreshes are not deduplicated:
// concurrent callers that see an expired token may each fetch a new one and the last write wins.
type TokenManager struct {
	mu     sync.RWMutex
	token  oauth2.Token
	url    string
	auto   bool
	now    func() time.Time
	get    func(ctx context.Context, url string) ([]byte, error)
	onNew  func(token string)
	logger *log.Logger
}

var _ oauth2.TokenSource = (*TokenManager)(nil)

// OnNewToken registers the callback invoked with the raw token after each successful refresh.
// A nil callback clears it.
func (m *TokenManager) OnNewToken(callback func(token string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onNew = callback
}

// Valid reports whether the credential can be used right now (now < expiry).
func (m *TokenManager) Valid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validLocked()
}

func (m *TokenManager) validLocked() bool {
	return m.now().Before(m.token.Expiry)
}

// EnsureValid refreshes the credential when auto-fetching is enabled and it has expired.
func (m *TokenManager) EnsureValid(ctx context.Context) error {
	if !m.auto || m.Valid() {
		return nil
	}
	return m.Refresh(ctx)
}

// Refresh fetches a new token from the token endpoint regardless of the current expiry.
func (m *TokenManager) Refresh(ctx context.Context) error {
	m.logger.Debug("refreshing access token", "url", m.url)

	body, err := m.get(ctx, m.url)
	if err != nil {
		return err
	}

	access := gjson.GetBytes(body, "accessToken")
	if access.Type != gjson.String || access.String() == "" {
		return &ProtocolError{URL: m.url, Err: fmt.Errorf("%w: response has no accessToken", shared.ErrRefreshFailed)}
	}
	// gjson reads the expiry whether it is sent as a number or a numeric string
	expiresMs := gjson.GetBytes(body, "accessTokenExpirationTimestampMs").Int()

	m.mu.Lock()
	m.token = oauth2.Token{
		AccessToken: access.String(),
		TokenType:   "Bearer",
		Expiry:      time.UnixMilli(expiresMs),
	}
	callback := m.onNew
	m.mu.Unlock()

	m.logger.Debug("access token refreshed", "expires", time.UnixMilli(expiresMs).Format(time.RFC3339))

	if callback != nil {
		callback(access.String())
	}
	return nil
}

// Token implements [oauth2.TokenSource], refreshing first when needed.
func (m *TokenManager) Token() (*oauth2.Token, error) {
	if err := m.EnsureValid(context.Background()); err != nil {
		return nil, err
	}

	tok := m.Credential()
	if tok.AccessToken == "" {
		return nil, shared.ErrNoToken
	}
	return &tok, nil
}

// Credential returns a copy of the current credential.
func (m *TokenManager) Credential() oauth2.Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Set replaces the credential without notifying the callback. Used to seed a stored token.
func (m *TokenManager) Set(token string, expiry time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = oauth2.Token{AccessToken: token, TokenType: "Bearer", Expiry: expiry}
}

// authorize writes the Authorization header for the credential held at call time.
func (m *TokenManager) authorize(req *http.Request) {
	m.mu.RLock()
	tok := m.token
	m.mu.RUnlock()

	if tok.AccessToken != "" {
		tok.SetAuthHeader(req)
	}
}
