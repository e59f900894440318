// Package session holds the authentication context shared by every request:
// the bearer token, the username it belongs to and the derived login flag.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kochabx/apiclient/errors"
)

// Store is what the dispatcher needs from the session: read the token on
// every request and wipe everything when the server rejects it.
type Store interface {
	Token() string
	Clear()
}

// Claims are the registered claims carried by the access token
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Memory is an in-process Store safe for concurrent use
type Memory struct {
	mu       sync.RWMutex
	token    string
	username string
	loggedIn bool
}

// NewMemory returns an empty session
func NewMemory() *Memory {
	return &Memory{}
}

// Set records a successful login
func (m *Memory) Set(token, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.username = username
	m.loggedIn = token != ""
}

// Token returns the current bearer token, empty when logged out
func (m *Memory) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Username returns the name of the logged in user
func (m *Memory) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

// LoggedIn reports whether a login has been recorded and not cleared since
func (m *Memory) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loggedIn
}

// Clear resets token, username and the login flag
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	m.username = ""
	m.loggedIn = false
}

// Claims decodes the current token without verifying its signature;
// the client never holds the signing key.
func (m *Memory) Claims() (Claims, error) {
	return ParseClaims(m.Token())
}

// Expired reports whether the token's exp claim is at or before now.
// Tokens without exp, or that cannot be decoded, are not considered expired.
func (m *Memory) Expired(now time.Time) bool {
	c, err := m.Claims()
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// ParseClaims decodes the registered claims of a JWT without verification
func ParseClaims(token string) (Claims, error) {
	if token == "" {
		return Claims{}, errors.Invalid("empty token")
	}

	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, errors.Wrap(err, errors.KindDecode, 0, "malformed token")
	}

	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// Static is a read-only Store that always returns the same token; Clear is a no-op
type Static string

// Token returns the fixed token
func (s Static) Token() string { return string(s) }

// Clear does nothing
func (Static) Clear() {}
