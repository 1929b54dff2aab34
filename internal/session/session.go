// Package session identifies browser sessions with a random id carried in
// a cookie. The id keys the session's workspace; nothing else is stored
// client side.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "lpm_session"

	// DefaultTTL is how long a session cookie lives.
	DefaultTTL = 24 * time.Hour

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Manager issues and reads session cookies.
type Manager struct {
	ttl    time.Duration
	secure bool
}

// NewManager creates a session manager. secure marks cookies as TLS-only.
func NewManager(ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{ttl: ttl, secure: secure}
}

// ID returns the session id carried by the request, or "" when the request
// has no well-formed session cookie.
func (m *Manager) ID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil || !validID(cookie.Value) {
		return ""
	}
	return cookie.Value
}

// Ensure returns the request's session id, issuing a new session cookie
// when there is none. created reports whether a new id was issued.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (id string, created bool, err error) {
	if id := m.ID(r); id != "" {
		return id, false, nil
	}
	id, err = generateID()
	if err != nil {
		return "", false, fmt.Errorf("session create: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return id, true, nil
}

// Destroy expires the session cookie.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		MaxAge:   -1,
	})
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validID(s string) bool {
	if len(s) != idLength*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
