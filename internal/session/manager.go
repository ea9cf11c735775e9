package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudchaser/dashboard/internal/model"
)

// Manager ties a Store to the session cookie.
type Manager struct {
	Store  Store
	Cookie Cookie
	TTL    time.Duration
	now    func() time.Time
}

func NewManager(store Store, cookie Cookie, ttl time.Duration) *Manager {
	return &Manager{Store: store, Cookie: cookie, TTL: ttl, now: time.Now}
}

// Start records a new session for token and user and sets the cookie.
// The session ends at the configured TTL or at the token's own expiry,
// whichever comes first.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, token string, user model.User) (Session, error) {
	id, err := NewID()
	if err != nil {
		return Session{}, fmt.Errorf("session id: %w", err)
	}
	now := m.now()
	exp := now.Add(m.TTL)
	if tokExp, ok := TokenExpiry(token); ok && tokExp.Before(exp) {
		exp = tokExp
	}
	if !exp.After(now) {
		return Session{}, fmt.Errorf("start session: token already expired")
	}
	sess := Session{ID: id, Token: token, User: user, ExpiresAt: exp}
	if err := m.Store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	if err := m.Cookie.Write(w, id, exp); err != nil {
		_ = m.Store.Delete(ctx, id)
		return Session{}, err
	}
	return sess, nil
}

// Load returns the session named by the request cookie.  Any problem with
// the cookie or the stored record reads as "no session"; only store
// failures are returned as errors.
func (m *Manager) Load(ctx context.Context, r *http.Request) (Session, bool, error) {
	sid, err := m.Cookie.Read(r)
	if err != nil {
		return Session{}, false, nil
	}
	sess, err := m.Store.Get(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	if sess.Expired(m.now()) {
		return Session{}, false, nil
	}
	return sess, true, nil
}

// End deletes the session and clears the cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, id string) error {
	m.Cookie.Clear(w)
	if id == "" {
		return nil
	}
	return m.Store.Delete(ctx, id)
}
