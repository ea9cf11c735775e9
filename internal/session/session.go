// Package session is the dashboard's single source of truth for who is
// signed in.  A Session holds the backend bearer token and the user it
// belongs to; the browser only ever sees a signed cookie naming it.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/cloudchaser/dashboard/internal/model"
)

// ErrNotFound is returned by a Store when a session is missing or expired.
var ErrNotFound = errors.New("session not found")

// Session is one signed-in browser.
type Session struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions and the per-session view state of each table.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error

	// LoadView decodes the stored view for table into dst and reports
	// whether one existed.
	LoadView(ctx context.Context, id, table string, dst any) (bool, error)
	SaveView(ctx context.Context, id, table string, v any) error
	// DropView forgets the stored view for table, if any.
	DropView(ctx context.Context, id, table string) error
}

// NewID returns a random 32-byte hex session identifier.
func NewID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
