package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/session"
)

// Context key under which LoadSession stores the current session.
const sessionKey = "session"

// LoadSession rehydrates the session named by the request cookie and
// stores it in the echo context.  Requests without a valid session pass
// through untouched; RequireRole decides what to do with them.  A store
// failure is logged and also treated as "no session".
func LoadSession(m *session.Manager, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok, err := m.Load(c.Request().Context(), c.Request())
			if err != nil {
				log.Error("load session", "err", err, "path", c.Path())
			}
			if ok {
				c.Set(sessionKey, sess)
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session LoadSession put in the context.
func CurrentSession(c echo.Context) (session.Session, bool) {
	sess, ok := c.Get(sessionKey).(session.Session)
	return sess, ok
}
