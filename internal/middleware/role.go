package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/model"
)

// RequireRole guards a dashboard.  Requests without a session are sent to
// /login; a signed-in user whose role is not allowed is sent to their own
// dashboard instead of getting a 403.  It must run after LoadSession.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := CurrentSession(c)
			if !ok {
				return Redirect(c, "/login")
			}
			if !allowed[sess.User.Role] {
				return Redirect(c, sess.User.Role.Home())
			}
			return next(c)
		}
	}
}

// RedirectIfAuthenticated sends signed-in users from public pages (landing,
// login, register) to their dashboard.  A role without a dashboard passes
// through, since its home is the landing page itself.
func RedirectIfAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess, ok := CurrentSession(c); ok && sess.User.Role.Home() != "/" {
				return Redirect(c, sess.User.Role.Home())
			}
			return next(c)
		}
	}
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// Redirect answers htmx requests with an HX-Redirect header (htmx does not
// follow a 302 for the whole page) and everything else with 302 Found.
func Redirect(c echo.Context, to string) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", to)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusFound, to)
}
