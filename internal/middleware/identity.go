package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the backend id of the signed-in user, or "anon".
// Rate limit keys that include the user rely on it.
func currentUserID(c echo.Context) string {
	if sess, ok := CurrentSession(c); ok && sess.User.ID != 0 {
		return strconv.FormatUint(sess.User.ID, 10)
	}
	return "anon"
}
