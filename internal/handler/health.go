package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/middleware"
)

// Health answers load balancer probes on /healthz with a plain "ok".  It
// does not reach the backend; a down API degrades views, not the process.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// ErrorHandler renders echo errors (404, 405, 429 from the login limiter)
// as an HTML page, or as an alert fragment for htmx requests.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := msgGeneric
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		} else {
			log.Error("unhandled error", "err", err, "path", c.Request().URL.Path)
		}

		var rerr error
		switch {
		case c.Request().Method == http.MethodHead:
			rerr = c.NoContent(code)
		case middleware.IsHTMX(c):
			c.Response().Header().Set("HX-Retarget", "#alert")
			c.Response().Header().Set("HX-Reswap", "innerHTML")
			rerr = c.Render(http.StatusOK, "alert", msg)
		default:
			rerr = c.Render(code, "error", Page{Title: http.StatusText(code), Error: msg})
		}
		if rerr != nil {
			log.Error("render error page", "err", rerr)
		}
	}
}
