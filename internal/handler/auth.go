package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/api"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/session"
	"github.com/cloudchaser/dashboard/internal/validate"
)

const msgNoDashboard = "This account has no dashboard."

// AuthHandler serves the public pages and signs users in and out.
type AuthHandler struct {
	API      *api.Client
	Sessions *session.Manager
	Log      *slog.Logger
}

func NewAuthHandler(client *api.Client, sessions *session.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{API: client, Sessions: sessions, Log: log}
}

func (h *AuthHandler) render(c echo.Context, status int, name, title string, auth *AuthView) error {
	page := Page{Title: title, Auth: auth}
	if f, ok := session.TakeFlash(c.Response(), c.Request()); ok {
		page.Flash = &f
	}
	return c.Render(status, name, page)
}

// Landing renders the public home page.
func (h *AuthHandler) Landing(c echo.Context) error {
	return h.render(c, http.StatusOK, "landing", "Cloud Chaser", nil)
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "login", "Sign in", &AuthView{Values: loginForm{}})
}

// Login exchanges credentials for a backend token, loads the user and
// starts a session, then sends the user to their dashboard.
func (h *AuthHandler) Login(c echo.Context) error {
	var f loginForm
	if err := c.Bind(&f); err != nil {
		return h.render(c, http.StatusBadRequest, "login", "Sign in", &AuthView{Values: f, Error: "The form could not be read."})
	}
	if errs := validate.Fields(c.Validate(f)); errs != nil {
		return h.render(c, http.StatusUnprocessableEntity, "login", "Sign in", &AuthView{Values: loginForm{Email: f.Email}, Errors: errs})
	}
	if err := h.signIn(c, f.Email, f.Password); err != nil {
		return h.render(c, http.StatusUnauthorized, "login", "Sign in", &AuthView{Values: loginForm{Email: f.Email}, Error: userMessage(h.Log, err)})
	}
	return nil
}

// RegisterPage renders the signup form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "register", "Create account", &AuthView{Values: registerForm{}})
}

// Register creates a client account and signs it in with the same
// credentials.
func (h *AuthHandler) Register(c echo.Context) error {
	var f registerForm
	if err := c.Bind(&f); err != nil {
		return h.render(c, http.StatusBadRequest, "register", "Create account", &AuthView{Values: f, Error: "The form could not be read."})
	}
	if errs := validate.Fields(c.Validate(f)); errs != nil {
		f.Password, f.Confirm = "", ""
		return h.render(c, http.StatusUnprocessableEntity, "register", "Create account", &AuthView{Values: f, Errors: errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	in := f.input()
	if _, err := h.API.Register(ctx, in); err != nil {
		f.Password, f.Confirm = "", ""
		return h.render(c, http.StatusUnprocessableEntity, "register", "Create account", &AuthView{Values: f, Error: userMessage(h.Log, err)})
	}
	if err := h.signIn(c, in.Email, in.Password); err != nil {
		h.Log.Warn("sign in after register", "err", err)
		return redirectWithFlash(c, "/login", session.Flash{Kind: session.FlashSuccess, Message: "Account created. Please sign in."})
	}
	return nil
}

// signIn runs login, me and session start, then redirects.  On error
// nothing has been written to the response.
func (h *AuthHandler) signIn(c echo.Context, email, password string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	token, err := h.API.Login(ctx, email, password)
	if err != nil {
		return err
	}
	user, err := h.API.Me(ctx, token)
	if err != nil {
		return err
	}
	role, ok := model.ParseRole(string(user.Role))
	if !ok {
		h.Log.Warn("sign in refused: unknown role", "user_id", user.ID, "role", user.Role)
		return &api.Error{Status: http.StatusForbidden, Detail: msgNoDashboard}
	}
	user.Role = role
	if _, err := h.Sessions.Start(ctx, c.Response(), token, user); err != nil {
		return err
	}
	h.Log.Info("signed in", "user_id", user.ID, "role", user.Role)
	return middleware.Redirect(c, user.Role.Home())
}

// Logout ends the session and returns to the landing page.
func (h *AuthHandler) Logout(c echo.Context) error {
	var id string
	if sess, ok := middleware.CurrentSession(c); ok {
		id = sess.ID
	}
	if err := h.Sessions.End(c.Request().Context(), c.Response(), id); err != nil {
		h.Log.Warn("end session", "err", err)
	}
	return middleware.Redirect(c, "/")
}
