package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/api"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/session"
	"github.com/cloudchaser/dashboard/internal/table"
)

// requestTimeout bounds the backend calls made for one dashboard request.
const requestTimeout = 15 * time.Second

// Messages rendered in place of a table or form.
const (
	msgNotAuthenticated = "You are not authenticated."
	msgGeneric          = "Something went wrong. Please try again."
)

// Page is the data passed to every full-page template.
type Page struct {
	Title   string
	User    *model.User
	Flash   *session.Flash
	Section string
	Tabs    []Tab
	Table   *TableView
	Form    *FormView

	// Activity is set on the admin Activity tab only.
	Activity *ActivityView

	// Auth pages.
	Auth *AuthView

	// Error pages.
	Error string
}

// Tab is one entry of a dashboard's tab bar.
type Tab struct {
	Label  string
	Href   string
	Active bool
}

// Row kinds decide which actions a table renders per row.
const (
	rowsCRUD      = "crud"
	rowsReadOnly  = "readonly"
	rowsSubscribe = "subscribe"
)

// TableView is a rendered table: headers, filtered rows and the state
// needed for search and row actions.
type TableView struct {
	Name      string
	Title     string
	Base      string
	Query     string
	Headers   []string
	Rows      []table.Row
	Kind      string
	CanCreate bool
	CanEdit   bool
	Error     string
	Empty     string

	// Subscribed marks catalog rows the client already owns.
	Subscribed map[string]bool
}

// RowView is what the "row" template renders: one row plus its table.
type RowView struct {
	Table *TableView
	Row   table.Row
}

// RowsOf pairs each row with its table for range loops in templates.
func (t *TableView) RowsOf() []RowView {
	out := make([]RowView, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = RowView{Table: t, Row: r}
	}
	return out
}

// RowID is the DOM id of a row.  Package keys contain a slash.
func (t *TableView) RowID(key string) string {
	return "row-" + t.Name + "-" + strings.ReplaceAll(key, "/", "-")
}

// FormView is a create or edit form rendered inside the dialog.
type FormView struct {
	Kind    string
	Title   string
	Action  string
	Editing bool
	Target  string
	Swap    string
	Values  any
	Errors  map[string]string
	Error   string
	Options Options
}

// Options are the picker lists a form may need.
type Options struct {
	Products   []model.Product   `json:"products,omitempty"`
	Components []model.Component `json:"components,omitempty"`
	Clients    []model.User      `json:"clients,omitempty"`
}

// Statuses and Roles are fixed pickers.
func (Options) Statuses() []model.CampaignStatus { return model.CampaignStatuses }
func (Options) Roles() []model.Role {
	return []model.Role{model.RoleClient, model.RoleOperative, model.RoleAdmin}
}

// ActivityView is the admin Activity tab.
type ActivityView struct {
	Rows  []model.Activity
	Error string
}

// AuthView backs the login and register pages.
type AuthView struct {
	Values any
	Errors map[string]string
	Error  string
}

// userMessage maps an error to the text shown to the user.  Missing
// tokens and backend failures are expected outcomes; anything else is
// logged.
func userMessage(log *slog.Logger, err error) string {
	var apiErr *api.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrMissingToken):
		return msgNotAuthenticated
	case errors.As(err, &apiErr):
		return apiErr.Detail
	default:
		log.Error("request failed", "err", err)
		return msgGeneric
	}
}

// sectionTabs returns the tab bar for a dashboard with active marked.
func sectionTabs(section, active string) []Tab {
	var tabs []Tab
	switch section {
	case "admin":
		tabs = []Tab{{Label: "Clients", Href: "/admin/clients"}, {Label: "Campaigns", Href: "/admin/campaigns"}, {Label: "Activity", Href: "/admin/activity"}}
	case "operator":
		tabs = []Tab{{Label: "Components", Href: "/operator/components"}, {Label: "Products", Href: "/operator/products"}, {Label: "Packages", Href: "/operator/packages"}}
	case "client":
		tabs = []Tab{{Label: "Products", Href: "/client/products"}, {Label: "My campaigns", Href: "/client/campaigns"}}
	}
	for i := range tabs {
		tabs[i].Active = tabs[i].Href == active
	}
	return tabs
}

var sectionTitles = map[string]string{
	"admin":    "Admin dashboard",
	"operator": "Operator dashboard",
	"client":   "Client dashboard",
}

// renderPage renders the dashboard page for the current session.
func renderPage(c echo.Context, status int, section, active string, page Page) error {
	if sess, ok := middleware.CurrentSession(c); ok {
		u := sess.User
		page.User = &u
	}
	if f, ok := session.TakeFlash(c.Response(), c.Request()); ok {
		page.Flash = &f
	}
	page.Section = section
	page.Tabs = sectionTabs(section, active)
	if page.Title == "" {
		page.Title = sectionTitles[section]
	}
	return c.Render(status, "dashboard", page)
}

// renderDialog answers an htmx form request by swapping the dialog body.
func renderDialog(c echo.Context, form *FormView) error {
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Retarget", "#dialog")
		c.Response().Header().Set("HX-Reswap", "innerHTML")
	}
	return c.Render(http.StatusOK, "dialog", form)
}

// renderAlert answers an htmx request with an inline error banner.
func renderAlert(c echo.Context, msg string) error {
	c.Response().Header().Set("HX-Retarget", "#alert")
	c.Response().Header().Set("HX-Reswap", "innerHTML")
	return c.Render(http.StatusOK, "alert", msg)
}

// closeDialog tells the page script to close the dialog after the swap.
func closeDialog(c echo.Context) {
	c.Response().Header().Set("HX-Trigger", "dialog-close")
}

// redirectWithFlash finishes a non-htmx write.
func redirectWithFlash(c echo.Context, to string, f session.Flash) error {
	session.SetFlash(c.Response(), f)
	return c.Redirect(http.StatusSeeOther, to)
}
