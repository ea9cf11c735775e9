package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/api"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/service"
	"github.com/cloudchaser/dashboard/internal/session"
	"github.com/cloudchaser/dashboard/internal/table"
	"github.com/cloudchaser/dashboard/internal/validate"
)

// Dashboard bundles what every dashboard handler needs.
type Dashboard struct {
	API       *api.Client
	Store     session.Store
	Publisher service.Publisher
	Activity  ActivityReader
	Log       *slog.Logger
}

// record publishes an activity event for a successful write.  Failures are
// logged by the publisher and never reach the user.
func (d *Dashboard) record(c echo.Context, sess session.Session, entity, action, key string) {
	if d.Publisher == nil {
		return
	}
	ev := service.NewActivityEvent(sess.User, entity, action, key)
	_ = d.Publisher.Publish(context.WithoutCancel(c.Request().Context()), ev)
}

// form is a bound, validated HTML form that can produce an API payload.
type form[In any] interface {
	input() (In, error)
}

// createChecker is implemented by forms with extra rules on create.
type createChecker interface {
	checkCreate() map[string]string
}

// viewState is what a table keeps per session between requests.
type viewState[T any] struct {
	Items   []T     `json:"items"`
	Options Options `json:"options"`
}

// resource is one CRUD table on a dashboard.  Every table follows the
// same contract: a full page load refetches, an htmx search filters the
// stored list, and successful writes patch the stored list with the
// server's representation.
type resource[T any, In any, F form[In]] struct {
	d       *Dashboard
	name    string
	title   string
	label   string
	section string
	base    string
	schema  table.Schema[T]
	api     api.Resource[T, In]

	canCreate, canEdit, canDelete bool

	// load fetches the list and any picker options.  Defaults to api.List.
	load func(ctx context.Context, token string) ([]T, Options, error)
	// blank returns an empty create form.
	blank func() F
	// fill returns an edit form for an existing item.
	fill func(T) F
	// patch completes a server representation before it is stored, e.g.
	// display names the backend does not echo.  Optional.
	patch func(T, Options) T
	// key reads the item key from the path.  Defaults to :id.
	key func(c echo.Context) string
	// dependents are tables whose pickers list this table's items.  Their
	// stored views are dropped after a write so the next form refetches.
	dependents []string
}

func (r *resource[T, In, F]) itemKey(c echo.Context) string {
	if r.key != nil {
		return r.key(c)
	}
	return c.Param("id")
}

// state returns the stored view, refetching when refresh is set or when
// nothing is stored yet.
func (r *resource[T, In, F]) state(ctx context.Context, sess session.Session, refresh bool) (viewState[T], error) {
	var st viewState[T]
	if !refresh {
		ok, err := r.d.Store.LoadView(ctx, sess.ID, r.name, &st)
		if err != nil {
			r.d.Log.Warn("load view state", "table", r.name, "err", err)
		} else if ok {
			return st, nil
		}
	}
	items, opts, err := r.fetch(ctx, sess.Token)
	if err != nil {
		return viewState[T]{}, err
	}
	st = viewState[T]{Items: items, Options: opts}
	r.save(ctx, sess, st)
	return st, nil
}

func (r *resource[T, In, F]) fetch(ctx context.Context, token string) ([]T, Options, error) {
	if r.load != nil {
		return r.load(ctx, token)
	}
	items, err := r.api.List(ctx, token)
	return items, Options{}, err
}

func (r *resource[T, In, F]) save(ctx context.Context, sess session.Session, st viewState[T]) {
	if err := r.d.Store.SaveView(ctx, sess.ID, r.name, st); err != nil {
		r.d.Log.Warn("save view state", "table", r.name, "err", err)
	}
}

func (r *resource[T, In, F]) dropDependents(ctx context.Context, sess session.Session) {
	for _, name := range r.dependents {
		if err := r.d.Store.DropView(ctx, sess.ID, name); err != nil {
			r.d.Log.Warn("drop view state", "table", name, "err", err)
		}
	}
}

func (r *resource[T, In, F]) tableView(list *table.List[T], query string) *TableView {
	tv := &TableView{
		Name:      r.name,
		Title:     r.title,
		Base:      r.base,
		Query:     query,
		Headers:   list.Headers(),
		Kind:      rowsCRUD,
		CanCreate: r.canCreate,
		CanEdit:   r.canEdit,
		Empty:     "No " + strings.ToLower(r.title) + " found.",
	}
	if !r.canEdit && !r.canDelete {
		tv.Kind = rowsReadOnly
	}
	tv.Rows = list.Rows(list.Filter(query))
	return tv
}

func (r *resource[T, In, F]) errorView(msg string) *TableView {
	return &TableView{Name: r.name, Title: r.title, Base: r.base, Kind: rowsReadOnly, Error: msg}
}

// Index renders the table.  A full page load refetches; an htmx search
// filters the stored list.  ?new=1 and ?edit=<key> open the dialog on a
// full page for browsers without htmx.
func (r *resource[T, In, F]) Index(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	htmx := middleware.IsHTMX(c)
	query := c.QueryParam("q")

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	st, err := r.state(ctx, sess, !htmx)
	var tv *TableView
	if err != nil {
		tv = r.errorView(userMessage(r.d.Log, err))
	} else {
		tv = r.tableView(table.New(r.schema, st.Items), query)
	}
	if htmx {
		return c.Render(http.StatusOK, "table", tv)
	}

	page := Page{Table: tv}
	if err == nil {
		list := table.New(r.schema, st.Items)
		switch {
		case r.canCreate && c.QueryParam("new") != "":
			page.Form = r.formView(r.blank(), false, "", st.Options)
		case r.canEdit && c.QueryParam("edit") != "":
			if item, ok := list.Get(c.QueryParam("edit")); ok {
				page.Form = r.formView(r.fill(item), true, c.QueryParam("edit"), st.Options)
			}
		}
	}
	return renderPage(c, http.StatusOK, r.section, r.base, page)
}

// New renders an empty create form.
func (r *resource[T, In, F]) New(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	if !middleware.IsHTMX(c) {
		return c.Redirect(http.StatusFound, r.base+"?new=1")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	st, err := r.state(ctx, sess, false)
	fv := r.formView(r.blank(), false, "", st.Options)
	if err != nil {
		fv.Error = userMessage(r.d.Log, err)
	}
	return renderDialog(c, fv)
}

// Edit renders the edit form for one stored item.
func (r *resource[T, In, F]) Edit(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	key := r.itemKey(c)
	if !middleware.IsHTMX(c) {
		return c.Redirect(http.StatusFound, r.base+"?edit="+key)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	st, err := r.state(ctx, sess, false)
	if err != nil {
		return renderAlert(c, userMessage(r.d.Log, err))
	}
	item, ok := table.New(r.schema, st.Items).Get(key)
	if !ok {
		return renderAlert(c, r.label+" not found. Reload the page and try again.")
	}
	return renderDialog(c, r.formView(r.fill(item), true, key, st.Options))
}

// Create validates the form, posts it to the backend and appends the
// server's representation to the stored list.
func (r *resource[T, In, F]) Create(c echo.Context) error {
	return r.write(c, false, "")
}

// Update validates the form, puts it to the backend and replaces the
// stored item with the server's representation.
func (r *resource[T, In, F]) Update(c echo.Context) error {
	return r.write(c, true, r.itemKey(c))
}

func (r *resource[T, In, F]) write(c echo.Context, editing bool, key string) error {
	sess, _ := middleware.CurrentSession(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var f F
	if err := c.Bind(&f); err != nil {
		return r.formError(c, r.formView(f, editing, key, r.options(ctx, sess)), "The form could not be read.", nil)
	}
	errs := validate.Fields(c.Validate(f))
	if errs == nil {
		errs = map[string]string{}
	}
	if cc, ok := any(f).(createChecker); ok && !editing {
		for k, v := range cc.checkCreate() {
			if _, seen := errs[k]; !seen {
				errs[k] = v
			}
		}
	}
	if len(errs) > 0 {
		return r.formError(c, r.formView(f, editing, key, r.options(ctx, sess)), "", errs)
	}
	in, err := f.input()
	if err != nil {
		return r.formError(c, r.formView(f, editing, key, r.options(ctx, sess)), err.Error(), nil)
	}

	var item T
	if editing {
		item, err = r.api.Update(ctx, sess.Token, key, in)
	} else {
		item, err = r.api.Create(ctx, sess.Token, in)
	}
	if err != nil {
		return r.formError(c, r.formView(f, editing, key, r.options(ctx, sess)), userMessage(r.d.Log, err), nil)
	}

	st, err := r.state(ctx, sess, false)
	if err != nil {
		r.d.Log.Warn("refresh view after write", "table", r.name, "err", err)
	}
	if r.patch != nil {
		item = r.patch(item, st.Options)
	}
	// A refetched list may already hold the new item.
	list := table.New(r.schema, st.Items)
	if !list.Replace(item) {
		list.Append(item)
	}
	action, verb := model.ActionCreate, "created"
	if editing {
		action, verb = model.ActionUpdate, "updated"
	}
	st.Items = list.Items()
	r.save(ctx, sess, st)
	r.dropDependents(ctx, sess)
	r.d.record(c, sess, r.name, action, r.schema.Key(item))

	if middleware.IsHTMX(c) {
		closeDialog(c)
		tv := r.tableView(list, "")
		return c.Render(http.StatusOK, "row", RowView{Table: tv, Row: list.Row(item)})
	}
	return redirectWithFlash(c, r.base, session.Flash{Kind: session.FlashSuccess, Message: r.label + " " + verb + "."})
}

// Delete removes the item on the backend and from the stored list.  htmx
// gets an empty body so the row disappears.
func (r *resource[T, In, F]) Delete(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	key := r.itemKey(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := r.api.Delete(ctx, sess.Token, key); err != nil {
		msg := userMessage(r.d.Log, err)
		if middleware.IsHTMX(c) {
			return renderAlert(c, msg)
		}
		return redirectWithFlash(c, r.base, session.Flash{Kind: session.FlashError, Message: msg})
	}

	var st viewState[T]
	if ok, err := r.d.Store.LoadView(ctx, sess.ID, r.name, &st); err == nil && ok {
		list := table.New(r.schema, st.Items)
		list.Remove(key)
		st.Items = list.Items()
		r.save(ctx, sess, st)
	}
	r.dropDependents(ctx, sess)
	r.d.record(c, sess, r.name, model.ActionDelete, key)

	if middleware.IsHTMX(c) {
		return c.NoContent(http.StatusOK)
	}
	return redirectWithFlash(c, r.base, session.Flash{Kind: session.FlashSuccess, Message: r.label + " deleted."})
}

// options returns the stored picker lists for re-rendering a form.
func (r *resource[T, In, F]) options(ctx context.Context, sess session.Session) Options {
	st, err := r.state(ctx, sess, false)
	if err != nil {
		return Options{}
	}
	return st.Options
}

func (r *resource[T, In, F]) formView(values F, editing bool, key string, opts Options) *FormView {
	fv := &FormView{
		Kind:    r.name,
		Title:   "New " + strings.ToLower(r.label),
		Action:  r.base,
		Editing: editing,
		Target:  "#rows-" + r.name,
		Swap:    "beforeend",
		Values:  values,
		Options: opts,
	}
	if editing {
		fv.Title = "Edit " + strings.ToLower(r.label)
		fv.Action = r.base + "/" + key
		fv.Target = "#" + (&TableView{Name: r.name}).RowID(key)
		fv.Swap = "outerHTML"
	}
	return fv
}

// formError re-renders the form with its problems.  htmx swaps it into
// the dialog; plain requests get the full page with the dialog open.
func (r *resource[T, In, F]) formError(c echo.Context, fv *FormView, msg string, fields map[string]string) error {
	fv.Error = msg
	fv.Errors = fields
	if middleware.IsHTMX(c) {
		return renderDialog(c, fv)
	}
	sess, _ := middleware.CurrentSession(c)
	var tv *TableView
	var st viewState[T]
	if ok, err := r.d.Store.LoadView(c.Request().Context(), sess.ID, r.name, &st); err == nil && ok {
		tv = r.tableView(table.New(r.schema, st.Items), "")
	} else {
		tv = r.tableView(table.New(r.schema, nil), "")
	}
	return renderPage(c, http.StatusUnprocessableEntity, r.section, r.base, Page{Table: tv, Form: fv})
}
