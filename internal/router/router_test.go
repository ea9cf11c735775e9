package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudchaser/dashboard/internal/api"
	"github.com/cloudchaser/dashboard/internal/handler"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/queue"
	"github.com/cloudchaser/dashboard/internal/session"
	"github.com/cloudchaser/dashboard/internal/validate"
	"github.com/cloudchaser/dashboard/internal/web"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// recorder collects published activity events.
type recorder struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) all() []queue.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.ActivityEvent(nil), r.events...)
}

type fakeActivity struct{ rows []model.Activity }

func (f fakeActivity) Recent(context.Context, int) ([]model.Activity, error) { return f.rows, nil }

type app struct {
	e       *echo.Echo
	mgr     *session.Manager
	events  *recorder
	calls   map[string]*atomic.Int32
	backend *http.ServeMux
}

// newApp wires the whole dashboard against a fake backend.  Handlers are
// registered on the returned mux per test.
func newApp(t *testing.T, activity handler.ActivityReader) *app {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	mgr := session.NewManager(store, session.Cookie{Name: "cc_session", Secret: []byte("test-secret")}, time.Hour)
	client := api.New(srv.URL, 2*time.Second)
	events := &recorder{}
	dash := &handler.Dashboard{API: client, Store: store, Publisher: events, Activity: activity, Log: discard}

	e := echo.New()
	e.Renderer = web.MustRenderer()
	e.Validator = validate.New()
	e.HTTPErrorHandler = handler.ErrorHandler(discard)
	e.Use(middleware.LoadSession(mgr, discard))

	RegisterRoutes(e, web.Static())
	RegisterAuth(e, handler.NewAuthHandler(client, mgr, discard), func(next echo.HandlerFunc) echo.HandlerFunc { return next })
	RegisterAdmin(e, handler.NewAdminHandler(dash))
	RegisterOperator(e, handler.NewOperatorHandler(dash))
	RegisterClient(e, handler.NewClientHandler(dash))

	return &app{e: e, mgr: mgr, events: events, calls: map[string]*atomic.Int32{}, backend: mux}
}

// handle registers a backend route and counts its calls.
func (a *app) handle(t *testing.T, pattern string, h http.HandlerFunc) {
	t.Helper()
	n := &atomic.Int32{}
	a.calls[pattern] = n
	a.backend.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		n.Add(1)
		h(w, r)
	})
}

func (a *app) count(pattern string) int { return int(a.calls[pattern].Load()) }

func (a *app) signIn(t *testing.T, role model.Role, token string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := a.mgr.Start(context.Background(), rec, token, model.User{ID: 7, Name: "Tester", Role: role})
	require.NoError(t, err)
	return rec.Result().Cookies()
}

func (a *app) do(method, path string, form url.Values, cookies []*http.Cookie, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var testUsers = []model.User{
	{ID: 1, Name: "Ana Lima", Email: "ana@example.com", Role: model.RoleClient},
	{ID: 2, Name: "Bob Stone", Email: "bob@example.com", Role: model.RoleOperative},
}

func TestHealthz(t *testing.T) {
	a := newApp(t, nil)
	rec := a.do(http.MethodGet, "/healthz", nil, nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStaticAssets(t *testing.T) {
	a := newApp(t, nil)
	rec := a.do(http.MethodGet, "/static/app.js", nil, nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dialog-close")
}

func TestGuards(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(http.MethodGet, "/admin/clients", nil, nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	client := a.signIn(t, model.RoleClient, "tok")
	rec = a.do(http.MethodGet, "/operator/components", nil, client, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/client", rec.Header().Get("Location"))

	rec = a.do(http.MethodGet, "/login", nil, client, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/client", rec.Header().Get("Location"))

	rec = a.do(http.MethodGet, "/client", nil, client, false)
	assert.Equal(t, "/client/products", rec.Header().Get("Location"))

	rec = a.do(http.MethodGet, "/admin/campaigns", nil, nil, true)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
}

func TestLogin(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "POST /login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "Secret#123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok", "token_type": "bearer"})
	})
	a.handle(t, "GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, model.User{ID: 9, Name: "Op", Email: "op@example.com", Role: model.RoleOperative})
	})

	rec := a.do(http.MethodPost, "/login", url.Values{"email": {"op@example.com"}, "password": {"wrong"}}, nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect email or password")
	assert.Contains(t, rec.Body.String(), `value="op@example.com"`)

	rec = a.do(http.MethodPost, "/login", url.Values{"email": {"op@example.com"}, "password": {"Secret#123"}}, nil, false)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/operator", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The new session opens the operator dashboard.
	rec = a.do(http.MethodGet, "/operator", nil, cookies, false)
	assert.Equal(t, "/operator/components", rec.Header().Get("Location"))

	rec = a.do(http.MethodPost, "/logout", nil, cookies, false)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	rec = a.do(http.MethodGet, "/operator/components", nil, cookies, false)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginUnknownRole(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok"})
	})
	a.handle(t, "GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.User{ID: 9, Name: "Root", Email: "root@example.com", Role: "ROOT"})
	})

	rec := a.do(http.MethodPost, "/login", url.Values{"email": {"root@example.com"}, "password": {"Secret#123"}}, nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "This account has no dashboard.")
	for _, ck := range rec.Result().Cookies() {
		assert.NotEqual(t, "cc_session", ck.Name)
	}
}

func TestLoginValidation(t *testing.T) {
	a := newApp(t, nil)
	rec := a.do(http.MethodPost, "/login", url.Values{"email": {"not-an-email"}}, nil, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address.")
	assert.Contains(t, rec.Body.String(), "This field is required.")
}

func TestRegister(t *testing.T) {
	a := newApp(t, nil)
	var got model.RegisterInput
	a.handle(t, "POST /register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, model.User{ID: 3, Name: got.Name, Email: got.Email, Role: model.RoleClient})
	})
	a.handle(t, "POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok"})
	})
	a.handle(t, "GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.User{ID: 3, Name: "New", Role: model.RoleClient})
	})

	form := url.Values{
		"name":             {"New"},
		"email":            {"New@Example.com"},
		"password":         {"weak"},
		"confirm_password": {"weak"},
	}
	rec := a.do(http.MethodPost, "/register", form, nil, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 8 characters")
	assert.Equal(t, 0, a.count("POST /register"))

	form.Set("password", "Secret#123")
	form.Set("confirm_password", "Secret#124")
	rec = a.do(http.MethodPost, "/register", form, nil, false)
	assert.Contains(t, rec.Body.String(), "Passwords do not match.")

	form.Set("confirm_password", "Secret#123")
	rec = a.do(http.MethodPost, "/register", form, nil, false)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/client", rec.Header().Get("Location"))
	assert.Equal(t, "new@example.com", got.Email)
}

func TestRegisterBackendRejects(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "POST /register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	})
	form := url.Values{"name": {"A"}, "email": {"a@b.co"}, "password": {"Secret#123"}, "confirm_password": {"Secret#123"}}
	rec := a.do(http.MethodPost, "/register", form, nil, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestClientsTable(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUsers)
	})
	admin := a.signIn(t, model.RoleAdmin, "tok")

	rec := a.do(http.MethodGet, "/admin/clients", nil, admin, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Lima")
	assert.Contains(t, rec.Body.String(), "Bob Stone")
	assert.Equal(t, 1, a.count("GET /admin/clients"))

	// An htmx search filters the stored list without refetching.
	rec = a.do(http.MethodGet, "/admin/clients?q=ANA", nil, admin, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Lima")
	assert.NotContains(t, rec.Body.String(), "Bob Stone")
	assert.NotContains(t, rec.Body.String(), "<html")
	assert.Equal(t, 1, a.count("GET /admin/clients"))

	// A full page load refetches.
	a.do(http.MethodGet, "/admin/clients", nil, admin, false)
	assert.Equal(t, 2, a.count("GET /admin/clients"))
}

func TestMissingToken(t *testing.T) {
	a := newApp(t, nil)
	admin := a.signIn(t, model.RoleAdmin, "")
	rec := a.do(http.MethodGet, "/admin/clients", nil, admin, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are not authenticated.")
}

func TestFetchFailureShowsDetail(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /components-management/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Operatives only"})
	})
	op := a.signIn(t, model.RoleOperative, "tok")
	rec := a.do(http.MethodGet, "/operator/components", nil, op, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Operatives only")
}

func TestCreateClient(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUsers)
	})
	a.handle(t, "POST /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		var in model.UserInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "cara@example.com", in.Email)
		assert.Equal(t, model.RoleOperative, in.Role)
		writeJSON(w, http.StatusCreated, model.User{ID: 3, Name: in.Name, Email: in.Email, Role: in.Role})
	})
	admin := a.signIn(t, model.RoleAdmin, "tok")
	a.do(http.MethodGet, "/admin/clients", nil, admin, false)

	// Missing password on create is a field error; nothing reaches the backend.
	form := url.Values{"name": {"Cara Diaz"}, "email": {"Cara@Example.com"}, "role": {"OPERATIVE"}}
	rec := a.do(http.MethodPost, "/admin/clients", form, admin, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#dialog", rec.Header().Get("HX-Retarget"))
	assert.Contains(t, rec.Body.String(), "This field is required.")
	assert.Equal(t, 0, a.count("POST /admin/clients"))

	form.Set("password", "Secret#123")
	rec = a.do(http.MethodPost, "/admin/clients", form, admin, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dialog-close", rec.Header().Get("HX-Trigger"))
	assert.Contains(t, rec.Body.String(), `id="row-clients-3"`)
	assert.Contains(t, rec.Body.String(), "Cara Diaz")

	// The stored list now has the new row.
	rec = a.do(http.MethodGet, "/admin/clients?q=cara", nil, admin, true)
	assert.Contains(t, rec.Body.String(), "Cara Diaz")
	assert.Equal(t, 1, a.count("GET /admin/clients"))

	events := a.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, "clients", events[0].Entity)
	assert.Equal(t, model.ActionCreate, events[0].Action)
	assert.Equal(t, "3", events[0].EntityKey)
	assert.Equal(t, uint64(7), events[0].UserID)
}

func TestCreateWithoutStoredView(t *testing.T) {
	a := newApp(t, nil)
	var (
		mu    sync.Mutex
		users = append([]model.User(nil), testUsers...)
	)
	a.handle(t, "GET /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, users)
	})
	a.handle(t, "POST /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		var in model.UserInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		u := model.User{ID: 3, Name: in.Name, Email: in.Email, Role: in.Role}
		mu.Lock()
		users = append(users, u)
		mu.Unlock()
		writeJSON(w, http.StatusCreated, u)
	})
	admin := a.signIn(t, model.RoleAdmin, "tok")

	// No page load first: the write has to fetch a list that already holds
	// the new user.
	form := url.Values{"name": {"Cara Diaz"}, "email": {"cara@example.com"}, "role": {"CLIENT"}, "password": {"Secret#123"}}
	rec := a.do(http.MethodPost, "/admin/clients", form, admin, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, a.count("GET /admin/clients"))

	rec = a.do(http.MethodGet, "/admin/clients?q=cara", nil, admin, true)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `id="row-clients-3"`))
}

func TestUpdateWithoutHTMXRedirects(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUsers)
	})
	a.handle(t, "PUT /admin/clients/1", func(w http.ResponseWriter, r *http.Request) {
		var in model.UserInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Empty(t, in.Password)
		writeJSON(w, http.StatusOK, model.User{ID: 1, Name: in.Name, Email: in.Email, Role: in.Role})
	})
	admin := a.signIn(t, model.RoleAdmin, "tok")

	rec := a.do(http.MethodGet, "/admin/clients?edit=1", nil, admin, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="ana@example.com"`)

	form := url.Values{"name": {"Ana Maria"}, "email": {"ana@example.com"}, "role": {"CLIENT"}}
	rec = a.do(http.MethodPost, "/admin/clients/1", form, admin, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/clients", rec.Header().Get("Location"))

	var flash *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.FlashCookie {
			flash = ck
		}
	}
	require.NotNil(t, flash)

	rec = a.do(http.MethodGet, "/admin/clients?q=maria", nil, admin, true)
	assert.Contains(t, rec.Body.String(), "Ana Maria")
	assert.NotContains(t, rec.Body.String(), "Ana Lima")
}

func TestDeleteClient(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUsers)
	})
	a.handle(t, "DELETE /admin/clients/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	a.handle(t, "DELETE /admin/clients/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Client has active campaigns"})
	})
	admin := a.signIn(t, model.RoleAdmin, "tok")
	a.do(http.MethodGet, "/admin/clients", nil, admin, false)

	rec := a.do(http.MethodPost, "/admin/clients/2/delete", nil, admin, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = a.do(http.MethodGet, "/admin/clients", nil, admin, true)
	assert.NotContains(t, rec.Body.String(), "Bob Stone")

	rec = a.do(http.MethodDelete, "/admin/clients/1", nil, admin, true)
	assert.Equal(t, "#alert", rec.Header().Get("HX-Retarget"))
	assert.Contains(t, rec.Body.String(), "Client has active campaigns")

	events := a.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, model.ActionDelete, events[0].Action)
}

func TestAdminCampaignsLoadPickers(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /admin/campaigns", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Campaign{{ID: 5, Name: "Launch", Status: model.CampaignActive, Product: "Ads Pro", Client: "Ana Lima"}})
	})
	a.handle(t, "GET /products-management/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Product{{ID: 11, Name: "Ads Pro"}})
	})
	a.handle(t, "GET /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUsers)
	})
	admin := a.signIn(t, model.RoleAdmin, "tok")

	rec := a.do(http.MethodGet, "/admin/campaigns?new=1", nil, admin, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Launch")
	assert.Contains(t, body, `<option value="11">Ads Pro</option>`)
	// Only clients can own campaigns.
	assert.Contains(t, body, "Ana Lima (ana@example.com)")
	assert.NotContains(t, body, "Bob Stone (bob@example.com)")
}

func TestNewClientReachesCampaignPicker(t *testing.T) {
	a := newApp(t, nil)
	var (
		mu    sync.Mutex
		users = append([]model.User(nil), testUsers...)
	)
	a.handle(t, "GET /admin/campaigns", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Campaign{})
	})
	a.handle(t, "GET /products-management/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Product{{ID: 11, Name: "Ads Pro"}})
	})
	a.handle(t, "GET /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, users)
	})
	a.handle(t, "POST /admin/clients", func(w http.ResponseWriter, r *http.Request) {
		var in model.UserInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		u := model.User{ID: 3, Name: in.Name, Email: in.Email, Role: in.Role}
		mu.Lock()
		users = append(users, u)
		mu.Unlock()
		writeJSON(w, http.StatusCreated, u)
	})
	admin := a.signIn(t, model.RoleAdmin, "tok")

	rec := a.do(http.MethodGet, "/admin/campaigns", nil, admin, false)
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{"name": {"Cara Diaz"}, "email": {"cara@example.com"}, "role": {"CLIENT"}, "password": {"Secret#123"}}
	rec = a.do(http.MethodPost, "/admin/clients", form, admin, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/admin/campaigns/new", nil, admin, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cara Diaz (cara@example.com)")
}

func TestCampaignDatesValidated(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /campaigns/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Campaign{})
	})
	a.handle(t, "GET /products/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Product{{ID: 11, Name: "Ads Pro"}})
	})
	client := a.signIn(t, model.RoleClient, "tok")

	form := url.Values{"name": {"Spring"}, "id_product": {"11"}, "start_date": {"2025-03-10"}, "end_date": {"2025-03-01"}}
	rec := a.do(http.MethodPost, "/client/campaigns", form, client, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "End date cannot be before the start date.")
	assert.Contains(t, rec.Body.String(), `<option value="11" selected>Ads Pro</option>`)

	// Clients cannot edit or delete campaigns.
	rec = a.do(http.MethodPost, "/client/campaigns/1/delete", nil, client, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPackagesCompositeKey(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /packages-management/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Package{{ProductID: 3, ComponentID: 7, Quantity: 1, ProductName: "Ads Pro", ComponentName: "Banner"}})
	})
	a.handle(t, "GET /products-management/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Product{{ID: 3, Name: "Ads Pro"}})
	})
	a.handle(t, "GET /components/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Component{{ID: 7, Name: "Banner"}})
	})
	a.handle(t, "PUT /packages-management/3/7", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, map[string]any{"quantity": float64(4)}, in)
		writeJSON(w, http.StatusOK, model.Package{ProductID: 3, ComponentID: 7, Quantity: 4})
	})
	op := a.signIn(t, model.RoleOperative, "tok")
	a.do(http.MethodGet, "/operator/packages", nil, op, false)

	rec := a.do(http.MethodGet, "/operator/packages/3/7/edit", nil, op, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/operator/packages/3/7"`)

	rec = a.do(http.MethodPost, "/operator/packages/3/7", url.Values{"quantity": {"4"}}, op, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="row-packages-3-7"`)
	// Names come from the pickers when the backend omits them.
	assert.Contains(t, body, "Banner")
	assert.Contains(t, body, "<td>4</td>")

	events := a.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, "3/7", events[0].EntityKey)
}

func TestCatalogSubscribe(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /products/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Product{
			{ID: 1, Name: "Ads Pro", IsActive: true},
			{ID: 2, Name: "Mail Boost", IsActive: true},
		})
	})
	a.handle(t, "GET /subscriptions/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Subscription{
			{ID: 1, ProductID: 1, Status: model.SubscriptionActive},
			{ID: 2, ProductID: 2, Status: model.SubscriptionCancelled},
		})
	})
	a.handle(t, "POST /subscriptions/", func(w http.ResponseWriter, r *http.Request) {
		var in model.SubscriptionInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, uint64(2), in.ProductID)
		writeJSON(w, http.StatusCreated, model.Subscription{ID: 3, ProductID: 2, Status: model.SubscriptionActive})
	})
	client := a.signIn(t, model.RoleClient, "tok")

	rec := a.do(http.MethodGet, "/client/products", nil, client, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Subscribed")
	assert.Contains(t, body, `action="/client/products/2/subscribe"`)
	assert.NotContains(t, body, `action="/client/products/1/subscribe"`)

	rec = a.do(http.MethodPost, "/client/products/2/subscribe", nil, client, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="row-catalog-2"`)
	assert.Contains(t, rec.Body.String(), "Subscribed")
	assert.NotContains(t, rec.Body.String(), "/subscribe")

	rec = a.do(http.MethodGet, "/client/products?q=mail", nil, client, true)
	assert.NotContains(t, rec.Body.String(), "/client/products/2/subscribe")
	assert.Equal(t, 1, a.count("GET /products/list"))

	events := a.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, model.ActionSubscribe, events[0].Action)
}

func TestCatalogJoinedFetchFails(t *testing.T) {
	a := newApp(t, nil)
	a.handle(t, "GET /products/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Product{{ID: 1, Name: "Ads Pro"}})
	})
	a.handle(t, "GET /subscriptions/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Subscriptions unavailable"})
	})
	client := a.signIn(t, model.RoleClient, "tok")

	rec := a.do(http.MethodGet, "/client/products", nil, client, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Subscriptions unavailable")
	assert.NotContains(t, rec.Body.String(), "Ads Pro")
}

func TestActivityTab(t *testing.T) {
	a := newApp(t, nil)
	admin := a.signIn(t, model.RoleAdmin, "tok")
	rec := a.do(http.MethodGet, "/admin/activity", nil, admin, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Activity log is not configured.")

	at := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	a = newApp(t, fakeActivity{rows: []model.Activity{
		{ID: 1, UserID: 7, Role: model.RoleAdmin, Entity: "clients", Action: model.ActionDelete, EntityKey: "12", OccurredAt: at},
	}})
	admin = a.signIn(t, model.RoleAdmin, "tok")
	rec = a.do(http.MethodGet, "/admin/activity", nil, admin, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2025-03-01 10:30:00")
	assert.Contains(t, rec.Body.String(), "<td>clients</td>")
}

func TestNotFoundPage(t *testing.T) {
	a := newApp(t, nil)
	rec := a.do(http.MethodGet, "/nope", nil, nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Found")
}
