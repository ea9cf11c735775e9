package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/session"
	"github.com/cloudchaser/dashboard/internal/table"
)

const catalogBase = "/client/products"

// ClientHandler serves the client dashboard: the product catalog with
// subscriptions and the client's own campaigns.
type ClientHandler struct {
	d         *Dashboard
	Campaigns *resource[model.Campaign, model.CampaignInput, myCampaignForm]
}

// catalogState is the stored catalog view.  Subscribed holds the keys of
// products with an active subscription.
type catalogState struct {
	Items      []model.Product `json:"items"`
	Subscribed map[string]bool `json:"subscribed"`
}

// NewClientHandler wires the client tables to the backend.
func NewClientHandler(d *Dashboard) *ClientHandler {
	h := &ClientHandler{d: d}
	h.Campaigns = &resource[model.Campaign, model.CampaignInput, myCampaignForm]{
		d:         d,
		name:      table.MyCampaigns.Name,
		title:     "My campaigns",
		label:     "Campaign",
		section:   "client",
		base:      "/client/campaigns",
		schema:    table.MyCampaigns,
		api:       d.API.MyCampaigns(),
		canCreate: true,
		load:      h.loadCampaigns,
		blank:     func() myCampaignForm { return myCampaignForm{} },
		fill:      func(model.Campaign) myCampaignForm { return myCampaignForm{} },
		patch:     patchCampaign,
	}
	return h
}

// loadCampaigns fetches the client's campaigns and the product picker.
func (h *ClientHandler) loadCampaigns(ctx context.Context, token string) ([]model.Campaign, Options, error) {
	var (
		items []model.Campaign
		opts  Options
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = h.d.API.MyCampaigns().List(ctx, token)
		return err
	})
	g.Go(func() (err error) {
		opts.Products, err = h.d.API.Catalog(ctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, Options{}, err
	}
	return items, opts, nil
}

// loadCatalog fetches the catalog and the client's subscriptions together.
func (h *ClientHandler) loadCatalog(ctx context.Context, token string) (catalogState, error) {
	var (
		products []model.Product
		subs     []model.Subscription
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = h.d.API.Catalog(ctx, token)
		return err
	})
	g.Go(func() (err error) {
		subs, err = h.d.API.Subscriptions().List(ctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalogState{}, err
	}
	st := catalogState{Items: products, Subscribed: map[string]bool{}}
	for _, s := range subs {
		if s.Status == model.SubscriptionActive {
			st.Subscribed[strconv.FormatUint(s.ProductID, 10)] = true
		}
	}
	return st, nil
}

func (h *ClientHandler) catalog(ctx context.Context, sess session.Session, refresh bool) (catalogState, error) {
	var st catalogState
	if !refresh {
		ok, err := h.d.Store.LoadView(ctx, sess.ID, table.Catalog.Name, &st)
		if err != nil {
			h.d.Log.Warn("load view state", "table", table.Catalog.Name, "err", err)
		} else if ok {
			if st.Subscribed == nil {
				st.Subscribed = map[string]bool{}
			}
			return st, nil
		}
	}
	st, err := h.loadCatalog(ctx, sess.Token)
	if err != nil {
		return catalogState{}, err
	}
	h.saveCatalog(ctx, sess, st)
	return st, nil
}

func (h *ClientHandler) saveCatalog(ctx context.Context, sess session.Session, st catalogState) {
	if err := h.d.Store.SaveView(ctx, sess.ID, table.Catalog.Name, st); err != nil {
		h.d.Log.Warn("save view state", "table", table.Catalog.Name, "err", err)
	}
}

func catalogView(list *table.List[model.Product], st catalogState, query string) *TableView {
	return &TableView{
		Name:       table.Catalog.Name,
		Title:      "Products",
		Base:       catalogBase,
		Query:      query,
		Headers:    list.Headers(),
		Rows:       list.Rows(list.Filter(query)),
		Kind:       rowsSubscribe,
		Empty:      "No products found.",
		Subscribed: st.Subscribed,
	}
}

// Products renders the catalog.  A full page load refetches products and
// subscriptions; an htmx search filters the stored catalog.
func (h *ClientHandler) Products(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	htmx := middleware.IsHTMX(c)
	query := c.QueryParam("q")

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var tv *TableView
	st, err := h.catalog(ctx, sess, !htmx)
	if err != nil {
		tv = &TableView{Name: table.Catalog.Name, Title: "Products", Base: catalogBase, Kind: rowsReadOnly, Error: userMessage(h.d.Log, err)}
	} else {
		tv = catalogView(table.New(table.Catalog, st.Items), st, query)
	}
	if htmx {
		return c.Render(http.StatusOK, "table", tv)
	}
	return renderPage(c, http.StatusOK, "client", catalogBase, Page{Table: tv})
}

// Subscribe posts one subscription for the product in the path and marks
// it subscribed in the stored catalog.
func (h *ClientHandler) Subscribe(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	key := c.Param("id")
	productID, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if _, err := h.d.API.Subscriptions().Create(ctx, sess.Token, model.SubscriptionInput{ProductID: productID}); err != nil {
		msg := userMessage(h.d.Log, err)
		if middleware.IsHTMX(c) {
			return renderAlert(c, msg)
		}
		return redirectWithFlash(c, catalogBase, session.Flash{Kind: session.FlashError, Message: msg})
	}

	st, err := h.catalog(ctx, sess, false)
	if err != nil {
		h.d.Log.Warn("refresh catalog after subscribe", "err", err)
		st = catalogState{Subscribed: map[string]bool{}}
	}
	st.Subscribed[key] = true
	h.saveCatalog(ctx, sess, st)
	h.d.record(c, sess, "subscriptions", model.ActionSubscribe, key)

	list := table.New(table.Catalog, st.Items)
	name := "the product"
	if p, ok := list.Get(key); ok {
		name = p.Name
	}
	if middleware.IsHTMX(c) {
		if p, ok := list.Get(key); ok {
			return c.Render(http.StatusOK, "row", RowView{Table: catalogView(list, st, ""), Row: list.Row(p)})
		}
		return c.NoContent(http.StatusOK)
	}
	return redirectWithFlash(c, catalogBase, session.Flash{Kind: session.FlashSuccess, Message: "Subscribed to " + name + "."})
}
