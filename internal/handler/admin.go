package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/repository"
	"github.com/cloudchaser/dashboard/internal/table"
)

// activityLimit is how many activity rows the admin tab shows.
const activityLimit = 100

const msgNoActivity = "Activity log is not configured."

// ActivityReader reads the recorded dashboard writes, newest first.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
}

// AdminHandler serves the admin dashboard: users, campaigns and the
// activity log.
type AdminHandler struct {
	d         *Dashboard
	Clients   *resource[model.User, model.UserInput, clientForm]
	Campaigns *resource[model.Campaign, model.CampaignInput, campaignForm]
}

// NewAdminHandler wires the admin tables to the backend.
func NewAdminHandler(d *Dashboard) *AdminHandler {
	h := &AdminHandler{d: d}
	h.Clients = &resource[model.User, model.UserInput, clientForm]{
		d:         d,
		name:      table.Clients.Name,
		title:     "Clients",
		label:     "User",
		section:   "admin",
		base:      "/admin/clients",
		schema:    table.Clients,
		api:       d.API.Clients(),
		canCreate: true,
		canEdit:   true,
		canDelete: true,
		blank:     func() clientForm { return clientForm{Role: string(model.RoleClient)} },
		fill:      clientFormOf,

		dependents: []string{table.Campaigns.Name},
	}
	h.Campaigns = &resource[model.Campaign, model.CampaignInput, campaignForm]{
		d:         d,
		name:      table.Campaigns.Name,
		title:     "Campaigns",
		label:     "Campaign",
		section:   "admin",
		base:      "/admin/campaigns",
		schema:    table.Campaigns,
		api:       d.API.AdminCampaigns(),
		canCreate: true,
		canEdit:   true,
		canDelete: true,
		load:      h.loadCampaigns,
		blank:     func() campaignForm { return campaignForm{Status: string(model.CampaignPending)} },
		fill:      campaignFormOf,
		patch:     patchCampaign,
	}
	return h
}

// loadCampaigns fetches the campaigns together with the product and
// client pickers.
func (h *AdminHandler) loadCampaigns(ctx context.Context, token string) ([]model.Campaign, Options, error) {
	var (
		items []model.Campaign
		opts  Options
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = h.d.API.AdminCampaigns().List(ctx, token)
		return err
	})
	g.Go(func() (err error) {
		opts.Products, err = h.d.API.Products().List(ctx, token)
		return err
	})
	g.Go(func() error {
		users, err := h.d.API.Clients().List(ctx, token)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.Role == model.RoleClient {
				opts.Clients = append(opts.Clients, u)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, Options{}, err
	}
	return items, opts, nil
}

// patchCampaign fills the product and client names the write response
// may leave out.
func patchCampaign(c model.Campaign, opts Options) model.Campaign {
	if c.Product == "" {
		for _, p := range opts.Products {
			if p.ID == c.ProductID {
				c.Product = p.Name
				break
			}
		}
	}
	if c.Client == "" {
		for _, u := range opts.Clients {
			if u.ID == c.ClientID {
				c.Client = u.Name
				break
			}
		}
	}
	return c
}

// Activity renders the activity log tab.
func (h *AdminHandler) Activity(c echo.Context) error {
	view := &ActivityView{}
	if h.d.Activity == nil {
		view.Error = msgNoActivity
	} else {
		ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
		defer cancel()
		rows, err := h.d.Activity.Recent(ctx, activityLimit)
		switch {
		case errors.Is(err, repository.ErrNotConfigured):
			view.Error = msgNoActivity
		case err != nil:
			h.d.Log.Error("read activity log", "err", err)
			view.Error = msgGeneric
		}
		view.Rows = rows
	}
	return renderPage(c, http.StatusOK, "admin", "/admin/activity", Page{Title: "Activity", Activity: view})
}
