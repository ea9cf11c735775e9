package api

import (
	"context"
	"net/http"

	"github.com/cloudchaser/dashboard/internal/model"
)

// Register creates a CLIENT account.  The backend applies its own password
// policy and answers 400 with a detail message when it rejects one.
func (c *Client) Register(ctx context.Context, in model.RegisterInput) (model.User, error) {
	var u model.User
	err := c.doJSON(ctx, http.MethodPost, "/register", "", in, &u)
	return u, err
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &u)
	return u, err
}

// Clients is the admin user collection (clients and operatives).
func (c *Client) Clients() Resource[model.User, model.UserInput] {
	return NewResource[model.User, model.UserInput](c, "/admin/clients")
}

// AdminCampaigns is every campaign, across clients.
func (c *Client) AdminCampaigns() Resource[model.Campaign, model.CampaignInput] {
	return NewResource[model.Campaign, model.CampaignInput](c, "/admin/campaigns")
}

// Components is the operator component collection.
func (c *Client) Components() Resource[model.Component, model.ComponentInput] {
	return NewResource[model.Component, model.ComponentInput](c, "/components-management/")
}

// Products is the operator product collection.
func (c *Client) Products() Resource[model.Product, model.ProductInput] {
	return NewResource[model.Product, model.ProductInput](c, "/products-management/")
}

// Packages is the product–component link collection.  Item keys are
// "{product_id}/{component_id}".
func (c *Client) Packages() Resource[model.Package, model.PackageInput] {
	return NewResource[model.Package, model.PackageInput](c, "/packages-management/")
}

// MyCampaigns is the calling client's own campaigns.
func (c *Client) MyCampaigns() Resource[model.Campaign, model.CampaignInput] {
	return NewResource[model.Campaign, model.CampaignInput](c, "/campaigns/")
}

// Subscriptions is the calling client's subscriptions.
func (c *Client) Subscriptions() Resource[model.Subscription, model.SubscriptionInput] {
	return NewResource[model.Subscription, model.SubscriptionInput](c, "/subscriptions/")
}

// ComponentOptions lists components for pickers.
func (c *Client) ComponentOptions(ctx context.Context, token string) ([]model.Component, error) {
	var out []model.Component
	if err := c.do(ctx, http.MethodGet, "/components/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Catalog lists the active products a client can subscribe to.
func (c *Client) Catalog(ctx context.Context, token string) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/products/list", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
