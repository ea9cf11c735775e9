package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/table"
)

// OperatorHandler serves the operator dashboard: components, products and
// the packages linking them.
type OperatorHandler struct {
	d          *Dashboard
	Components *resource[model.Component, model.ComponentInput, componentForm]
	Products   *resource[model.Product, model.ProductInput, productForm]
	Packages   *resource[model.Package, model.PackageInput, packageForm]
}

// NewOperatorHandler wires the operator tables to the backend.
func NewOperatorHandler(d *Dashboard) *OperatorHandler {
	h := &OperatorHandler{d: d}
	h.Components = &resource[model.Component, model.ComponentInput, componentForm]{
		d:         d,
		name:      table.Components.Name,
		title:     "Components",
		label:     "Component",
		section:   "operator",
		base:      "/operator/components",
		schema:    table.Components,
		api:       d.API.Components(),
		canCreate: true,
		canEdit:   true,
		canDelete: true,
		blank:     func() componentForm { return componentForm{} },
		fill:      componentFormOf,

		dependents: []string{table.Packages.Name},
	}
	h.Products = &resource[model.Product, model.ProductInput, productForm]{
		d:         d,
		name:      table.Products.Name,
		title:     "Products",
		label:     "Product",
		section:   "operator",
		base:      "/operator/products",
		schema:    table.Products,
		api:       d.API.Products(),
		canCreate: true,
		canEdit:   true,
		canDelete: true,
		blank:     func() productForm { return productForm{IsActive: true} },
		fill:      productFormOf,

		dependents: []string{table.Packages.Name},
	}
	h.Packages = &resource[model.Package, model.PackageInput, packageForm]{
		d:         d,
		name:      table.Packages.Name,
		title:     "Packages",
		label:     "Package",
		section:   "operator",
		base:      "/operator/packages",
		schema:    table.Packages,
		api:       d.API.Packages(),
		canCreate: true,
		canEdit:   true,
		canDelete: true,
		load:      h.loadPackages,
		blank:     func() packageForm { return packageForm{Quantity: 1} },
		fill:      packageFormOf,
		patch:     patchPackage,
		key:       packageKey,
	}
	return h
}

// packageKey reads the composite key from /:product_id/:component_id.
func packageKey(c echo.Context) string {
	return c.Param("product_id") + "/" + c.Param("component_id")
}

// loadPackages fetches the packages together with the product and
// component pickers.
func (h *OperatorHandler) loadPackages(ctx context.Context, token string) ([]model.Package, Options, error) {
	var (
		items []model.Package
		opts  Options
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = h.d.API.Packages().List(ctx, token)
		return err
	})
	g.Go(func() (err error) {
		opts.Products, err = h.d.API.Products().List(ctx, token)
		return err
	})
	g.Go(func() (err error) {
		opts.Components, err = h.d.API.ComponentOptions(ctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, Options{}, err
	}
	return items, opts, nil
}

// patchPackage fills the display names from the pickers.  The backend
// answers writes with the bare link.
func patchPackage(p model.Package, opts Options) model.Package {
	if p.ProductName == "" {
		for _, pr := range opts.Products {
			if pr.ID == p.ProductID {
				p.ProductName = pr.Name
				break
			}
		}
	}
	if p.ComponentName == "" {
		for _, c := range opts.Components {
			if c.ID == p.ComponentID {
				p.ComponentName = c.Name
				break
			}
		}
	}
	return p
}
