package table

import (
	"strconv"
	"strings"

	"github.com/cloudchaser/dashboard/internal/model"
)

func id(n uint64) string { return strconv.FormatUint(n, 10) }

func col[T any](header string, v func(T) string) Column[T] {
	return Column[T]{Header: header, Value: v}
}

// Clients lists users on the admin dashboard.
var Clients = Schema[model.User]{
	Name:   "clients",
	Key:    func(u model.User) string { return id(u.ID) },
	Search: func(u model.User) []string { return []string{u.Name, u.Email, u.PhoneNumber, u.Address} },
	Columns: []Column[model.User]{
		col("Name", func(u model.User) string { return u.Name }),
		col("Email", func(u model.User) string { return u.Email }),
		col("Phone", func(u model.User) string { return u.PhoneNumber }),
		col("Address", func(u model.User) string { return u.Address }),
		col("Role", func(u model.User) string { return string(u.Role) }),
	},
}

// Campaigns lists every campaign on the admin dashboard.
var Campaigns = Schema[model.Campaign]{
	Name: "campaigns",
	Key:  func(c model.Campaign) string { return id(c.ID) },
	Search: func(c model.Campaign) []string {
		return []string{c.Name, c.Product, string(c.Status), c.Client}
	},
	Columns: []Column[model.Campaign]{
		col("Name", func(c model.Campaign) string { return c.Name }),
		col("Client", func(c model.Campaign) string { return c.Client }),
		col("Product", func(c model.Campaign) string { return c.Product }),
		col("Status", func(c model.Campaign) string { return string(c.Status) }),
		col("Start", func(c model.Campaign) string { return c.StartDate.String() }),
		col("End", func(c model.Campaign) string { return c.EndDate.String() }),
	},
}

// Components lists components on the operator dashboard.
var Components = Schema[model.Component]{
	Name:   "components",
	Key:    func(c model.Component) string { return id(c.ID) },
	Search: func(c model.Component) []string { return []string{c.Name, c.Type, c.Description} },
	Columns: []Column[model.Component]{
		col("Name", func(c model.Component) string { return c.Name }),
		col("Type", func(c model.Component) string { return c.Type }),
		col("Unit cost", func(c model.Component) string { return c.UnitCost.String() }),
		col("Description", func(c model.Component) string { return c.Description }),
	},
}

// Products lists products on the operator dashboard.
var Products = Schema[model.Product]{
	Name:   "products",
	Key:    func(p model.Product) string { return id(p.ID) },
	Search: func(p model.Product) []string { return []string{p.Name, p.Description} },
	Columns: []Column[model.Product]{
		col("Name", func(p model.Product) string { return p.Name }),
		col("Description", func(p model.Product) string { return p.Description }),
		col("Monthly price", func(p model.Product) string { return p.MonthlyPrice.String() }),
		col("Active", func(p model.Product) string { return yesNo(p.IsActive) }),
	},
}

// Packages lists product–component links on the operator dashboard.
var Packages = Schema[model.Package]{
	Name:   "packages",
	Key:    model.Package.Key,
	Search: func(p model.Package) []string { return []string{p.ProductName, p.ComponentName} },
	Columns: []Column[model.Package]{
		col("Product", func(p model.Package) string { return p.ProductName }),
		col("Component", func(p model.Package) string { return p.ComponentName }),
		col("Quantity", func(p model.Package) string { return strconv.Itoa(p.Quantity) }),
	},
}

// MyCampaigns lists the signed-in client's campaigns.
var MyCampaigns = Schema[model.Campaign]{
	Name:   "my-campaigns",
	Key:    func(c model.Campaign) string { return id(c.ID) },
	Search: func(c model.Campaign) []string { return []string{c.Name, c.Product} },
	Columns: []Column[model.Campaign]{
		col("Name", func(c model.Campaign) string { return c.Name }),
		col("Product", func(c model.Campaign) string { return c.Product }),
		col("Status", func(c model.Campaign) string { return string(c.Status) }),
		col("Start", func(c model.Campaign) string { return c.StartDate.String() }),
		col("End", func(c model.Campaign) string { return c.EndDate.String() }),
	},
}

// Catalog lists the products a client can subscribe to.
var Catalog = Schema[model.Product]{
	Name:   "catalog",
	Key:    func(p model.Product) string { return id(p.ID) },
	Search: func(p model.Product) []string { return []string{p.Name, p.Description} },
	Columns: []Column[model.Product]{
		col("Name", func(p model.Product) string { return p.Name }),
		col("Description", func(p model.Product) string { return p.Description }),
		col("Monthly price", func(p model.Product) string { return p.MonthlyPrice.String() }),
		col("Includes", func(p model.Product) string { return includes(p.Components) }),
	},
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func includes(cs []model.ComponentDetail) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = strconv.Itoa(c.Quantity) + "× " + c.Name
	}
	return strings.Join(parts, ", ")
}
