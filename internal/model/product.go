package model

import "strconv"

// Component is a billable building block that products are assembled from.
type Component struct {
	ID          uint64 `json:"id_component"`
	Name        string `json:"name"`
	Type        string `json:"component_type"`
	UnitCost    Money  `json:"unit_cost"`
	Description string `json:"description,omitempty"`
}

// ComponentInput is the create/update payload for a component.
type ComponentInput struct {
	Name        string `json:"name"`
	Type        string `json:"component_type"`
	UnitCost    Money  `json:"unit_cost"`
	Description string `json:"description,omitempty"`
}

// ComponentDetail is a component as listed on a product card.
type ComponentDetail struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Product is a subscribable bundle of components with a monthly price.
type Product struct {
	ID           uint64            `json:"id_product"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	MonthlyPrice Money             `json:"monthly_price"`
	IsActive     bool              `json:"is_active"`
	Components   []ComponentDetail `json:"components,omitempty"`
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MonthlyPrice Money  `json:"monthly_price"`
	IsActive     bool   `json:"is_active"`
}

// Package links a component into a product with a quantity.  The pair
// (ProductID, ComponentID) is the key.
type Package struct {
	ProductID     uint64 `json:"id_product"`
	ComponentID   uint64 `json:"id_component"`
	Quantity      int    `json:"quantity"`
	ProductName   string `json:"product_name,omitempty"`
	ComponentName string `json:"component_name,omitempty"`
}

// Key returns the composite key as "product/component".
func (p Package) Key() string {
	return PackageKey(p.ProductID, p.ComponentID)
}

// PackageKey formats a composite package key.
func PackageKey(productID, componentID uint64) string {
	return strconv.FormatUint(productID, 10) + "/" + strconv.FormatUint(componentID, 10)
}

// PackageInput is the create payload.  Updates leave the ids zero so only
// Quantity is sent.
type PackageInput struct {
	ProductID   uint64 `json:"id_product,omitempty"`
	ComponentID uint64 `json:"id_component,omitempty"`
	Quantity    int    `json:"quantity"`
}

// SubscriptionStatus is the state of a client's product subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "Active"
	SubscriptionCancelled SubscriptionStatus = "Cancelled"
	SubscriptionExpired   SubscriptionStatus = "Expired"
)

// Subscription records that a client owns a product.
type Subscription struct {
	ID        uint64             `json:"id_subscription"`
	ProductID uint64             `json:"id_product"`
	UserID    uint64             `json:"id_user"`
	Status    SubscriptionStatus `json:"status"`
	StartDate Date               `json:"start_date"`
}

// SubscriptionInput is the body of POST /subscriptions/.
type SubscriptionInput struct {
	ProductID uint64 `json:"id_product"`
}
