package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product in the shop. Prices are decimals; the
// velvet price is an optional alternate-variant price (zero when the product
// has no velvet variant).
type Product struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	VelvetPrice   decimal.Decimal `json:"velvet_price"`
	Stock         int             `json:"stock"`
	ImageURL      string          `json:"image_url"`
	ImagePublicID string          `json:"-"`
	CategoryID    int64           `json:"category_id"`
	Category      string          `json:"category"`
	CreatedAt     string          `json:"created_at"`
}

// Category represents a product category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CouponType is the discount mode of a coupon.
type CouponType string

const (
	CouponPercent CouponType = "percent"
	CouponFixed   CouponType = "fixed"
)

// Coupon is an admin-defined discount rule with eligibility constraints.
type Coupon struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Type        CouponType      `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinSpend    decimal.Decimal `json:"min_spend"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
	UsageLimit  int             `json:"usage_limit"`
	Used        int             `json:"used"`
	ExpireAt    *time.Time      `json:"expire_at,omitempty"`
	Active      bool            `json:"active"`
}

// Eligible reports whether the coupon may be applied against a subtotal at
// the given time. Every gate must hold; a failing coupon grants no discount
// but raises no error.
func (c Coupon) Eligible(subtotal decimal.Decimal, now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpireAt != nil && now.After(*c.ExpireAt) {
		return false
	}
	if subtotal.LessThan(c.MinSpend) {
		return false
	}
	if c.UsageLimit > 0 && c.Used >= c.UsageLimit {
		return false
	}
	return true
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending      OrderStatus = "PENDING"
	OrderSlipUploaded OrderStatus = "SLIP_UPLOADED"
	OrderConfirmed    OrderStatus = "CONFIRMED"
	OrderShipping     OrderStatus = "SHIPPING"
	OrderDelivered    OrderStatus = "DELIVERED"
	OrderCancelled    OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known status value. Admins may set any known
// status in any order; only unknown values are rejected.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderSlipUploaded, OrderConfirmed, OrderShipping, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is a checkout submission with its monetary snapshot. The four money
// fields are frozen at creation time and never recomputed.
type Order struct {
	ID             string          `json:"id"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	CustomerEmail  string          `json:"customer_email"`
	Address        string          `json:"address"`
	Note           string          `json:"note,omitempty"`
	ShippingMethod string          `json:"shipping_method"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	Discount       decimal.Decimal `json:"discount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	Status         OrderStatus     `json:"status"`
	SlipURL        string          `json:"slip_url,omitempty"`
	CreatedAt      string          `json:"created_at"`
	Items          []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a snapshot of a cart line at order-creation time. Intentionally
// decoupled from live Product data so historical orders stay stable when
// catalog prices change.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// ShippingMethod is an admin-managed delivery option.
type ShippingMethod struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Event is a gallery/events entry shown on the storefront.
type Event struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	ImagePublicID string `json:"-"`
	EventDate     string `json:"event_date"`
	CreatedAt     string `json:"created_at"`
}

// ValentineCard is a shareable greeting card, looked up by its code.
type ValentineCard struct {
	Code      string `json:"code"`
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// User is a back-office account record managed by the admin panel.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Settings holds the single-row marketing settings for the storefront.
type Settings struct {
	StoreName             string          `json:"store_name"`
	PromoBanner           string          `json:"promo_banner"`
	EnableFreeShipping    bool            `json:"enable_free_shipping"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
}
