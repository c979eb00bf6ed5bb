package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderTotals are the four monetary fields persisted with every order, each
// rounded to two fraction digits.
type OrderTotals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discount     decimal.Decimal `json:"discount"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// CalculateOrderTotals derives the persisted money fields from a cart
// subtotal, the chosen shipping method, the storefront settings and an
// optional coupon. The grand total never goes negative.
func CalculateOrderTotals(subtotal decimal.Decimal, method ShippingMethod, settings Settings, coupon *Coupon, now time.Time) OrderTotals {
	subtotal = subtotal.Round(2)

	shipping := method.Price
	if settings.EnableFreeShipping && subtotal.GreaterThanOrEqual(settings.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	discount := couponDiscount(coupon, subtotal, now)

	grand := subtotal.Add(shipping).Sub(discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return OrderTotals{
		Subtotal:     subtotal,
		ShippingCost: shipping.Round(2),
		Discount:     discount.Round(2),
		GrandTotal:   grand.Round(2),
	}
}

// couponDiscount returns the discount a coupon grants against a subtotal.
// Ineligible coupons grant zero rather than erroring: promotions are
// best-effort. Percent coupons are capped by max discount when one is set,
// fixed coupons are capped at the subtotal.
func couponDiscount(c *Coupon, subtotal decimal.Decimal, now time.Time) decimal.Decimal {
	if c == nil || !c.Eligible(subtotal, now) {
		return decimal.Zero
	}
	switch c.Type {
	case CouponPercent:
		d := subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
		if c.MaxDiscount.IsPositive() && d.GreaterThan(c.MaxDiscount) {
			d = c.MaxDiscount
		}
		return d
	case CouponFixed:
		return decimal.Min(c.Value, subtotal)
	default:
		return decimal.Zero
	}
}
