package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func standardDelivery() ShippingMethod {
	return ShippingMethod{ID: 1, Name: "Standard Delivery", Price: dec("50")}
}

func TestPercentCouponCappedByMaxDiscount(t *testing.T) {
	coupon := &Coupon{Code: "TEN", Type: CouponPercent, Value: dec("10"), MaxDiscount: dec("50"), Active: true}
	got := CalculateOrderTotals(dec("1000"), standardDelivery(), Settings{}, coupon, time.Now())
	require.True(t, dec("50").Equal(got.Discount), "discount %s", got.Discount)
	require.True(t, dec("1000").Equal(got.Subtotal))
	require.True(t, dec("1000").Equal(got.GrandTotal), "grand %s", got.GrandTotal)
}

func TestPercentCouponWithoutCap(t *testing.T) {
	coupon := &Coupon{Code: "TEN", Type: CouponPercent, Value: dec("10"), Active: true}
	got := CalculateOrderTotals(dec("1000"), standardDelivery(), Settings{}, coupon, time.Now())
	require.True(t, dec("100").Equal(got.Discount), "discount %s", got.Discount)
}

func TestFixedCouponCappedAtSubtotal(t *testing.T) {
	coupon := &Coupon{Code: "B100", Type: CouponFixed, Value: dec("100"), Active: true}
	got := CalculateOrderTotals(dec("40"), standardDelivery(), Settings{}, coupon, time.Now())
	require.True(t, dec("40").Equal(got.Discount), "discount %s", got.Discount)
	// grand total equals the shipping cost, never negative
	require.True(t, got.ShippingCost.Equal(got.GrandTotal), "grand %s", got.GrandTotal)
}

func TestGrandTotalNeverNegative(t *testing.T) {
	settings := Settings{EnableFreeShipping: true, FreeShippingThreshold: dec("0")}
	coupon := &Coupon{Code: "B100", Type: CouponFixed, Value: dec("100"), Active: true}
	got := CalculateOrderTotals(dec("40"), standardDelivery(), settings, coupon, time.Now())
	require.False(t, got.GrandTotal.IsNegative())
	require.True(t, got.GrandTotal.IsZero(), "grand %s", got.GrandTotal)
}

func TestFreeShippingThreshold(t *testing.T) {
	settings := Settings{EnableFreeShipping: true, FreeShippingThreshold: dec("500")}

	got := CalculateOrderTotals(dec("600"), standardDelivery(), settings, nil, time.Now())
	require.True(t, got.ShippingCost.IsZero(), "shipping %s", got.ShippingCost)

	got = CalculateOrderTotals(dec("400"), standardDelivery(), settings, nil, time.Now())
	require.True(t, dec("50").Equal(got.ShippingCost))

	// disabled flag keeps the listed price even above the threshold
	got = CalculateOrderTotals(dec("600"), standardDelivery(), Settings{FreeShippingThreshold: dec("500")}, nil, time.Now())
	require.True(t, dec("50").Equal(got.ShippingCost))
}

func TestCouponEligibilityGates(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)
	base := Coupon{Code: "GATE", Type: CouponFixed, Value: dec("20"), Active: true}

	inactive := base
	inactive.Active = false

	minSpend := base
	minSpend.MinSpend = dec("500")

	past := base
	past.ExpireAt = &expired

	usedUp := base
	usedUp.UsageLimit = 3
	usedUp.Used = 3

	for name, c := range map[string]Coupon{
		"inactive":      inactive,
		"below minimum": minSpend,
		"expired":       past,
		"usage limit":   usedUp,
	} {
		got := CalculateOrderTotals(dec("100"), standardDelivery(), Settings{}, &c, now)
		require.True(t, got.Discount.IsZero(), "%s coupon must grant no discount, got %s", name, got.Discount)
	}

	// unlimited usage: limit 0 never blocks
	unlimited := base
	unlimited.Used = 9999
	got := CalculateOrderTotals(dec("100"), standardDelivery(), Settings{}, &unlimited, now)
	require.True(t, dec("20").Equal(got.Discount))
}

func TestTotalsRoundedToTwoDigits(t *testing.T) {
	coupon := &Coupon{Code: "ODD", Type: CouponPercent, Value: dec("7.77"), Active: true}
	got := CalculateOrderTotals(dec("123.45"), standardDelivery(), Settings{}, coupon, time.Now())
	for name, v := range map[string]decimal.Decimal{
		"subtotal": got.Subtotal,
		"shipping": got.ShippingCost,
		"discount": got.Discount,
		"grand":    got.GrandTotal,
	} {
		require.True(t, v.Equal(v.Round(2)), "%s %s carries more than two fraction digits", name, v)
	}
}
