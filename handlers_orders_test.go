package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func postCheckout(t *testing.T, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	checkoutHandler(nil)(rec, req)
	return rec
}

func checkoutForm(t *testing.T, lines []CartLine) url.Values {
	t.Helper()
	items, err := json.Marshal(lines)
	require.NoError(t, err)
	form := url.Values{}
	form.Set("customer_name", "Nok")
	form.Set("customer_phone", "0812345678")
	form.Set("address", "99 Sukhumvit Rd, Bangkok")
	form.Set("shipping_method_id", "1")
	form.Set("items", string(items))
	return form
}

func TestCheckoutCreatesOrderFromVariantLine(t *testing.T) {
	pid := DevAddProduct(Product{Title: "Red Rose Bouquet", Price: decimal.NewFromInt(1290), Stock: 5})

	lines := []CartLine{{
		ID:       pid + "-fresh-standard",
		Title:    "Red Rose Bouquet",
		Price:    decimal.NewFromInt(1290),
		Quantity: 1,
	}}
	rec := postCheckout(t, checkoutForm(t, lines))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var o Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	require.Len(t, o.Items, 1)
	require.Equal(t, pid, o.Items[0].ProductID, "variant suffix must be stripped before the catalog lookup")
	require.Equal(t, OrderPending, o.Status)
	require.True(t, decimal.NewFromInt(1290).Equal(o.Subtotal), "subtotal %s", o.Subtotal)
	// standard delivery is 50 and free shipping is off by default
	require.True(t, decimal.NewFromInt(1340).Equal(o.GrandTotal), "grand %s", o.GrandTotal)

	stored, ok := DevGetOrder(o.ID)
	require.True(t, ok)
	require.Equal(t, o.GrandTotal.StringFixed(2), stored.GrandTotal.StringFixed(2))
}

func TestCheckoutDropsUnknownLinesButKeepsValid(t *testing.T) {
	pid := DevAddProduct(Product{Title: "Tulip Vase", Price: decimal.NewFromInt(450), Stock: 3})

	lines := []CartLine{
		{ID: uuid.NewString() + "-fresh", Title: "Ghost Product", Price: decimal.NewFromInt(999), Quantity: 1},
		{ID: pid, Title: "Tulip Vase", Price: decimal.NewFromInt(450), Quantity: 2},
	}
	rec := postCheckout(t, checkoutForm(t, lines))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var o Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	require.Len(t, o.Items, 1)
	require.Equal(t, pid, o.Items[0].ProductID)
	require.True(t, decimal.NewFromInt(900).Equal(o.Subtotal), "subtotal %s", o.Subtotal)
}

func TestCheckoutRejectedWhenNoValidLinesRemain(t *testing.T) {
	lines := []CartLine{
		{ID: uuid.NewString(), Title: "Gone", Price: decimal.NewFromInt(100), Quantity: 1},
	}
	rec := postCheckout(t, checkoutForm(t, lines))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "clear")
}

func TestCheckoutRequiresContactFields(t *testing.T) {
	pid := DevAddProduct(Product{Title: "Lily Box", Price: decimal.NewFromInt(650)})
	form := checkoutForm(t, []CartLine{{ID: pid, Price: decimal.NewFromInt(650), Quantity: 1}})
	form.Set("customer_phone", "")
	rec := postCheckout(t, form)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutAppliesCoupon(t *testing.T) {
	pid := DevAddProduct(Product{Title: "Peony Basket", Price: decimal.NewFromInt(1000)})
	coupon := DevAddCoupon(Coupon{Code: "TEN10", Type: CouponPercent, Value: decimal.NewFromInt(10), MaxDiscount: decimal.NewFromInt(50), Active: true})

	form := checkoutForm(t, []CartLine{{ID: pid, Price: decimal.NewFromInt(1000), Quantity: 1}})
	form.Set("coupon_code", coupon.Code)
	rec := postCheckout(t, form)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var o Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	require.Equal(t, "TEN10", o.CouponCode)
	require.True(t, decimal.NewFromInt(50).Equal(o.Discount), "discount %s", o.Discount)

	used, ok := DevGetCouponByCode("TEN10")
	require.True(t, ok)
	require.Equal(t, 1, used.Used)
}

func TestResolveOrderItemsSnapshotsCartPrice(t *testing.T) {
	catalog := map[string]Product{
		"p1": {ID: "p1", Title: "Rose", Price: decimal.NewFromInt(1500)},
	}
	lookup := func(id string) (Product, bool) {
		p, ok := catalog[id]
		return p, ok
	}
	lines := []CartLine{
		{ID: "p1-velvet", Title: "Rose (velvet)", Price: decimal.NewFromInt(1890), Quantity: 1},
		{ID: "p1", Quantity: 2}, // no snapshot price: falls back to catalog
		{ID: "p1", Quantity: 0}, // invalid quantity dropped
	}
	items := resolveOrderItems(lines, lookup)
	require.Len(t, items, 2)
	require.True(t, decimal.NewFromInt(1890).Equal(items[0].Price), "cart snapshot wins over catalog price")
	require.True(t, decimal.NewFromInt(1500).Equal(items[1].Price))
	require.Equal(t, "Rose", items[1].Title)
}

func TestOrderStatusUpdate(t *testing.T) {
	o := Order{ID: uuid.NewString(), Status: OrderPending}
	DevInsertOrder(o)

	body := strings.NewReader(`{"status":"SHIPPING"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+o.ID+"/status", body)
	req.Header.Set("X-Admin-Token", "test-token")
	t.Setenv("ADMIN_TOKEN", "test-token")
	rec := httptest.NewRecorder()
	orderItemHandler(nil, "")(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, ok := DevGetOrder(o.ID)
	require.True(t, ok)
	require.Equal(t, OrderShipping, got.Status)

	// unknown values are rejected
	req = httptest.NewRequest(http.MethodPut, "/api/orders/"+o.ID+"/status", strings.NewReader(`{"status":"TELEPORTED"}`))
	req.Header.Set("X-Admin-Token", "test-token")
	rec = httptest.NewRecorder()
	orderItemHandler(nil, "")(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateCouponPreview(t *testing.T) {
	DevAddCoupon(Coupon{Code: "FIX40", Type: CouponFixed, Value: decimal.NewFromInt(40), Active: true})

	body := strings.NewReader(`{"code":"FIX40","subtotal":"1,000.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", body)
	rec := httptest.NewRecorder()
	validateCoupon(nil)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid    bool            `json:"valid"`
		Discount decimal.Decimal `json:"discount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Valid)
	require.True(t, decimal.NewFromInt(40).Equal(resp.Discount))

	// unknown codes answer valid=false, not an error
	req = httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(`{"code":"NOPE","subtotal":100}`))
	rec = httptest.NewRecorder()
	validateCoupon(nil)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Valid)
}
