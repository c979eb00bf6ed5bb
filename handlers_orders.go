package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

// CheckoutForm is the posted checkout submission. Cart lines travel alongside
// it in the "items" field as the serialized cart line list.
type CheckoutForm struct {
	CustomerName     string `schema:"customer_name"`
	CustomerPhone    string `schema:"customer_phone"`
	CustomerEmail    string `schema:"customer_email"`
	Address          string `schema:"address"`
	Note             string `schema:"note"`
	ShippingMethodID int64  `schema:"shipping_method_id"`
	CouponCode       string `schema:"coupon_code"`
}

// resolveOrderItems turns cart lines into order item snapshots. Each line id
// goes through ExtractProductID before the catalog lookup; lines whose
// product is gone are dropped rather than failing the whole checkout.
func resolveOrderItems(lines []CartLine, lookup func(productID string) (Product, bool)) []OrderItem {
	var items []OrderItem
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		pid := ExtractProductID(l.ID)
		p, ok := lookup(pid)
		if !ok {
			log.Printf("checkout: dropping cart line %q, product %q not in catalog", l.ID, pid)
			continue
		}
		title := l.Title
		if title == "" {
			title = p.Title
		}
		price := l.Price
		if price.IsZero() {
			price = p.Price
		}
		items = append(items, OrderItem{
			ProductID: p.ID,
			Title:     title,
			Price:     price,
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}
	return items
}

func itemsSubtotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}

// insertOrder writes the order row then its item rows. A failure after the
// order row succeeds is logged and surfaced as a generic error; there is no
// retry or compensation.
func insertOrder(db *sql.DB, o Order) error {
	if db == nil {
		DevInsertOrder(o)
		return nil
	}
	_, err := db.Exec(`INSERT INTO orders (id, customer_name, customer_phone, customer_email, address, note, shipping_method,
			subtotal, shipping_cost, discount, grand_total, coupon_code, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.Address, o.Note, o.ShippingMethod,
		FormatPrice(o.Subtotal), FormatPrice(o.ShippingCost), FormatPrice(o.Discount), FormatPrice(o.GrandTotal),
		sqlNullString(o.CouponCode), string(o.Status))
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := db.Exec(`INSERT INTO order_items (order_id, product_id, title, price, quantity, image) VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, it.ProductID, it.Title, FormatPrice(it.Price), it.Quantity, it.Image); err != nil {
			return err
		}
	}
	return nil
}

func incrementCouponUse(db *sql.DB, code string) {
	if code == "" {
		return
	}
	if db == nil {
		DevIncrementCouponUse(code)
		return
	}
	if _, err := db.Exec("UPDATE coupons SET used = used + 1 WHERE code = ?", code); err != nil {
		log.Println("increment coupon use error:", err)
	}
}

// checkoutHandler accepts the checkout form, validates the cart against the
// catalog, computes the order totals and persists the order.
func checkoutHandler(db *sql.DB) http.HandlerFunc {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		var form CheckoutForm
		if err := decoder.Decode(&form, r.PostForm); err != nil {
			http.Error(w, "invalid checkout form", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(form.CustomerName) == "" ||
			strings.TrimSpace(form.CustomerPhone) == "" ||
			strings.TrimSpace(form.Address) == "" {
			http.Error(w, "name, phone and address are required", http.StatusBadRequest)
			return
		}

		var lines []CartLine
		if err := json.Unmarshal([]byte(r.PostForm.Get("items")), &lines); err != nil || len(lines) == 0 {
			http.Error(w, "cart items required", http.StatusBadRequest)
			return
		}

		method, ok := fetchShippingMethod(db, form.ShippingMethodID)
		if !ok {
			http.Error(w, "unknown shipping method", http.StatusBadRequest)
			return
		}

		items := resolveOrderItems(lines, func(id string) (Product, bool) {
			return fetchProduct(db, id)
		})
		if len(items) == 0 {
			http.Error(w, "no valid items remain in your cart, please clear it and try again", http.StatusUnprocessableEntity)
			return
		}

		settings, err := fetchSettings(db)
		if err != nil {
			// free shipping simply doesn't apply when settings can't be read
			log.Println("checkout fetch settings:", err)
			settings = Settings{}
		}

		now := time.Now()
		var coupon *Coupon
		if code := strings.TrimSpace(form.CouponCode); code != "" {
			if c, found := fetchCouponByCode(db, code); found {
				coupon = &c
			}
		}

		totals := CalculateOrderTotals(itemsSubtotal(items), method, settings, coupon, now)

		order := Order{
			ID:             uuid.NewString(),
			CustomerName:   strings.TrimSpace(form.CustomerName),
			CustomerPhone:  strings.TrimSpace(form.CustomerPhone),
			CustomerEmail:  strings.TrimSpace(form.CustomerEmail),
			Address:        strings.TrimSpace(form.Address),
			Note:           strings.TrimSpace(form.Note),
			ShippingMethod: method.Name,
			Subtotal:       totals.Subtotal,
			ShippingCost:   totals.ShippingCost,
			Discount:       totals.Discount,
			GrandTotal:     totals.GrandTotal,
			Status:         OrderPending,
			CreatedAt:      now.Format(time.RFC3339),
			Items:          items,
		}
		if coupon != nil && totals.Discount.IsPositive() {
			order.CouponCode = coupon.Code
		}

		if err := insertOrder(db, order); err != nil {
			log.Println("checkout insert order error:", err)
			http.Error(w, "failed to create order", http.StatusInternalServerError)
			return
		}
		incrementCouponUse(db, order.CouponCode)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(order)
	}
}

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var o Order
	var subtotal, shipping, discount, grand string
	var email, note, couponCode, slip sql.NullString
	var created interface{}
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &email, &o.Address, &note, &o.ShippingMethod,
		&subtotal, &shipping, &discount, &grand, &couponCode, &o.Status, &slip, &created); err != nil {
		return Order{}, err
	}
	o.CustomerEmail = email.String
	o.Note = note.String
	o.CouponCode = couponCode.String
	o.SlipURL = slip.String
	o.Subtotal = ParsePrice(subtotal)
	o.ShippingCost = ParsePrice(shipping)
	o.Discount = ParsePrice(discount)
	o.GrandTotal = ParsePrice(grand)
	o.CreatedAt = timestampString(created)
	return o, nil
}

const orderSelect = `SELECT id, customer_name, customer_phone, customer_email, IFNULL(address,''), note, shipping_method,
	subtotal, shipping_cost, discount, grand_total, coupon_code, status, slip_url, created_at FROM orders`

func fetchOrderItems(db *sql.DB, orderID string) ([]OrderItem, error) {
	rows, err := db.Query("SELECT product_id, title, price, quantity, IFNULL(image,'') FROM order_items WHERE order_id = ? ORDER BY id ASC", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		var priceStr string
		if err := rows.Scan(&it.ProductID, &it.Title, &priceStr, &it.Quantity, &it.Image); err != nil {
			return nil, err
		}
		it.Price = ParsePrice(priceStr)
		items = append(items, it)
	}
	return items, nil
}

// ordersHandler lists orders for the admin panel.
func ordersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !isAdmin(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if db == nil {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(DevGetOrders())
			return
		}
		rows, err := db.Query(orderSelect + " ORDER BY created_at DESC")
		if err != nil {
			log.Println("orders GET db.Query error:", err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		var out []Order
		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				http.Error(w, "scan error", http.StatusInternalServerError)
				return
			}
			out = append(out, o)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// orderItemHandler serves /api/orders/{id} and its sub-resources:
// GET {id} (public confirmation page), PUT {id}/status (admin),
// POST {id}/slip (public payment-slip upload).
func orderItemHandler(db *sql.DB, cloudURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		if len(parts) < 4 || parts[3] == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		id := parts[3]
		action := ""
		if len(parts) > 4 {
			action = parts[4]
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			if db == nil {
				o, ok := DevGetOrder(id)
				if !ok {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(o)
				return
			}
			o, err := scanOrder(db.QueryRow(orderSelect+" WHERE id = ?", id))
			if err != nil {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			items, err := fetchOrderItems(db, id)
			if err != nil {
				log.Println("order GET items error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			o.Items = items
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(o)

		case action == "status" && r.Method == http.MethodPut:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			var payload struct {
				Status OrderStatus `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			// admins may move an order to any known status, in any order
			if !payload.Status.Valid() {
				http.Error(w, "unknown status", http.StatusBadRequest)
				return
			}
			if db == nil {
				if !DevUpdateOrderStatus(id, payload.Status) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err := db.Exec("UPDATE orders SET status=? WHERE id=?", string(payload.Status), id)
			if err != nil {
				log.Println("order status db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			if n, _ := res.RowsAffected(); n == 0 {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)

		case action == "slip" && r.Method == http.MethodPost:
			if err := r.ParseMultipartForm(10 << 20); err != nil {
				http.Error(w, "parse multipart: "+err.Error(), http.StatusBadRequest)
				return
			}
			file, _, err := r.FormFile("slip")
			if err != nil {
				http.Error(w, "slip file required", http.StatusBadRequest)
				return
			}
			slipURL := "https://via.placeholder.com/600x800.png?text=DEV+SLIP"
			if db != nil && cloudURL != "" {
				defer file.Close()
				url, _, err := uploadImage(cloudURL, file, "slips")
				if err != nil {
					log.Println("slip upload error:", err)
					http.Error(w, "upload failed", http.StatusInternalServerError)
					return
				}
				slipURL = url
			} else {
				_ = file.Close()
			}
			if db == nil {
				if !DevSetOrderSlip(id, slipURL) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{"slip_url": slipURL})
				return
			}
			// slip upload only advances PENDING orders; later statuses keep
			// their state and just record the new slip
			res, err := db.Exec("UPDATE orders SET slip_url=?, status=CASE WHEN status=? THEN ? ELSE status END WHERE id=?",
				slipURL, string(OrderPending), string(OrderSlipUploaded), id)
			if err != nil {
				log.Println("order slip db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			if n, _ := res.RowsAffected(); n == 0 {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"slip_url": slipURL})

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
