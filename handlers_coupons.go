package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type couponPayload struct {
	Code        string      `json:"code"`
	Type        CouponType  `json:"type"`
	Value       interface{} `json:"value"`
	MinSpend    interface{} `json:"min_spend"`
	MaxDiscount interface{} `json:"max_discount"`
	UsageLimit  int         `json:"usage_limit"`
	ExpireAt    string      `json:"expire_at"`
	Active      bool        `json:"active"`
}

func (p couponPayload) toCoupon() (Coupon, string) {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if code == "" {
		return Coupon{}, "code required"
	}
	if p.Type != CouponPercent && p.Type != CouponFixed {
		return Coupon{}, "type must be percent or fixed"
	}
	c := Coupon{
		Code:        code,
		Type:        p.Type,
		Value:       ParsePrice(p.Value),
		MinSpend:    ParsePrice(p.MinSpend),
		MaxDiscount: ParsePrice(p.MaxDiscount),
		UsageLimit:  p.UsageLimit,
		Active:      p.Active,
	}
	if !c.Value.IsPositive() {
		return Coupon{}, "value must be positive"
	}
	if p.ExpireAt != "" {
		t, err := time.Parse(time.RFC3339, p.ExpireAt)
		if err != nil {
			return Coupon{}, "expire_at must be RFC3339"
		}
		c.ExpireAt = &t
	}
	return c, ""
}

func scanCoupon(row interface{ Scan(...interface{}) error }) (Coupon, error) {
	var c Coupon
	var valueStr, minStr, maxStr string
	var expire sql.NullTime
	var active int
	if err := row.Scan(&c.ID, &c.Code, &c.Type, &valueStr, &minStr, &maxStr, &c.UsageLimit, &c.Used, &expire, &active); err != nil {
		return Coupon{}, err
	}
	c.Value = ParsePrice(valueStr)
	c.MinSpend = ParsePrice(minStr)
	c.MaxDiscount = ParsePrice(maxStr)
	if expire.Valid {
		t := expire.Time
		c.ExpireAt = &t
	}
	c.Active = active != 0
	return c, nil
}

const couponSelect = "SELECT id, code, type, value, min_spend, max_discount, usage_limit, used, expire_at, active FROM coupons"

// fetchCouponByCode loads a coupon by code, case-insensitively.
func fetchCouponByCode(db *sql.DB, code string) (Coupon, bool) {
	if db == nil {
		return DevGetCouponByCode(code)
	}
	c, err := scanCoupon(db.QueryRow(couponSelect+" WHERE code = ?", strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		return Coupon{}, false
	}
	return c, true
}

// couponsHandler handles GET (admin list) and POST (admin create).
func couponsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodGet:
			if db == nil {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(DevGetCoupons())
				return
			}
			rows, err := db.Query(couponSelect + " ORDER BY id DESC")
			if err != nil {
				log.Println("coupons GET db.Query error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			defer rows.Close()
			var out []Coupon
			for rows.Next() {
				c, err := scanCoupon(rows)
				if err != nil {
					http.Error(w, "scan error", http.StatusInternalServerError)
					return
				}
				out = append(out, c)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(out)

		case http.MethodPost:
			var payload couponPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
				return
			}
			c, msg := payload.toCoupon()
			if msg != "" {
				http.Error(w, msg, http.StatusBadRequest)
				return
			}
			if db == nil {
				c = DevAddCoupon(c)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(c)
				return
			}
			var expire interface{}
			if c.ExpireAt != nil {
				expire = *c.ExpireAt
			}
			active := 0
			if c.Active {
				active = 1
			}
			res, err := db.Exec(`INSERT INTO coupons (code, type, value, min_spend, max_discount, usage_limit, expire_at, active)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				c.Code, string(c.Type), FormatPrice(c.Value), FormatPrice(c.MinSpend), FormatPrice(c.MaxDiscount),
				c.UsageLimit, expire, active)
			if err != nil {
				log.Println("coupons POST db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			c.ID, _ = res.LastInsertId()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(c)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// couponItemHandler handles PUT/DELETE for /api/coupons/{id}. Admin only.
func couponItemHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		if len(parts) < 4 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		id, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		if !isAdmin(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodPut:
			var payload couponPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			c, msg := payload.toCoupon()
			if msg != "" {
				http.Error(w, msg, http.StatusBadRequest)
				return
			}
			c.ID = id
			if db == nil {
				if !DevUpdateCoupon(c) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			var expire interface{}
			if c.ExpireAt != nil {
				expire = *c.ExpireAt
			}
			active := 0
			if c.Active {
				active = 1
			}
			res, err := db.Exec(`UPDATE coupons SET code=?, type=?, value=?, min_spend=?, max_discount=?, usage_limit=?, expire_at=?, active=? WHERE id=?`,
				c.Code, string(c.Type), FormatPrice(c.Value), FormatPrice(c.MinSpend), FormatPrice(c.MaxDiscount),
				c.UsageLimit, expire, active, id)
			if err != nil {
				log.Println("coupon PUT db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			if n, _ := res.RowsAffected(); n == 0 {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)

		case http.MethodDelete:
			if db == nil {
				if !DevDeleteCoupon(id) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err := db.Exec("DELETE FROM coupons WHERE id=?", id)
			if err != nil {
				log.Println("coupon DELETE db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			if n, _ := res.RowsAffected(); n == 0 {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// validateCoupon previews the discount a code would grant against a subtotal.
// Public; does not consume the coupon. Invalid codes answer valid=false with
// a zero discount rather than an error.
func validateCoupon(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			Code     string      `json:"code"`
			Subtotal interface{} `json:"subtotal"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		subtotal := ParsePrice(payload.Subtotal)
		discount := decimal.Zero
		if c, ok := fetchCouponByCode(db, payload.Code); ok {
			discount = couponDiscount(&c, subtotal, time.Now())
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"valid":    discount.IsPositive(),
			"discount": discount,
		})
	}
}
