package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

func scanShippingMethod(row interface{ Scan(...interface{}) error }) (ShippingMethod, error) {
	var m ShippingMethod
	var priceStr string
	if err := row.Scan(&m.ID, &m.Name, &priceStr); err != nil {
		return ShippingMethod{}, err
	}
	m.Price = ParsePrice(priceStr)
	return m, nil
}

// fetchShippingMethod loads one delivery option by id.
func fetchShippingMethod(db *sql.DB, id int64) (ShippingMethod, bool) {
	if db == nil {
		return DevGetShippingMethod(id)
	}
	m, err := scanShippingMethod(db.QueryRow("SELECT id, name, price FROM shipping_methods WHERE id = ?", id))
	if err != nil {
		return ShippingMethod{}, false
	}
	return m, true
}

// shippingMethodsHandler lists delivery options (public) and creates new ones
// (admin).
func shippingMethodsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			var out []ShippingMethod
			if db == nil {
				out = DevGetShippingMethods()
			} else {
				rows, err := db.Query("SELECT id, name, price FROM shipping_methods ORDER BY id ASC")
				if err != nil {
					log.Println("shipping GET db.Query error:", err)
					http.Error(w, "db error", http.StatusInternalServerError)
					return
				}
				defer rows.Close()
				for rows.Next() {
					m, err := scanShippingMethod(rows)
					if err != nil {
						http.Error(w, "scan error", http.StatusInternalServerError)
						return
					}
					out = append(out, m)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(out)

		case http.MethodPost:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			var payload struct {
				Name  string      `json:"name"`
				Price interface{} `json:"price"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			payload.Name = strings.TrimSpace(payload.Name)
			if payload.Name == "" {
				http.Error(w, "name required", http.StatusBadRequest)
				return
			}
			m := ShippingMethod{Name: payload.Name, Price: ParsePrice(payload.Price)}
			if m.Price.IsNegative() {
				http.Error(w, "price must not be negative", http.StatusBadRequest)
				return
			}
			if db == nil {
				m = DevAddShippingMethod(m)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(m)
				return
			}
			res, err := db.Exec("INSERT INTO shipping_methods (name, price) VALUES (?, ?)", m.Name, FormatPrice(m.Price))
			if err != nil {
				log.Println("shipping POST db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			m.ID, _ = res.LastInsertId()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(m)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// shippingMethodItemHandler handles PUT/DELETE for /api/shipping-methods/{id}.
func shippingMethodItemHandler(db *sql.DB) http.HandlerFunc {
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
			var payload struct {
				Name  string      `json:"name"`
				Price interface{} `json:"price"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			payload.Name = strings.TrimSpace(payload.Name)
			if payload.Name == "" {
				http.Error(w, "name required", http.StatusBadRequest)
				return
			}
			m := ShippingMethod{ID: id, Name: payload.Name, Price: ParsePrice(payload.Price)}
			if m.Price.IsNegative() {
				http.Error(w, "price must not be negative", http.StatusBadRequest)
				return
			}
			if db == nil {
				if !DevUpdateShippingMethod(m) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err := db.Exec("UPDATE shipping_methods SET name=?, price=? WHERE id=?", m.Name, FormatPrice(m.Price), id)
			if err != nil {
				log.Println("shipping PUT db.Exec error:", err)
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
				if !DevDeleteShippingMethod(id) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err := db.Exec("DELETE FROM shipping_methods WHERE id=?", id)
			if err != nil {
				log.Println("shipping DELETE db.Exec error:", err)
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
