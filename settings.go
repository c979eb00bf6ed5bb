package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// fetchSettings returns the single settings row (or dev settings when db==nil).
func fetchSettings(db *sql.DB) (Settings, error) {
	if db == nil {
		return DevGetSettings(), nil
	}
	var s Settings
	var enabled int
	var threshold string
	row := db.QueryRow("SELECT store_name, IFNULL(promo_banner,''), enable_free_shipping, free_shipping_threshold FROM settings WHERE id = 1")
	if err := row.Scan(&s.StoreName, &s.PromoBanner, &enabled, &threshold); err != nil {
		return Settings{}, fmt.Errorf("scan settings: %w", err)
	}
	s.EnableFreeShipping = enabled != 0
	s.FreeShippingThreshold = ParsePrice(threshold)
	return s, nil
}

// saveSettings updates the settings row or in-memory settings in dev mode.
func saveSettings(db *sql.DB, s Settings) error {
	if db == nil {
		DevSaveSettings(s)
		return nil
	}
	enabled := 0
	if s.EnableFreeShipping {
		enabled = 1
	}
	_, err := db.Exec(`UPDATE settings SET store_name=?, promo_banner=?, enable_free_shipping=?, free_shipping_threshold=? WHERE id = 1`,
		s.StoreName, s.PromoBanner, enabled, FormatPrice(s.FreeShippingThreshold))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// settingsHandler manages GET (public, storefront reads the banner and free
// shipping rule) and PUT (admin) for the marketing settings row.
func settingsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s, err := fetchSettings(db)
			if err != nil {
				log.Println("fetch settings:", err)
				http.Error(w, "settings not ready", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(s)

		case http.MethodPut, http.MethodPost:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			var payload struct {
				StoreName             string      `json:"store_name"`
				PromoBanner           string      `json:"promo_banner"`
				EnableFreeShipping    bool        `json:"enable_free_shipping"`
				FreeShippingThreshold interface{} `json:"free_shipping_threshold"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
				return
			}
			if payload.StoreName == "" {
				http.Error(w, "store_name required", http.StatusBadRequest)
				return
			}
			toSave := Settings{
				StoreName:             payload.StoreName,
				PromoBanner:           payload.PromoBanner,
				EnableFreeShipping:    payload.EnableFreeShipping,
				FreeShippingThreshold: ParsePrice(payload.FreeShippingThreshold),
			}
			if err := saveSettings(db, toSave); err != nil {
				log.Println("save settings:", err)
				http.Error(w, "failed to save settings", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toSave)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
