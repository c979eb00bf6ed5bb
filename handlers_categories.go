package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

func categoriesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			var cats []Category
			if db == nil {
				cats = DevGetCategories()
			} else {
				rows, err := db.Query("SELECT id, name FROM categories ORDER BY name ASC")
				if err != nil {
					log.Println("categories GET db.Query error:", err)
					http.Error(w, "db error", http.StatusInternalServerError)
					return
				}
				defer rows.Close()
				for rows.Next() {
					var c Category
					if err := rows.Scan(&c.ID, &c.Name); err != nil {
						http.Error(w, "scan error", http.StatusInternalServerError)
						return
					}
					cats = append(cats, c)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(cats)

		case http.MethodPost:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			var payload struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
				return
			}
			payload.Name = strings.TrimSpace(payload.Name)
			if payload.Name == "" {
				http.Error(w, "name required", http.StatusBadRequest)
				return
			}
			if db == nil {
				c := DevAddCategory(payload.Name)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(c)
				return
			}
			res, err := db.Exec("INSERT INTO categories (name) VALUES (?)", payload.Name)
			if err != nil {
				log.Println("categories POST db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			id, _ := res.LastInsertId()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(Category{ID: id, Name: payload.Name})

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func categoryItemHandler(db *sql.DB) http.HandlerFunc {
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
				Name string `json:"name"`
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
			if db == nil {
				if !DevUpdateCategory(id, payload.Name) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err := db.Exec("UPDATE categories SET name=? WHERE id=?", payload.Name, id)
			if err != nil {
				log.Println("category PUT db.Exec error:", err)
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
				if !DevDeleteCategory(id) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			// detach products before removing the category
			if _, err := db.Exec("UPDATE products SET category_id=NULL WHERE category_id=?", id); err != nil {
				log.Println("category DELETE update products error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			res, err := db.Exec("DELETE FROM categories WHERE id=?", id)
			if err != nil {
				log.Println("category DELETE db.Exec error:", err)
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
