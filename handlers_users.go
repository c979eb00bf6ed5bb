package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

type userPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (p userPayload) toUser() (User, string) {
	u := User{
		Name:  strings.TrimSpace(p.Name),
		Email: strings.ToLower(strings.TrimSpace(p.Email)),
		Role:  strings.TrimSpace(p.Role),
	}
	if u.Name == "" || u.Email == "" {
		return User{}, "name and email required"
	}
	if u.Role == "" {
		u.Role = "staff"
	}
	return u, ""
}

// usersHandler lists and creates back-office users. Admin only.
func usersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodGet:
			if db == nil {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(DevGetUsers())
				return
			}
			rows, err := db.Query("SELECT id, name, email, role, created_at FROM users ORDER BY id ASC")
			if err != nil {
				log.Println("users GET db.Query error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			defer rows.Close()
			var out []User
			for rows.Next() {
				var u User
				var created interface{}
				if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &created); err != nil {
					http.Error(w, "scan error", http.StatusInternalServerError)
					return
				}
				u.CreatedAt = timestampString(created)
				out = append(out, u)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(out)

		case http.MethodPost:
			var payload userPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			u, msg := payload.toUser()
			if msg != "" {
				http.Error(w, msg, http.StatusBadRequest)
				return
			}
			if db == nil {
				u = DevAddUser(u)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(u)
				return
			}
			res, err := db.Exec("INSERT INTO users (name, email, role) VALUES (?, ?, ?)", u.Name, u.Email, u.Role)
			if err != nil {
				log.Println("users POST db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			u.ID, _ = res.LastInsertId()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(u)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// userItemHandler handles PUT/DELETE for /api/users/{id}. Admin only.
func userItemHandler(db *sql.DB) http.HandlerFunc {
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
			var payload userPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			u, msg := payload.toUser()
			if msg != "" {
				http.Error(w, msg, http.StatusBadRequest)
				return
			}
			u.ID = id
			if db == nil {
				if !DevUpdateUser(u) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err := db.Exec("UPDATE users SET name=?, email=?, role=? WHERE id=?", u.Name, u.Email, u.Role, id)
			if err != nil {
				log.Println("user PUT db.Exec error:", err)
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
				if !DevDeleteUser(id) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err := db.Exec("DELETE FROM users WHERE id=?", id)
			if err != nil {
				log.Println("user DELETE db.Exec error:", err)
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
