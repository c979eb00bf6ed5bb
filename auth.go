package main

import (
	"encoding/json"
	"net/http"
	"os"
)

// isAdmin checks the session cookie for the admin flag, falling back to the
// ADMIN_TOKEN header or query token.
func isAdmin(r *http.Request) bool {
	if c, err := r.Cookie("session"); err == nil && c.Value == "admin" {
		return true
	}
	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		return false
	}
	if t := r.Header.Get("X-Admin-Token"); t != "" && t == adminToken {
		return true
	}
	if t := r.URL.Query().Get("token"); t != "" && t == adminToken {
		return true
	}
	return false
}

// loginHandler expects JSON {"username","password"} and sets a session cookie
// for the back-office. Credentials come from ADMIN_USER / ADMIN_PASSWORD.
func loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var cred struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		user := os.Getenv("ADMIN_USER")
		pass := os.Getenv("ADMIN_PASSWORD")
		if user == "" || pass == "" {
			http.Error(w, "admin login disabled", http.StatusForbidden)
			return
		}
		if cred.Username == user && cred.Password == pass {
			http.SetCookie(w, &http.Cookie{
				Name:     "session",
				Value:    "admin",
				Path:     "/",
				HttpOnly: true,
				// In production set Secure: true and SameSite
			})
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
}

func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusOK)
	}
}
