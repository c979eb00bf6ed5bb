package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

func scanEvent(row interface{ Scan(...interface{}) error }) (Event, error) {
	var e Event
	var publicID sql.NullString
	var created interface{}
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.ImageURL, &publicID, &e.EventDate, &created); err != nil {
		return Event{}, err
	}
	if publicID.Valid {
		e.ImagePublicID = publicID.String
	}
	e.CreatedAt = timestampString(created)
	return e, nil
}

const eventSelect = "SELECT id, title, IFNULL(description,''), IFNULL(image_url,''), image_public_id, IFNULL(event_date,''), created_at FROM events"

// eventsHandler lists gallery events (public) and creates new ones (admin,
// multipart with an optional image).
func eventsHandler(db *sql.DB, cloudURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if db == nil {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(DevGetEvents())
				return
			}
			rows, err := db.Query(eventSelect + " ORDER BY id DESC")
			if err != nil {
				log.Println("events GET db.Query error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			defer rows.Close()
			var out []Event
			for rows.Next() {
				e, err := scanEvent(rows)
				if err != nil {
					http.Error(w, "scan error", http.StatusInternalServerError)
					return
				}
				out = append(out, e)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(out)

		case http.MethodPost:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := r.ParseMultipartForm(20 << 20); err != nil {
				http.Error(w, "parse multipart: "+err.Error(), http.StatusBadRequest)
				return
			}
			e := Event{
				Title:       strings.TrimSpace(r.FormValue("title")),
				Description: r.FormValue("description"),
				EventDate:   strings.TrimSpace(r.FormValue("event_date")),
			}
			if e.Title == "" {
				http.Error(w, "title required", http.StatusBadRequest)
				return
			}
			if file, _, err := r.FormFile("file"); err == nil {
				if db == nil || cloudURL == "" {
					_ = file.Close()
					e.ImageURL = "https://via.placeholder.com/800x600.png?text=DEV+IMAGE"
				} else {
					defer file.Close()
					url, publicID, err := uploadImage(cloudURL, file, "events")
					if err != nil {
						log.Println("event upload:", err)
						http.Error(w, "upload failed", http.StatusInternalServerError)
						return
					}
					e.ImageURL = url
					e.ImagePublicID = publicID
				}
			}
			if db == nil {
				e = DevAddEvent(e)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(e)
				return
			}
			res, err := db.Exec("INSERT INTO events (title, description, image_url, image_public_id, event_date) VALUES (?, ?, ?, ?, ?)",
				e.Title, e.Description, e.ImageURL, sqlNullString(e.ImagePublicID), e.EventDate)
			if err != nil {
				log.Println("events POST db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			e.ID, _ = res.LastInsertId()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(e)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// eventItemHandler handles GET/PUT/DELETE for /api/events/{id}.
func eventItemHandler(db *sql.DB, cloudURL string) http.HandlerFunc {
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

		switch r.Method {
		case http.MethodGet:
			if db == nil {
				for _, e := range DevGetEvents() {
					if e.ID == id {
						w.Header().Set("Content-Type", "application/json")
						_ = json.NewEncoder(w).Encode(e)
						return
					}
				}
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			e, err := scanEvent(db.QueryRow(eventSelect+" WHERE id = ?", id))
			if err != nil {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(e)

		case http.MethodPut:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := r.ParseMultipartForm(20 << 20); err != nil {
				http.Error(w, "parse multipart: "+err.Error(), http.StatusBadRequest)
				return
			}
			e := Event{
				ID:          id,
				Title:       strings.TrimSpace(r.FormValue("title")),
				Description: r.FormValue("description"),
				EventDate:   strings.TrimSpace(r.FormValue("event_date")),
			}
			if e.Title == "" {
				http.Error(w, "title required", http.StatusBadRequest)
				return
			}
			if file, _, ferr := r.FormFile("file"); ferr == nil {
				if db == nil || cloudURL == "" {
					_ = file.Close()
					e.ImageURL = "https://via.placeholder.com/800x600.png?text=DEV+IMAGE"
				} else {
					defer file.Close()
					url, publicID, err := uploadImage(cloudURL, file, "events")
					if err != nil {
						log.Println("event PUT upload:", err)
						http.Error(w, "upload failed", http.StatusInternalServerError)
						return
					}
					e.ImageURL = url
					e.ImagePublicID = publicID
				}
			}
			if db == nil {
				if !DevUpdateEvent(e) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			if e.ImageURL != "" {
				_, err = db.Exec("UPDATE events SET title=?, description=?, event_date=?, image_url=?, image_public_id=? WHERE id=?",
					e.Title, e.Description, e.EventDate, e.ImageURL, sqlNullString(e.ImagePublicID), id)
			} else {
				_, err = db.Exec("UPDATE events SET title=?, description=?, event_date=? WHERE id=?",
					e.Title, e.Description, e.EventDate, id)
			}
			if err != nil {
				log.Println("event PUT db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)

		case http.MethodDelete:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if db == nil {
				if !DevDeleteEvent(id) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			var publicID sql.NullString
			if err := db.QueryRow("SELECT image_public_id FROM events WHERE id = ?", id).Scan(&publicID); err != nil {
				log.Println("event DELETE select image_public_id error:", err)
			} else if publicID.Valid {
				destroyImage(cloudURL, publicID.String)
			}
			res, err := db.Exec("DELETE FROM events WHERE id=?", id)
			if err != nil {
				log.Println("event DELETE db.Exec error:", err)
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
