package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func scanProduct(row interface{ Scan(...interface{}) error }) (Product, error) {
	var p Product
	var priceStr, velvetStr string
	var publicID sql.NullString
	var catNull sql.NullInt64
	var created interface{}
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &priceStr, &velvetStr, &p.Stock, &p.ImageURL, &publicID, &catNull, &p.Category, &created); err != nil {
		return Product{}, err
	}
	// DECIMAL columns arrive as strings
	p.Price = ParsePrice(priceStr)
	p.VelvetPrice = ParsePrice(velvetStr)
	if publicID.Valid {
		p.ImagePublicID = publicID.String
	}
	if catNull.Valid {
		p.CategoryID = catNull.Int64
	}
	p.CreatedAt = timestampString(created)
	return p, nil
}

const productSelect = `SELECT p.id, p.title, IFNULL(p.description,''), p.price, p.velvet_price, p.stock, IFNULL(p.image_url,''), p.image_public_id, p.category_id, IFNULL(c.name,''), p.created_at
	FROM products p LEFT JOIN categories c ON c.id = p.category_id`

// listProducts returns the catalog as JSON (public).
func listProducts(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(DevGetProducts())
			return
		}
		rows, err := db.Query(productSelect + " ORDER BY p.created_at DESC")
		if err != nil {
			log.Println("listProducts db.Query error:", err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		var out []Product
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				log.Println("listProducts rows.Scan error:", err)
				http.Error(w, "db scan error", http.StatusInternalServerError)
				return
			}
			out = append(out, p)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// fetchProduct loads one product by catalog id, from the DB or the dev store.
func fetchProduct(db *sql.DB, id string) (Product, bool) {
	if db == nil {
		return DevGetProduct(id)
	}
	p, err := scanProduct(db.QueryRow(productSelect+" WHERE p.id = ?", id))
	if err != nil {
		return Product{}, false
	}
	return p, true
}

// productFromForm reads the multipart product fields shared by create and
// update. Prices pass through ParsePrice on the way in.
func productFromForm(r *http.Request) Product {
	stock, _ := strconv.Atoi(r.FormValue("stock"))
	categoryID, _ := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	return Product{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Price:       ParsePrice(r.FormValue("price")),
		VelvetPrice: ParsePrice(r.FormValue("velvet_price")),
		Stock:       stock,
		CategoryID:  categoryID,
	}
}

func categoryExists(db *sql.DB, id int64) bool {
	if id == 0 {
		return true
	}
	if db == nil {
		_, ok := DevGetCategory(id)
		return ok
	}
	var name string
	return db.QueryRow("SELECT name FROM categories WHERE id = ?", id).Scan(&name) == nil
}

// createProduct accepts a multipart form with the product fields plus an
// optional image file. Admin only.
func createProduct(db *sql.DB, cloudURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := r.ParseMultipartForm(20 << 20); err != nil {
			http.Error(w, "parse multipart: "+err.Error(), http.StatusBadRequest)
			return
		}
		p := productFromForm(r)
		if p.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if p.Price.IsNegative() || p.VelvetPrice.IsNegative() {
			http.Error(w, "price must not be negative", http.StatusBadRequest)
			return
		}
		if p.Stock < 0 {
			http.Error(w, "stock must not be negative", http.StatusBadRequest)
			return
		}
		if !categoryExists(db, p.CategoryID) {
			http.Error(w, "category not found", http.StatusBadRequest)
			return
		}

		if file, _, err := r.FormFile("file"); err == nil {
			if db == nil || cloudURL == "" {
				_ = file.Close()
				p.ImageURL = "https://via.placeholder.com/800x600.png?text=DEV+IMAGE"
			} else {
				defer file.Close()
				url, publicID, err := uploadImage(cloudURL, file, "products")
				if err != nil {
					log.Println("createProduct upload:", err)
					http.Error(w, "upload failed", http.StatusInternalServerError)
					return
				}
				p.ImageURL = url
				p.ImagePublicID = publicID
			}
		}

		if db == nil {
			id := DevAddProduct(p)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "image_url": p.ImageURL})
			return
		}

		p.ID = uuid.NewString()
		_, err := db.Exec(`INSERT INTO products (id, title, description, price, velvet_price, stock, image_url, image_public_id, category_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Description, FormatPrice(p.Price), FormatPrice(p.VelvetPrice), p.Stock,
			p.ImageURL, sqlNullString(p.ImagePublicID), sqlNull(p.CategoryID))
		if err != nil {
			log.Println("createProduct db insert error:", err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": p.ID, "image_url": p.ImageURL})
	}
}

// productItemHandler handles GET/PUT/DELETE for /api/products/{id}.
func productItemHandler(db *sql.DB, cloudURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		if len(parts) < 4 || parts[3] == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		id := parts[3]

		switch r.Method {
		case http.MethodGet:
			p, ok := fetchProduct(db, id)
			if !ok {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(p)

		case http.MethodPut:
			if !isAdmin(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := r.ParseMultipartForm(20 << 20); err != nil {
				http.Error(w, "parse multipart: "+err.Error(), http.StatusBadRequest)
				return
			}
			cur, ok := fetchProduct(db, id)
			if !ok {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			// partial update: only fields present in the form change
			mf := r.MultipartForm
			upd := cur
			if v, ok := mf.Value["title"]; ok && len(v) > 0 {
				upd.Title = strings.TrimSpace(v[0])
			}
			if v, ok := mf.Value["description"]; ok && len(v) > 0 {
				upd.Description = v[0]
			}
			if v, ok := mf.Value["price"]; ok && len(v) > 0 {
				upd.Price = ParsePrice(v[0])
			}
			if v, ok := mf.Value["velvet_price"]; ok && len(v) > 0 {
				upd.VelvetPrice = ParsePrice(v[0])
			}
			if v, ok := mf.Value["stock"]; ok && len(v) > 0 {
				if n, err := strconv.Atoi(v[0]); err == nil {
					upd.Stock = n
				}
			}
			if v, ok := mf.Value["category_id"]; ok && len(v) > 0 {
				if n, err := strconv.ParseInt(v[0], 10, 64); err == nil {
					upd.CategoryID = n
				}
			}
			if upd.Title == "" {
				http.Error(w, "title required", http.StatusBadRequest)
				return
			}
			if upd.Price.IsNegative() || upd.VelvetPrice.IsNegative() || upd.Stock < 0 {
				http.Error(w, "price and stock must not be negative", http.StatusBadRequest)
				return
			}
			if !categoryExists(db, upd.CategoryID) {
				http.Error(w, "category not found", http.StatusBadRequest)
				return
			}
			if file, _, err := r.FormFile("file"); err == nil {
				if db == nil || cloudURL == "" {
					_ = file.Close()
					upd.ImageURL = "https://via.placeholder.com/800x600.png?text=DEV+IMAGE"
				} else {
					defer file.Close()
					url, publicID, err := uploadImage(cloudURL, file, "products")
					if err != nil {
						log.Println("productItem PUT upload:", err)
						http.Error(w, "upload failed", http.StatusInternalServerError)
						return
					}
					// replace the old hosted image
					destroyImage(cloudURL, cur.ImagePublicID)
					upd.ImageURL = url
					upd.ImagePublicID = publicID
				}
			}

			if db == nil {
				if !DevUpdateProduct(upd) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			_, err := db.Exec(`UPDATE products SET title=?, description=?, price=?, velvet_price=?, stock=?, image_url=?, image_public_id=?, category_id=? WHERE id=?`,
				upd.Title, upd.Description, FormatPrice(upd.Price), FormatPrice(upd.VelvetPrice), upd.Stock,
				upd.ImageURL, sqlNullString(upd.ImagePublicID), sqlNull(upd.CategoryID), id)
			if err != nil {
				log.Println("productItem PUT db update error:", err)
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
				if !DevDeleteProduct(id) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			// best-effort hosted image cleanup before the row goes away
			var publicID sql.NullString
			if err := db.QueryRow("SELECT image_public_id FROM products WHERE id = ?", id).Scan(&publicID); err != nil {
				log.Println("product DELETE select image_public_id error:", err)
			} else if publicID.Valid {
				destroyImage(cloudURL, publicID.String)
			}
			res, err := db.Exec("DELETE FROM products WHERE id=?", id)
			if err != nil {
				log.Println("product DELETE db error:", err)
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
