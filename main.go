package main

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// registerTiDBTLS registers the "tidb" TLS config when the DSN asks for it,
// falling back to InsecureSkipVerify when the CA bundle can't be loaded.
func registerTiDBTLS(caPath string) {
	pool := x509.NewCertPool()
	if b, err := os.ReadFile(caPath); err == nil {
		if pool.AppendCertsFromPEM(b) {
			_ = mysql.RegisterTLSConfig("tidb", &tls.Config{RootCAs: pool})
			return
		}
		log.Printf("warning: could not parse CA file %s, falling back to InsecureSkipVerify", caPath)
	} else {
		log.Printf("warning: could not read CA file %s: %v, falling back to InsecureSkipVerify", caPath, err)
	}
	_ = mysql.RegisterTLSConfig("tidb", &tls.Config{InsecureSkipVerify: true})
}

func main() {
	cfg := loadConfig()
	if !cfg.DevMode && (cfg.MySQLDSN == "" || cfg.CloudinaryURL == "") {
		log.Fatal("env MYSQL_DSN and CLOUDINARY_URL must be set (or set DEV_MODE=true to run without external services)")
	}

	var db *sql.DB
	if !cfg.DevMode {
		if strings.Contains(cfg.MySQLDSN, "tls=tidb") {
			registerTiDBTLS(cfg.TiDBCAPath)
		}
		var err error
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("ping db: %v", err)
		}
		if err := ensureTables(db); err != nil {
			log.Fatalf("ensure tables: %v", err)
		}
	} else {
		log.Println("DEV_MODE=true: running without MySQL/Cloudinary (in-memory store, placeholder images)")
	}

	// Static assets and pages under /static
	fs := http.FileServer(http.Dir(cfg.StaticDir))
	http.Handle("/static/", http.StripPrefix("/static/", fs))

	// Admin panel: login via secret link ?token=ADMIN_TOKEN or existing session
	http.HandleFunc("/admin", func(w http.ResponseWriter, r *http.Request) {
		if isAdmin(r) {
			http.ServeFile(w, r, cfg.StaticDir+"/admin.html")
			return
		}
		token := r.URL.Query().Get("token")
		if token != "" && token == cfg.AdminToken {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "admin", Path: "/", HttpOnly: true})
			http.ServeFile(w, r, cfg.StaticDir+"/admin.html")
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	// auth
	http.HandleFunc("/api/login", loginHandler())
	http.HandleFunc("/api/logout", logoutHandler())

	// catalog
	http.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listProducts(db)(w, r)
		case http.MethodPost:
			createProduct(db, cfg.CloudinaryURL)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	http.HandleFunc("/api/products/", productItemHandler(db, cfg.CloudinaryURL))
	http.HandleFunc("/api/categories", categoriesHandler(db))
	http.HandleFunc("/api/categories/", categoryItemHandler(db))

	// checkout and orders
	http.HandleFunc("/api/checkout", checkoutHandler(db))
	http.HandleFunc("/api/orders", ordersHandler(db))
	http.HandleFunc("/api/orders/", orderItemHandler(db, cfg.CloudinaryURL))
	http.HandleFunc("/api/shipping-methods", shippingMethodsHandler(db))
	http.HandleFunc("/api/shipping-methods/", shippingMethodItemHandler(db))

	// promotions
	http.HandleFunc("/api/coupons", couponsHandler(db))
	// exact pattern wins over the /api/coupons/ subtree
	http.HandleFunc("/api/coupons/validate", validateCoupon(db))
	http.HandleFunc("/api/coupons/", couponItemHandler(db))

	// gallery / events
	http.HandleFunc("/api/events", eventsHandler(db, cfg.CloudinaryURL))
	http.HandleFunc("/api/events/", eventItemHandler(db, cfg.CloudinaryURL))

	// valentine cards and the mini game
	http.HandleFunc("/api/valentine", valentineCardsHandler(db))
	http.HandleFunc("/api/valentine/game", gameMoveHandler())
	http.HandleFunc("/api/valentine/", valentineCardItemHandler(db))

	// back-office
	http.HandleFunc("/api/users", usersHandler(db))
	http.HandleFunc("/api/users/", userItemHandler(db))
	http.HandleFunc("/api/settings", settingsHandler(db))

	// Serve root files (index.html and admin.html live under ./static)
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.ServeFile(w, r, cfg.StaticDir+"/index.html")
			return
		}
		http.ServeFile(w, r, cfg.StaticDir+r.URL.Path)
	})

	log.Println("server listening on " + cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatalf("server: %v", err)
	}
}
