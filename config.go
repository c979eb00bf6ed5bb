package main

import (
	"log"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment (optionally
// via a .env file).
type Config struct {
	Addr          string `default:":8000"`
	MySQLDSN      string
	CloudinaryURL string
	AdminToken    string
	TiDBCAPath    string `default:"/etc/ssl/certs/ca-certificates.crt"`
	StaticDir     string `default:"./static"`
	DevMode       bool
}

func loadConfig() Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		log.Fatalf("config defaults: %v", err)
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.CloudinaryURL = os.Getenv("CLOUDINARY_URL")
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	if v := os.Getenv("TIDB_CA"); v != "" {
		cfg.TiDBCAPath = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("DEV_MODE"); v == "1" || strings.ToLower(v) == "true" {
		cfg.DevMode = true
	}
	return cfg
}
