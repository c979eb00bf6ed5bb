package main

import (
	"database/sql"
	"strings"
	"time"
)

// ensureTables creates the schema if it doesn't exist and seeds the rows the
// storefront expects on first boot.
func ensureTables(db *sql.DB) error {
	// catalog
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS categories (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL UNIQUE
    )`); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS products (
        id VARCHAR(36) PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        description TEXT,
        price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        velvet_price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        stock INT NOT NULL DEFAULT 0,
        image_url TEXT,
        image_public_id VARCHAR(255) NULL,
        category_id BIGINT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        INDEX idx_products_category (category_id)
    )`); err != nil {
		return err
	}

	// orders
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS orders (
        id VARCHAR(36) PRIMARY KEY,
        customer_name VARCHAR(255) NOT NULL,
        customer_phone VARCHAR(64) NOT NULL,
        customer_email VARCHAR(255),
        address TEXT,
        note TEXT,
        shipping_method VARCHAR(255) NOT NULL,
        subtotal DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        shipping_cost DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        discount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        grand_total DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        coupon_code VARCHAR(64) NULL,
        status VARCHAR(32) NOT NULL DEFAULT 'PENDING',
        slip_url TEXT,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    )`); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS order_items (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        order_id VARCHAR(36) NOT NULL,
        product_id VARCHAR(36) NOT NULL,
        title VARCHAR(255) NOT NULL,
        price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        quantity INT NOT NULL DEFAULT 1,
        image TEXT,
        INDEX idx_order_items_order (order_id)
    )`); err != nil {
		return err
	}

	// promotions
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS coupons (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        code VARCHAR(64) NOT NULL UNIQUE,
        type VARCHAR(16) NOT NULL,
        value DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        min_spend DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        max_discount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        usage_limit INT NOT NULL DEFAULT 0,
        used INT NOT NULL DEFAULT 0,
        expire_at TIMESTAMP NULL,
        active TINYINT(1) NOT NULL DEFAULT 1
    )`); err != nil {
		return err
	}

	// shipping methods, seeded with the two defaults
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS shipping_methods (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        price DECIMAL(10,2) NOT NULL DEFAULT 0.00
    )`); err != nil {
		return err
	}
	if _, err := db.Exec(`INSERT INTO shipping_methods (name, price)
        SELECT * FROM (SELECT 'Standard Delivery', 50.00 UNION SELECT 'Express Delivery', 120.00) AS defaults
        WHERE NOT EXISTS (SELECT 1 FROM shipping_methods)`); err != nil {
		return err
	}

	// gallery / events
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        description TEXT,
        image_url TEXT,
        image_public_id VARCHAR(255) NULL,
        event_date VARCHAR(64),
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    )`); err != nil {
		return err
	}

	// valentine cards
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS valentine_cards (
        code VARCHAR(36) PRIMARY KEY,
        recipient VARCHAR(255) NOT NULL,
        sender VARCHAR(255),
        message TEXT NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    )`); err != nil {
		return err
	}

	// back-office users
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        email VARCHAR(255) NOT NULL UNIQUE,
        role VARCHAR(32) NOT NULL DEFAULT 'staff',
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    )`); err != nil {
		return err
	}

	// marketing settings (single row)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
        id TINYINT PRIMARY KEY,
        store_name VARCHAR(255) NOT NULL,
        promo_banner TEXT,
        enable_free_shipping TINYINT(1) NOT NULL DEFAULT 0,
        free_shipping_threshold DECIMAL(10,2) NOT NULL DEFAULT 0.00,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    )`); err != nil {
		return err
	}
	if _, err := db.Exec(`INSERT INTO settings (id, store_name, promo_banner, enable_free_shipping, free_shipping_threshold)
        SELECT 1, 'HanFlower', '', 0, 0.00
        WHERE NOT EXISTS (SELECT 1 FROM settings WHERE id = 1)`); err != nil {
		return err
	}

	return nil
}

func sqlNull(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

func sqlNullString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// timestampString normalizes created_at values, which arrive as time.Time,
// []byte or string depending on the driver's parseTime setting.
func timestampString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return ""
	}
}
