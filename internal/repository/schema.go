package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/rental-booking/internal/database"
)

// Tables are created parents first so that foreign keys resolve.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS hosts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		host_rating DOUBLE NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS guests (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		guest_rating DOUBLE NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS locations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		city VARCHAR(255) NOT NULL,
		country VARCHAR(255) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS amenities (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS cancellation_policies (
		id INT AUTO_INCREMENT PRIMARY KEY,
		description TEXT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS properties (
		id INT AUTO_INCREMENT PRIMARY KEY,
		host_id INT NOT NULL,
		address VARCHAR(512) NOT NULL,
		price_per_night DOUBLE NOT NULL,
		description TEXT NOT NULL,
		location_id INT NULL,
		amenity_ids TEXT NOT NULL,
		cancellation_policy_id INT NULL,
		CONSTRAINT fk_properties_host FOREIGN KEY (host_id) REFERENCES hosts(id),
		CONSTRAINT fk_properties_location FOREIGN KEY (location_id) REFERENCES locations(id),
		CONSTRAINT fk_properties_policy FOREIGN KEY (cancellation_policy_id) REFERENCES cancellation_policies(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		amount DOUBLE NOT NULL,
		payment_date DATETIME(6) NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id INT AUTO_INCREMENT PRIMARY KEY,
		guest_id INT NOT NULL,
		property_id INT NOT NULL,
		check_in_date DATETIME(6) NOT NULL,
		check_out_date DATETIME(6) NOT NULL,
		total_price DOUBLE NOT NULL,
		payment_id INT NULL,
		INDEX idx_bookings_property (property_id),
		CONSTRAINT fk_bookings_guest FOREIGN KEY (guest_id) REFERENCES guests(id),
		CONSTRAINT fk_bookings_property FOREIGN KEY (property_id) REFERENCES properties(id),
		CONSTRAINT fk_bookings_payment FOREIGN KEY (payment_id) REFERENCES payments(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id INT AUTO_INCREMENT PRIMARY KEY,
		guest_id INT NOT NULL,
		property_id INT NOT NULL,
		rating DOUBLE NOT NULL,
		comment TEXT NOT NULL,
		review_date DATETIME(6) NOT NULL,
		CONSTRAINT fk_reviews_guest FOREIGN KEY (guest_id) REFERENCES guests(id),
		CONSTRAINT fk_reviews_property FOREIGN KEY (property_id) REFERENCES properties(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS hosts (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		host_rating DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS guests (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		guest_rating DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id SERIAL PRIMARY KEY,
		city TEXT NOT NULL,
		country TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS amenities (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cancellation_policies (
		id SERIAL PRIMARY KEY,
		description TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id SERIAL PRIMARY KEY,
		host_id INT NOT NULL REFERENCES hosts(id),
		address TEXT NOT NULL,
		price_per_night DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL,
		location_id INT NULL REFERENCES locations(id),
		amenity_ids TEXT NOT NULL,
		cancellation_policy_id INT NULL REFERENCES cancellation_policies(id)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id SERIAL PRIMARY KEY,
		amount DOUBLE PRECISION NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id SERIAL PRIMARY KEY,
		guest_id INT NOT NULL REFERENCES guests(id),
		property_id INT NOT NULL REFERENCES properties(id),
		check_in_date TIMESTAMPTZ NOT NULL,
		check_out_date TIMESTAMPTZ NOT NULL,
		total_price DOUBLE PRECISION NOT NULL,
		payment_id INT NULL REFERENCES payments(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_property ON bookings (property_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		guest_id INT NOT NULL REFERENCES guests(id),
		property_id INT NOT NULL REFERENCES properties(id),
		rating DOUBLE PRECISION NOT NULL,
		comment TEXT NOT NULL,
		review_date TIMESTAMPTZ NOT NULL
	)`,
}

// Schema returns the DDL statements for driver.
func Schema(driver string) ([]string, error) {
	switch driver {
	case database.DriverMySQL:
		return mysqlSchema, nil
	case database.DriverPostgres:
		return postgresSchema, nil
	default:
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
}

// Migrate creates every table that does not exist yet.  Statements are
// idempotent, so running it on an up-to-date database is harmless.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, err := Schema(db.DriverName())
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return classify("migrate", err)
		}
	}
	return nil
}
