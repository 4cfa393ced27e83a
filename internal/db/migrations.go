package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The log fields on shifts and trips are free text on purpose: they hold
// exactly what the driver wrote on the paper sheet, and the report engine
// owns all interpretation. Monetary columns are integer cents.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'trip_status') THEN
			CREATE TYPE trip_status AS ENUM ('NORMAL', 'CANCELED', 'NO_SHOW');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		is_logged BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS trip_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(256) NOT NULL,
		address VARCHAR(256) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		elderly BOOLEAN,
		ambulatory BOOLEAN,
		is_staff BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_clients_name ON clients (LOWER(name));`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		date DATE NOT NULL,
		driver_id UUID REFERENCES drivers(id),
		vehicle_id UUID REFERENCES vehicles(id),
		start_miles VARCHAR(32) NOT NULL DEFAULT '',
		start_time VARCHAR(16) NOT NULL DEFAULT '',
		end_miles VARCHAR(32) NOT NULL DEFAULT '',
		end_time VARCHAR(16) NOT NULL DEFAULT '',
		fuel VARCHAR(16) NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts (date);`,
	`CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		date DATE NOT NULL,
		driver_id UUID REFERENCES drivers(id),
		vehicle_id UUID REFERENCES vehicles(id),
		trip_type_id UUID REFERENCES trip_types(id),
		status trip_status NOT NULL DEFAULT 'NORMAL',
		is_activity BOOLEAN NOT NULL DEFAULT FALSE,
		name VARCHAR(256) NOT NULL DEFAULT '',
		address VARCHAR(256) NOT NULL DEFAULT '',
		destination VARCHAR(256) NOT NULL DEFAULT '',
		passengers INTEGER NOT NULL DEFAULT 1,
		elderly BOOLEAN,
		ambulatory BOOLEAN,
		start_miles VARCHAR(32) NOT NULL DEFAULT '',
		start_time VARCHAR(16) NOT NULL DEFAULT '',
		end_miles VARCHAR(32) NOT NULL DEFAULT '',
		end_time VARCHAR(16) NOT NULL DEFAULT '',
		fare_cents BIGINT NOT NULL DEFAULT 0,
		collected_cash_cents BIGINT NOT NULL DEFAULT 0,
		collected_check_cents BIGINT NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_date ON trips (date);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_status ON trips (status);`,
	`CREATE TABLE IF NOT EXISTS client_payments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES clients(id),
		date DATE NOT NULL,
		cash_cents BIGINT NOT NULL DEFAULT 0,
		check_cents BIGINT NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_client_payments_date ON client_payments (date);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
