package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abdularham/clinic-api/pkg/security"
)

const schema = `
CREATE TABLE IF NOT EXISTS admins (
	id BIGSERIAL PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	created_by BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS doctors (
	id BIGSERIAL PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	created_by BIGINT REFERENCES admins(id) NOT NULL,
	deleted BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS patients (
	id BIGSERIAL PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	created_by BIGINT REFERENCES admins(id) NOT NULL,
	deleted BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS visits (
	id BIGSERIAL PRIMARY KEY,
	patient_id BIGINT REFERENCES patients(id) NOT NULL,
	doctor_id BIGINT REFERENCES doctors(id) NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id BIGSERIAL PRIMARY KEY,
	patient_id BIGINT REFERENCES patients(id) NOT NULL,
	doctor_id BIGINT REFERENCES doctors(id) NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL,
	status VARCHAR(255) NOT NULL,
	visit_id BIGINT REFERENCES visits(id)
);

CREATE TABLE IF NOT EXISTS exams (
	id BIGSERIAL PRIMARY KEY,
	visit_id BIGINT REFERENCES visits(id) NOT NULL,
	doctor_comment VARCHAR(255)
);

ALTER TABLE visits ADD COLUMN IF NOT EXISTS appointment_id BIGINT REFERENCES appointments(id);
`

const (
	bootstrapAdminEmail    = "admin123@gmail.com"
	bootstrapAdminName     = "Admin123"
	bootstrapAdminPassword = "admin123"
)

// Bootstrap creates the schema and seeds the first admin account. The seed
// insert is a no-op when the admin already exists, so repeated startups
// are harmless.
func Bootstrap(ctx context.Context, db *sqlx.DB, hasher security.PasswordHasher) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	hash, err := hasher.Hash(bootstrapAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	seed := `
		INSERT INTO admins (email, name, password, created_by)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (email) DO NOTHING
	`
	if _, err := db.ExecContext(ctx, seed, bootstrapAdminEmail, bootstrapAdminName, hash); err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}
	return nil
}
