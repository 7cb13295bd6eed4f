package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// tenant and its admin user. It is a no-op if any tenant already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tenants").Scan(&count); err != nil {
		return fmt.Errorf("seed check tenants: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var tenantID string
	err := db.QueryRow(`
		INSERT INTO tenants (name, slug) VALUES ($1, $2) RETURNING id`,
		"Demo Parts", "demo").Scan(&tenantID)
	if err != nil {
		return fmt.Errorf("seed insert tenant: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (tenant_id, email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
	`, tenantID, "admin@partshub.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default tenant and admin user",
		"tenant", "demo",
		"email", "admin@partshub.local",
		"password", "admin",
	)

	return nil
}
