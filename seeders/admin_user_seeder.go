package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"borrow-system/pkg/utils"
)

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	email := "admin@vector-control.local"

	var existingID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&existingID)
	if err == nil {
		log.Println("  - admin user already exists, skipping")
		return nil
	}

	hashed, err := utils.HashPassword("ChangeMe123!")
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (full_name, email, password, role) VALUES ($1, $2, $3, 'admin')`,
		"System Administrator", email, hashed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	log.Println("  - admin user created (password must be changed on first login)")
	return nil
}

func seedStaffUsers(ctx context.Context, db *pgxpool.Pool) error {
	staff := []struct {
		fullName string
		email    string
		role     string
	}{
		{"Default Approver", "approver@vector-control.local", "approver"},
		{"Default Technician", "technician@vector-control.local", "technician"},
		{"Default Borrower", "user@vector-control.local", "user"},
	}

	for _, s := range staff {
		var existingID uint64
		err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", s.email).Scan(&existingID)
		if err == nil {
			continue
		}

		hashed, err := utils.HashPassword("ChangeMe123!")
		if err != nil {
			return err
		}

		_, err = db.Exec(ctx,
			`INSERT INTO users (full_name, email, password, role) VALUES ($1, $2, $3, $4)`,
			s.fullName, s.email, hashed, s.role,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user %q: %w", s.email, err)
		}
		log.Printf("  - user %s (%s) created", s.email, s.role)
	}

	return nil
}
