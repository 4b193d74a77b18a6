package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedUsers creates the default accounts: one per role.
func SeedUsers(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding users...")

	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	if err := seedStaffUsers(ctx, db); err != nil {
		log.Fatalf("failed to seed staff users: %v", err)
	}

	log.Println("users seeded")
}

// SeedEquipment fills the inventory with a starter fleet.
func SeedEquipment(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding equipment...")

	if err := seedEquipment(ctx, db); err != nil {
		log.Fatalf("failed to seed equipment: %v", err)
	}

	log.Println("equipment seeded")
}
