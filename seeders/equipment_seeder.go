package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	fleet := []struct {
		name   string
		serial string
		typ    string
	}{
		{"Fogging Machine A", "FOG-0001", "fogging_machine"},
		{"Fogging Machine B", "FOG-0002", "fogging_machine"},
		{"Fogging Machine C", "FOG-0003", "fogging_machine"},
		{"Backpack Sprayer A", "SPR-0001", "sprayer"},
		{"Backpack Sprayer B", "SPR-0002", "sprayer"},
		{"Mosquito Trap A", "TRP-0001", "mosquito_trap"},
		{"Mosquito Trap B", "TRP-0002", "mosquito_trap"},
		{"Microscope A", "MIC-0001", "microscope"},
	}

	inserted := 0
	for _, item := range fleet {
		tag, err := db.Exec(ctx,
			`INSERT INTO equipment (name, serial, type) VALUES ($1, $2, $3)
			 ON CONFLICT (serial) DO NOTHING`,
			item.name, item.serial, item.typ,
		)
		if err != nil {
			return fmt.Errorf("failed to insert equipment %q: %w", item.serial, err)
		}
		inserted += int(tag.RowsAffected())
	}

	log.Printf("  - %d equipment units inserted", inserted)
	return nil
}
