package main

import (
	"flag"
	"log"

	"borrow-system/pkg/config"
	"borrow-system/pkg/database/postgresql"
	"borrow-system/seeders"
)

func main() {
	runUsers := flag.Bool("users", false, "seed the default accounts (admin, approver, technician, borrower)")
	runEquipment := flag.Bool("equipment", false, "seed the starter equipment fleet")
	runAll := flag.Bool("all", false, "run every seeder")
	flag.Parse()

	if !*runUsers && !*runEquipment && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runUsers || *runAll {
		seeders.SeedUsers(dbPool)
	}
	if *runEquipment || *runAll {
		seeders.SeedEquipment(dbPool)
	}
}
