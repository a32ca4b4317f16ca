package main

import (
	"flag"
	"log"

	"foodshare/cmd/config"
	migration "foodshare/cmd/database/migrate"
	"foodshare/cmd/database/seed"
	"foodshare/internal/utils"
)

func main() {
	seedPath := flag.String("seed-ingredients", "", "path to an ingredients CSV to import, then exit")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if *seedPath != "" {
		if err := seed.SeedIngredients(db, *seedPath); err != nil {
			log.Fatalf("failed to seed ingredients: %v", err)
		}
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	if err := app.Listen(":8000"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
