package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"foodshare/entities"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Subscription{}); err != nil {
		log.Fatalf("Error migrating subscription database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Tag{}); err != nil {
		log.Fatalf("Error migrating tag database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		log.Fatalf("Error migrating ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.RecipeIngredient{}); err != nil {
		log.Fatalf("Error migrating recipe ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Favorite{}); err != nil {
		log.Fatalf("Error migrating favorite database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.CartItem{}); err != nil {
		log.Fatalf("Error migrating cart item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ShortLink{}); err != nil {
		log.Fatalf("Error migrating short link database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
