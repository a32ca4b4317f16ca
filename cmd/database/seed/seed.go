package seed

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"foodshare/pkg/ingredient"
)

// SeedIngredients loads the reference ingredient catalog from a CSV file
// of "name,measurement_unit" rows.
func SeedIngredients(db *gorm.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	ingredientRepository := ingredient.NewIngredientRepository(db)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)

	count, err := ingredientService.ImportFromCSV(context.Background(), file)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d ingredients from %s\n", count, path)
	return nil
}
