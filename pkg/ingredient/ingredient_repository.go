package ingredient

import (
	"context"

	"gorm.io/gorm"

	"foodshare/entities"
)

type (
	IngredientRepository interface {
		SearchIngredients(ctx context.Context, name string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		CountIngredientsByIDs(ctx context.Context, ids []string) (int64, error)
		BulkCreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) SearchIngredients(ctx context.Context, name string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	query := r.db.WithContext(ctx).Order("name asc")
	if name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ing entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepository) CountIngredientsByIDs(ctx context.Context, ids []string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ingredientRepository) BulkCreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error {
	return r.db.WithContext(ctx).CreateInBatches(ingredients, 500).Error
}
