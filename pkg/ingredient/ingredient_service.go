package ingredient

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"gorm.io/gorm"

	"foodshare/domain"
	"foodshare/entities"
)

type (
	IngredientService interface {
		SearchIngredients(ctx context.Context, name string) ([]domain.IngredientResponse, error)
		GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error)
		ImportFromCSV(ctx context.Context, r io.Reader) (int, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func toResponse(i *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func (s *ingredientService) SearchIngredients(ctx context.Context, name string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.SearchIngredients(ctx, name)
	if err != nil {
		return nil, err
	}

	result := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		result = append(result, toResponse(i))
	}
	return result, nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ing, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, err
	}
	return toResponse(ing), nil
}

// ImportFromCSV loads reference ingredients from "name,measurement_unit"
// rows. Intended to run once at seeding time.
func (s *ingredientService) ImportFromCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	var ingredients []*entities.Ingredient

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if len(row) < 2 || row[0] == "" {
			continue
		}
		ingredients = append(ingredients, &entities.Ingredient{
			Name:            row[0],
			MeasurementUnit: row[1],
		})
	}

	if len(ingredients) == 0 {
		return 0, nil
	}

	if err := s.ingredientRepository.BulkCreateIngredients(ctx, ingredients); err != nil {
		return 0, err
	}
	return len(ingredients), nil
}
