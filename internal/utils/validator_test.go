package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodshare/domain"
)

type usernameProbe struct {
	Username string `validate:"required,max=150,username"`
}

func TestUsernameValidation(t *testing.T) {
	InitValidator()

	assert.NoError(t, Validate.Struct(usernameProbe{Username: "home.cook_42"}))
	assert.NoError(t, Validate.Struct(usernameProbe{Username: "chef@kitchen+1"}))
	assert.Error(t, Validate.Struct(usernameProbe{Username: "has spaces"}))
	assert.Error(t, Validate.Struct(usernameProbe{Username: "no!bang"}))
	assert.Error(t, Validate.Struct(usernameProbe{Username: ""}))
}

func TestRecipeRequestBounds(t *testing.T) {
	InitValidator()

	valid := domain.CreateRecipeRequest{
		Name:        "Borscht",
		Text:        "Simmer until tender.",
		CookingTime: 90,
		Image:       "data:image/png;base64,AAAA",
		Tags:        []string{"7a9db6d4-4f05-4a5e-b3cf-3ac5b1b2c001"},
		Ingredients: []domain.IngredientAmountRequest{
			{ID: "7a9db6d4-4f05-4a5e-b3cf-3ac5b1b2c002", Amount: 300},
		},
	}
	assert.NoError(t, Validate.Struct(valid))

	overLongCook := valid
	overLongCook.CookingTime = 32001
	assert.Error(t, Validate.Struct(overLongCook), "cooking_time above 32000 must be rejected")

	zeroCook := valid
	zeroCook.CookingTime = 0
	assert.Error(t, Validate.Struct(zeroCook))

	overAmount := valid
	overAmount.Ingredients = []domain.IngredientAmountRequest{
		{ID: "7a9db6d4-4f05-4a5e-b3cf-3ac5b1b2c002", Amount: 32001},
	}
	assert.Error(t, Validate.Struct(overAmount), "amount above 32000 must be rejected")

	zeroAmount := valid
	zeroAmount.Ingredients = []domain.IngredientAmountRequest{
		{ID: "7a9db6d4-4f05-4a5e-b3cf-3ac5b1b2c002", Amount: 0},
	}
	assert.Error(t, Validate.Struct(zeroAmount))
}
