package recipe

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodshare/domain"
	"foodshare/entities"
)

type fakeRecipeRepository struct {
	recipes    map[string]*entities.Recipe
	favorites  map[string]bool
	cart       map[string]bool
	rows       []ShoppingListRow
	created    int
	updated    int
	deleted    int
	failUpdate bool
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{
		recipes:   make(map[string]*entities.Recipe),
		favorites: make(map[string]bool),
		cart:      make(map[string]bool),
	}
}

func edgeKey(userID, recipeID string) string { return userID + "|" + recipeID }

func (f *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe, _ []string, _ []*entities.RecipeIngredient) error {
	f.created++
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRecipeRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe, _ []string, _ []*entities.RecipeIngredient) error {
	if f.failUpdate {
		return errAlwaysFails
	}
	f.updated++
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, id string) error {
	f.deleted++
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return recipe, nil
}

func (f *fakeRecipeRepository) GetRecipes(_ context.Context, _ domain.RecipeFilter, _ string) ([]*entities.Recipe, int64, error) {
	var result []*entities.Recipe
	for _, r := range f.recipes {
		result = append(result, r)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRecipeRepository) AddFavorite(_ context.Context, userID, recipeID string) error {
	key := edgeKey(userID, recipeID)
	if f.favorites[key] {
		return gorm.ErrDuplicatedKey
	}
	f.favorites[key] = true
	return nil
}

func (f *fakeRecipeRepository) RemoveFavorite(_ context.Context, userID, recipeID string) (int64, error) {
	key := edgeKey(userID, recipeID)
	if !f.favorites[key] {
		return 0, nil
	}
	delete(f.favorites, key)
	return 1, nil
}

func (f *fakeRecipeRepository) IsFavorited(_ context.Context, userID, recipeID string) (bool, error) {
	return f.favorites[edgeKey(userID, recipeID)], nil
}

func (f *fakeRecipeRepository) AddCartItem(_ context.Context, userID, recipeID string) error {
	key := edgeKey(userID, recipeID)
	if f.cart[key] {
		return gorm.ErrDuplicatedKey
	}
	f.cart[key] = true
	return nil
}

func (f *fakeRecipeRepository) RemoveCartItem(_ context.Context, userID, recipeID string) (int64, error) {
	key := edgeKey(userID, recipeID)
	if !f.cart[key] {
		return 0, nil
	}
	delete(f.cart, key)
	return 1, nil
}

func (f *fakeRecipeRepository) IsInCart(_ context.Context, userID, recipeID string) (bool, error) {
	return f.cart[edgeKey(userID, recipeID)], nil
}

func (f *fakeRecipeRepository) GetShoppingList(_ context.Context, _ string) ([]ShoppingListRow, error) {
	return f.rows, nil
}

func (f *fakeRecipeRepository) GetOrCreateShortLink(_ context.Context, recipeID uuid.UUID, hash string) (*entities.ShortLink, error) {
	return &entities.ShortLink{RecipeID: recipeID, Hash: hash}, nil
}

func (f *fakeRecipeRepository) GetShortLinkByHash(_ context.Context, _ string) (*entities.ShortLink, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeUserRepository struct{}

func (fakeUserRepository) CreateUser(context.Context, *entities.User) error { return nil }
func (fakeUserRepository) GetUserByID(context.Context, string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (fakeUserRepository) GetUserByEmail(context.Context, string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (fakeUserRepository) EmailExists(context.Context, string) (bool, error) { return false, nil }
func (fakeUserRepository) GetUsers(context.Context, int, int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}
func (fakeUserRepository) UpdateUser(context.Context, *entities.User) error { return nil }
func (fakeUserRepository) IsSubscribed(context.Context, string, string) (bool, error) {
	return false, nil
}

type fakeTagRepository struct {
	known map[string]bool
}

func (f *fakeTagRepository) GetTags(context.Context) ([]*entities.Tag, error) { return nil, nil }
func (f *fakeTagRepository) GetTagByID(context.Context, string) (*entities.Tag, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTagRepository) CountTagsByIDs(_ context.Context, ids []string) (int64, error) {
	var count int64
	for _, id := range ids {
		if f.known[id] {
			count++
		}
	}
	return count, nil
}

type fakeIngredientRepository struct {
	known map[string]bool
}

func (f *fakeIngredientRepository) SearchIngredients(context.Context, string) ([]*entities.Ingredient, error) {
	return nil, nil
}
func (f *fakeIngredientRepository) GetIngredientByID(context.Context, string) (*entities.Ingredient, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeIngredientRepository) CountIngredientsByIDs(_ context.Context, ids []string) (int64, error) {
	var count int64
	for _, id := range ids {
		if f.known[id] {
			count++
		}
	}
	return count, nil
}
func (f *fakeIngredientRepository) BulkCreateIngredients(context.Context, []*entities.Ingredient) error {
	return nil
}

var errAlwaysFails = errors.New("storage unavailable")

type fakeS3 struct {
	uploads     int
	deletes     int
	deletedKeys []string
}

func (f *fakeS3) UploadFile(fileName string, _ []byte, _, folder string, _ ...string) (string, error) {
	f.uploads++
	return folder + "/" + fileName, nil
}
func (f *fakeS3) UpdateFile(objectKey string, _ []byte, _ string, _ ...string) (string, error) {
	f.uploads++
	return objectKey, nil
}
func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deletes++
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}
func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.example.com/" + objectKey
}
func (f *fakeS3) GetObjectKeyFromLink(link string) string { return link }

type recipeServiceFixture struct {
	service     RecipeService
	repo        *fakeRecipeRepository
	s3          *fakeS3
	tags        *fakeTagRepository
	ingredients *fakeIngredientRepository
}

func newRecipeServiceFixture() *recipeServiceFixture {
	repo := newFakeRecipeRepository()
	s3 := &fakeS3{}
	tags := &fakeTagRepository{known: make(map[string]bool)}
	ingredients := &fakeIngredientRepository{known: make(map[string]bool)}
	return &recipeServiceFixture{
		service:     NewRecipeService(repo, fakeUserRepository{}, tags, ingredients, s3),
		repo:        repo,
		s3:          s3,
		tags:        tags,
		ingredients: ingredients,
	}
}

func validImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func (fx *recipeServiceFixture) validRequest() domain.CreateRecipeRequest {
	tagID := uuid.New().String()
	ingredientID := uuid.New().String()
	fx.tags.known[tagID] = true
	fx.ingredients.known[ingredientID] = true

	return domain.CreateRecipeRequest{
		Name:        "Borscht",
		Text:        "Simmer until tender.",
		CookingTime: 90,
		Image:       validImage(),
		Tags:        []string{tagID},
		Ingredients: []domain.IngredientAmountRequest{{ID: ingredientID, Amount: 300}},
	}
}

func seedRecipe(fx *recipeServiceFixture, authorID uuid.UUID) *entities.Recipe {
	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        "Pelmeni",
		Text:        "Boil for ten minutes.",
		CookingTime: 25,
	}
	fx.repo.recipes[recipe.ID.String()] = recipe
	return recipe
}

func TestCreateRecipe(t *testing.T) {
	fx := newRecipeServiceFixture()
	userID := uuid.New().String()

	res, err := fx.service.CreateRecipe(context.Background(), fx.validRequest(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Borscht", res.Name)
	assert.Equal(t, 1, fx.repo.created)
	assert.Equal(t, 1, fx.s3.uploads)
}

func TestCreateRecipeRejectsDuplicateIngredient(t *testing.T) {
	fx := newRecipeServiceFixture()
	req := fx.validRequest()
	req.Ingredients = append(req.Ingredients, req.Ingredients[0])

	_, err := fx.service.CreateRecipe(context.Background(), req, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	assert.Zero(t, fx.repo.created, "nothing may be persisted on validation failure")
	assert.Zero(t, fx.s3.uploads)
}

func TestCreateRecipeRejectsUnknownIngredient(t *testing.T) {
	fx := newRecipeServiceFixture()
	req := fx.validRequest()
	req.Ingredients = []domain.IngredientAmountRequest{{ID: uuid.New().String(), Amount: 10}}

	_, err := fx.service.CreateRecipe(context.Background(), req, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnknownIngredient)
	assert.Zero(t, fx.repo.created)
}

func TestCreateRecipeRejectsUnknownTag(t *testing.T) {
	fx := newRecipeServiceFixture()
	req := fx.validRequest()
	req.Tags = []string{uuid.New().String()}

	_, err := fx.service.CreateRecipe(context.Background(), req, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnknownTag)
	assert.Zero(t, fx.repo.created)
}

func TestCreateRecipeRejectsBadImage(t *testing.T) {
	fx := newRecipeServiceFixture()
	req := fx.validRequest()
	req.Image = "https://example.com/image.png"

	_, err := fx.service.CreateRecipe(context.Background(), req, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidImageEncoding)
	assert.Zero(t, fx.s3.uploads)
	assert.Zero(t, fx.repo.created)
}

func TestUpdateRecipeRequiresAuthor(t *testing.T) {
	fx := newRecipeServiceFixture()
	recipe := seedRecipe(fx, uuid.New())
	req := fx.validRequest()

	_, err := fx.service.UpdateRecipe(
		context.Background(),
		recipe.ID.String(),
		domain.UpdateRecipeRequest{
			Name:        req.Name,
			Text:        req.Text,
			CookingTime: req.CookingTime,
			Tags:        req.Tags,
			Ingredients: req.Ingredients,
		},
		uuid.New().String(),
	)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)
	assert.Zero(t, fx.repo.updated)
}

func TestUpdateRecipeReplacesImageAfterCommit(t *testing.T) {
	fx := newRecipeServiceFixture()
	authorID := uuid.New()
	recipe := seedRecipe(fx, authorID)
	recipe.ImageURL = "recipes/old-image"
	req := fx.validRequest()

	_, err := fx.service.UpdateRecipe(
		context.Background(),
		recipe.ID.String(),
		domain.UpdateRecipeRequest{
			Name:        req.Name,
			Text:        req.Text,
			CookingTime: req.CookingTime,
			Image:       validImage(),
			Tags:        req.Tags,
			Ingredients: req.Ingredients,
		},
		authorID.String(),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, fx.s3.uploads)
	assert.Equal(t, []string{"recipes/old-image"}, fx.s3.deletedKeys, "old image goes away only after the row is stored")
	assert.Equal(t, "https://bucket.example.com/recipes/"+recipe.ID.String(), recipe.ImageURL)
}

func TestUpdateRecipeKeepsOldImageOnFailure(t *testing.T) {
	fx := newRecipeServiceFixture()
	authorID := uuid.New()
	recipe := seedRecipe(fx, authorID)
	recipe.ImageURL = "recipes/old-image"
	fx.repo.failUpdate = true
	req := fx.validRequest()

	_, err := fx.service.UpdateRecipe(
		context.Background(),
		recipe.ID.String(),
		domain.UpdateRecipeRequest{
			Name:        req.Name,
			Text:        req.Text,
			CookingTime: req.CookingTime,
			Image:       validImage(),
			Tags:        req.Tags,
			Ingredients: req.Ingredients,
		},
		authorID.String(),
	)
	require.ErrorIs(t, err, errAlwaysFails)
	assert.Equal(t, []string{"recipes/" + recipe.ID.String()}, fx.s3.deletedKeys, "only the orphaned new upload is removed")
	assert.NotContains(t, fx.s3.deletedKeys, "recipes/old-image")
}

func TestDeleteRecipeRequiresAuthor(t *testing.T) {
	fx := newRecipeServiceFixture()
	recipe := seedRecipe(fx, uuid.New())

	err := fx.service.DeleteRecipe(context.Background(), recipe.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)
	assert.Zero(t, fx.repo.deleted)
}

func TestDeleteRecipeMissing(t *testing.T) {
	fx := newRecipeServiceFixture()

	err := fx.service.DeleteRecipe(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestFavoriteEdgeContract(t *testing.T) {
	fx := newRecipeServiceFixture()
	recipe := seedRecipe(fx, uuid.New())
	userID := uuid.New().String()

	short, err := fx.service.AddFavorite(context.Background(), recipe.ID.String(), userID)
	require.NoError(t, err)
	assert.Equal(t, recipe.Name, short.Name)

	_, err = fx.service.AddFavorite(context.Background(), recipe.ID.String(), userID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	require.NoError(t, fx.service.RemoveFavorite(context.Background(), recipe.ID.String(), userID))
	assert.ErrorIs(t, fx.service.RemoveFavorite(context.Background(), recipe.ID.String(), userID), domain.ErrNotFavorited)
}

func TestCartEdgeContract(t *testing.T) {
	fx := newRecipeServiceFixture()
	recipe := seedRecipe(fx, uuid.New())
	userID := uuid.New().String()

	_, err := fx.service.AddToCart(context.Background(), recipe.ID.String(), userID)
	require.NoError(t, err)

	_, err = fx.service.AddToCart(context.Background(), recipe.ID.String(), userID)
	assert.ErrorIs(t, err, domain.ErrAlreadyInCart)

	require.NoError(t, fx.service.RemoveFromCart(context.Background(), recipe.ID.String(), userID))
	assert.ErrorIs(t, fx.service.RemoveFromCart(context.Background(), recipe.ID.String(), userID), domain.ErrNotInCart)
}

func TestFavoriteMissingRecipe(t *testing.T) {
	fx := newRecipeServiceFixture()

	_, err := fx.service.AddFavorite(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGetRecipesFilterRequiresAuth(t *testing.T) {
	fx := newRecipeServiceFixture()

	_, _, err := fx.service.GetRecipes(context.Background(), domain.RecipeFilter{FavoritedOnly: true}, "")
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)

	_, _, err = fx.service.GetRecipes(context.Background(), domain.RecipeFilter{InCartOnly: true}, "")
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestGetShoppingList(t *testing.T) {
	fx := newRecipeServiceFixture()
	fx.repo.rows = []ShoppingListRow{
		{Name: "potato", MeasurementUnit: "g", TotalAmount: 500},
		{Name: "salt", MeasurementUnit: "g", TotalAmount: 15},
	}

	items, err := fx.service.GetShoppingList(context.Background(), uuid.New().String())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.ShoppingListItem{Name: "potato", MeasurementUnit: "g", TotalAmount: 500}, items[0])
	assert.Equal(t, domain.ShoppingListItem{Name: "salt", MeasurementUnit: "g", TotalAmount: 15}, items[1])
}

func TestResolveShortLinkMissing(t *testing.T) {
	fx := newRecipeServiceFixture()

	_, err := fx.service.ResolveShortLink(context.Background(), "abc123")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
