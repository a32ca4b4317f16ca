package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;index" json:"author_id"`
	Name        string    `gorm:"size:256" json:"name"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `json:"cooking_time"`
	ImageURL    string    `json:"image,omitempty"`

	Author      *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []*Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID"`
	Timestamp
}

// RecipeIngredient links a recipe to an ingredient with an amount.
// An ingredient appears at most once per recipe.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_recipe_ingredients_pair" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_recipe_ingredients_pair" json:"ingredient_id"`
	Amount       int       `json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_favorites_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_favorites_pair" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_items_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_items_pair" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShortLink stores the stable short hash for a recipe.
type ShortLink struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"recipe_id"`
	Hash     string    `gorm:"size:10;uniqueIndex" json:"hash"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
