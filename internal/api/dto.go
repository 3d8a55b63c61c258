package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/repository"
	"github.com/forkful/forkful-backend/internal/validation"
)

// Optional is a JSON field that remembers whether its key was present.
// Updates must distinguish an absent collection (leave stored set alone)
// from a present-but-empty one (a validation failure), so plain pointers
// are not enough: json null would collapse into "absent".
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// writeRecipe is the inbound payload shape for create and update.
type writeRecipe struct {
	Name        Optional[string]                       `json:"name"`
	Text        Optional[string]                       `json:"text"`
	Image       Optional[string]                       `json:"image"`
	CookingTime Optional[int]                          `json:"cooking_time"`
	Tags        Optional[[]uint]                       `json:"tags"`
	Ingredients Optional[[]validation.IngredientEntry] `json:"ingredients"`
}

// toInput maps the wire shape onto the validator's input. A key that was
// present with a null value becomes the type's empty value, so it fails
// the same checks as an explicitly empty submission.
func (w writeRecipe) toInput() validation.RecipeInput {
	return validation.RecipeInput{
		Name:        scalar(w.Name),
		Text:        scalar(w.Text),
		Image:       scalar(w.Image),
		CookingTime: scalar(w.CookingTime),
		Tags:        collection(w.Tags),
		Ingredients: collection(w.Ingredients),
	}
}

func scalar[T any](o Optional[T]) *T {
	if !o.Set {
		return nil
	}
	if o.Value == nil {
		var zero T
		return &zero
	}
	return o.Value
}

func collection[T any](o Optional[[]T]) *[]T {
	if !o.Set {
		return nil
	}
	if o.Value == nil {
		empty := []T{}
		return &empty
	}
	return o.Value
}

// readTag, readIngredient, readAuthor and readRecipe together form the
// canonical read representation handed back after every create, update or
// fetch.
type readTag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type readIngredient struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type readAuthor struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

type readRecipe struct {
	ID               uuid.UUID        `json:"id"`
	Tags             []readTag        `json:"tags"`
	Author           readAuthor       `json:"author"`
	Ingredients      []readIngredient `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	CreatedAt        time.Time        `json:"created_at"`
}

// shortRecipe is the compact card returned by the relation endpoints.
type shortRecipe struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func newReadRecipe(recipe *models.Recipe, flags repository.RelationFlags) readRecipe {
	tags := make([]readTag, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, readTag{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
	}

	ingredients := make([]readIngredient, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, readIngredient{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	return readRecipe{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           readAuthor{ID: recipe.Author.ID, Username: recipe.Author.Username, Name: recipe.Author.Name},
		Ingredients:      ingredients,
		IsFavorited:      flags.Favorited,
		IsInShoppingCart: flags.InCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
	}
}

func newShortRecipe(recipe *models.Recipe) shortRecipe {
	return shortRecipe{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// page is the list envelope: total count plus absolute links to the
// neighboring pages.
type page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}
