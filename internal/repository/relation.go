package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/models"
)

// AddRelation inserts the (kind, user, recipe) row. When the row already
// exists — including losing a concurrent race — the composite unique index
// rejects the insert and the error surfaces as gorm.ErrDuplicatedKey for
// the caller to translate.
func (r *Repository) AddRelation(ctx context.Context, kind models.RelationKind, userID, recipeID uuid.UUID) (*models.UserRecipeRelation, error) {
	relation := models.UserRecipeRelation{
		Kind:     kind,
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := r.DB.WithContext(ctx).Create(&relation).Error; err != nil {
		return nil, err
	}
	return &relation, nil
}

// RemoveRelation deletes the matching row and reports whether one existed.
func (r *Repository) RemoveRelation(ctx context.Context, kind models.RelationKind, userID, recipeID uuid.UUID) (bool, error) {
	result := r.DB.WithContext(ctx).
		Where("kind = ? AND user_id = ? AND recipe_id = ?", kind, userID, recipeID).
		Delete(&models.UserRecipeRelation{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RelationFlags reports, per recipe, whether the user has favorited or
// carted it. Used to decorate read representations.
type RelationFlags struct {
	Favorited bool
	InCart    bool
}

func (r *Repository) RelationFlags(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]RelationFlags, error) {
	flags := make(map[uuid.UUID]RelationFlags, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return flags, nil
	}

	var relations []models.UserRecipeRelation
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&relations).Error
	if err != nil {
		return nil, err
	}

	for _, relation := range relations {
		f := flags[relation.RecipeID]
		switch relation.Kind {
		case models.RelationFavorite:
			f.Favorited = true
		case models.RelationCart:
			f.InCart = true
		}
		flags[relation.RecipeID] = f
	}
	return flags, nil
}

// ShoppingListRow is one summed ingredient group from the user's cart.
type ShoppingListRow struct {
	Name            string
	MeasurementUnit string
	Total           int64
}

// ShoppingListRows sums ingredient amounts across every recipe in the
// user's cart, grouped by (name, unit). Pure read on committed state;
// ordering is applied by the caller.
func (r *Repository) ShoppingListRows(ctx context.Context, userID uuid.UUID) ([]ShoppingListRow, error) {
	var rows []ShoppingListRow
	err := r.DB.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN user_recipe_relations ON user_recipe_relations.recipe_id = recipe_ingredients.recipe_id").
		Where("user_recipe_relations.kind = ? AND user_recipe_relations.user_id = ?", models.RelationCart, userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
