package repository

import (
	"context"

	"github.com/forkful/forkful-backend/internal/models"
)

// ingredientSearchLimit caps prefix-search results the way the catalog
// endpoint expects.
const ingredientSearchLimit = 10

func (r *Repository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *Repository) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.DB.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// SearchIngredients does a case-insensitive prefix match on the name.
func (r *Repository) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := r.DB.WithContext(ctx)
	if prefix != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", prefix+"%")
	}
	if err := query.Order("name").Limit(ingredientSearchLimit).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// MissingIngredients reports which of the submitted ids do not resolve.
// Part of the validation.Catalog contract.
func (r *Repository) MissingIngredients(ctx context.Context, ids []uint) ([]uint, error) {
	var found []uint
	if err := r.DB.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return diffIDs(ids, found), nil
}

// MissingTags reports which of the submitted ids do not resolve.
func (r *Repository) MissingTags(ctx context.Context, ids []uint) ([]uint, error) {
	var found []uint
	if err := r.DB.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return diffIDs(ids, found), nil
}

func diffIDs(want, have []uint) []uint {
	present := make(map[uint]bool, len(have))
	for _, id := range have {
		present[id] = true
	}
	var missing []uint
	for _, id := range want {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
