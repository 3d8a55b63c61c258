package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/internal/models"
)

// RecipeFilter narrows the recipe listing. Nil pointer fields are not
// applied.
type RecipeFilter struct {
	Page         int
	Limit        int
	TagSlugs     []string
	AuthorID     *uuid.UUID
	FavoritedBy  *uuid.UUID
	InCartOf     *uuid.UUID
	Search       string
	SearchVector *pgvector.Vector
}

// CreateRecipe inserts the recipe row, its tag associations and its
// ingredient rows as one transaction. Nothing partial is ever visible.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *models.Recipe, tagIDs []uint, ingredients []models.RecipeIngredient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, recipe, tagIDs); err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, ingredients)
	})
}

// UpdateRecipe applies the scalar column changes and, when a replacement
// set was supplied, rewrites the tag and ingredient associations
// wholesale. A nil set leaves the stored collection untouched.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *models.Recipe, columns map[string]interface{}, tagIDs *[]uint, ingredients *[]models.RecipeIngredient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(columns).Error; err != nil {
				return err
			}
		}
		if tagIDs != nil {
			if err := replaceTags(tx, recipe, *tagIDs); err != nil {
				return err
			}
		}
		if ingredients != nil {
			if err := replaceIngredients(tx, recipe.ID, *ingredients); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []uint) error {
	var tags []models.Tag
	if err := tx.Find(&tags, tagIDs).Error; err != nil {
		return err
	}
	return tx.Model(recipe).Association("Tags").Replace(tags)
}

func replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, ingredients []models.RecipeIngredient) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(ingredients) == 0 {
		return nil
	}
	for i := range ingredients {
		ingredients[i].ID = 0
		ingredients[i].RecipeID = recipeID
	}
	return tx.Create(&ingredients).Error
}

// GetRecipe loads the full aggregate: author, tags and ingredient rows
// with their catalog entries resolved.
func (r *Repository) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes the aggregate and the relations pointing at it.
// The deletes are explicit so the behavior does not depend on the
// driver's foreign-key cascade settings.
func (r *Repository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.UserRecipeRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// ListRecipes returns one page of recipes plus the unpaginated total.
func (r *Repository) ListRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		sub := r.DB.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", sub)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		query = query.Where("recipes.id IN (?)", r.relationSubquery(models.RelationFavorite, *filter.FavoritedBy))
	}
	if filter.InCartOf != nil {
		query = query.Where("recipes.id IN (?)", r.relationSubquery(models.RelationCart, *filter.InCartOf))
	}

	useVector := filter.Search != "" && filter.SearchVector != nil && r.DB.Dialector.Name() == "postgres"
	if filter.Search != "" && !useVector {
		// Applied before the count so the total covers the filtered set.
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(recipes.name) LIKE ? OR LOWER(recipes.text) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if useVector {
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{*filter.SearchVector}},
		})
	} else {
		query = query.Order("recipes.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (r *Repository) relationSubquery(kind models.RelationKind, userID uuid.UUID) *gorm.DB {
	return r.DB.Model(&models.UserRecipeRelation{}).
		Select("recipe_id").
		Where("kind = ? AND user_id = ?", kind, userID)
}
