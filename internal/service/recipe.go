package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/repository"
	"github.com/forkful/forkful-backend/internal/validation"
)

// ImageStore persists a submitted image reference and returns the URL to
// store on the recipe. Data URLs are decoded and uploaded; plain URLs pass
// through.
type ImageStore interface {
	Store(ctx context.Context, image string) (string, error)
}

// RecipeService orchestrates validation and the atomic create/replace of
// a recipe's associations.
type RecipeService struct {
	repo      *repository.Repository
	validator *validation.RecipeValidator
	images    ImageStore
	logger    *zap.Logger
}

func NewRecipeService(repo *repository.Repository, validator *validation.RecipeValidator, images ImageStore, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		repo:      repo,
		validator: validator,
		images:    images,
		logger:    logger,
	}
}

// CanModify is the write-side authorization predicate: only the author or
// a superuser may mutate a recipe. Callers run it before invoking Update
// or Delete.
func CanModify(userID uuid.UUID, superuser bool, recipe *models.Recipe) bool {
	return superuser || recipe.AuthorID == userID
}

// Create validates the payload and writes the recipe row, its tag
// associations and its ingredient rows in one transaction. Returns the
// canonical read representation.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in validation.RecipeInput) (*models.Recipe, error) {
	if err := s.validator.ValidateCreate(ctx, in); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Store(ctx, *in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        *in.Name,
		AuthorID:    authorID,
		Text:        *in.Text,
		ImageURL:    imageURL,
		CookingTime: *in.CookingTime,
		Embedding:   GenerateEmbedding(*in.Name + " " + *in.Text),
	}

	if err := s.repo.CreateRecipe(ctx, &recipe, *in.Tags, ingredientRows(*in.Ingredients)); err != nil {
		s.logger.Error("recipe create failed", zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Update validates the supplied fields, applies scalar changes and, for
// each supplied collection, replaces the stored set wholesale. Absent
// collections are left untouched.
func (s *RecipeService) Update(ctx context.Context, recipe *models.Recipe, in validation.RecipeInput) (*models.Recipe, error) {
	if err := s.validator.ValidateUpdate(ctx, in); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	name, text := recipe.Name, recipe.Text
	if in.Name != nil {
		columns["name"] = *in.Name
		name = *in.Name
	}
	if in.Text != nil {
		columns["text"] = *in.Text
		text = *in.Text
	}
	if in.CookingTime != nil {
		columns["cooking_time"] = *in.CookingTime
	}
	if in.Image != nil {
		imageURL, err := s.images.Store(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		columns["image_url"] = imageURL
	}
	if in.Name != nil || in.Text != nil {
		columns["embedding"] = GenerateEmbedding(name + " " + text)
	}

	var ingredients *[]models.RecipeIngredient
	if in.Ingredients != nil {
		rows := ingredientRows(*in.Ingredients)
		ingredients = &rows
	}

	if err := s.repo.UpdateRecipe(ctx, recipe, columns, in.Tags, ingredients); err != nil {
		s.logger.Error("recipe update failed", zap.String("recipe_id", recipe.ID.String()), zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Get returns the full aggregate or ErrRecipeNotFound.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.repo.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRecipe(ctx, id)
}

// List returns one page of recipes plus the unpaginated total. A search
// term is embedded here so the repository stays free of scoring logic.
func (s *RecipeService) List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, int64, error) {
	if filter.Search != "" {
		vec := GenerateEmbedding(filter.Search)
		filter.SearchVector = &vec
	}
	return s.repo.ListRecipes(ctx, filter)
}

// RelationFlags decorates recipes with the caller's favorite/cart state.
func (s *RecipeService) RelationFlags(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]repository.RelationFlags, error) {
	return s.repo.RelationFlags(ctx, userID, recipeIDs)
}

func ingredientRows(entries []validation.IngredientEntry) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.RecipeIngredient{
			IngredientID: entry.ID,
			Amount:       entry.Amount,
		})
	}
	return rows
}
