package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/repository"
)

// RelationService is the idempotent add/remove engine for user-recipe
// relations. One implementation serves both kinds; nothing here is
// favorite- or cart-specific.
type RelationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewRelationService(repo *repository.Repository, logger *zap.Logger) *RelationService {
	return &RelationService{repo: repo, logger: logger}
}

// Add inserts the relation and returns the recipe for the caller to
// render a summary. A pre-existing row — including one created by a
// concurrent caller — yields ErrAlreadyExists, never the raw storage
// error.
func (s *RelationService) Add(ctx context.Context, kind models.RelationKind, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if _, err := s.repo.AddRelation(ctx, kind, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		s.logger.Error("relation add failed",
			zap.String("kind", string(kind)),
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err))
		return nil, err
	}
	return recipe, nil
}

// Remove deletes the relation; a missing row yields ErrNotPresent rather
// than a silent success.
func (s *RelationService) Remove(ctx context.Context, kind models.RelationKind, userID, recipeID uuid.UUID) error {
	removed, err := s.repo.RemoveRelation(ctx, kind, userID, recipeID)
	if err != nil {
		s.logger.Error("relation remove failed",
			zap.String("kind", string(kind)),
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err))
		return err
	}
	if !removed {
		return ErrNotPresent
	}
	return nil
}
