package validation

import (
	"context"
	"fmt"
)

// Bounds mirror the CHECK constraints in the migrations. A value outside
// them must never reach storage.
const (
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinAmount           = 1
	MaxIngredientAmount = 32000
)

// IngredientEntry is one submitted (ingredient, amount) pair.
type IngredientEntry struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

// RecipeInput carries a submitted recipe payload. Nil pointers mean the
// payload key was absent; a pointer to an empty slice means the key was
// present with an empty value. Update treats the two differently, so the
// distinction must survive JSON decoding.
type RecipeInput struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Tags        *[]uint
	Ingredients *[]IngredientEntry
}

// Catalog resolves submitted ids against reference data. Implemented by
// the repository; read-only.
type Catalog interface {
	MissingIngredients(ctx context.Context, ids []uint) ([]uint, error)
	MissingTags(ctx context.Context, ids []uint) ([]uint, error)
}

// RecipeValidator runs the pure shape/range/uniqueness checks before any
// write happens.
type RecipeValidator struct {
	catalog Catalog
}

func NewRecipeValidator(catalog Catalog) *RecipeValidator {
	return &RecipeValidator{catalog: catalog}
}

// ValidateCreate requires every field to be supplied and valid.
func (v *RecipeValidator) ValidateCreate(ctx context.Context, in RecipeInput) error {
	verr := &Error{}
	if in.Name == nil || *in.Name == "" {
		verr.Add("name", "this field is required")
	}
	if in.Text == nil || *in.Text == "" {
		verr.Add("text", "this field is required")
	}
	if in.Image == nil || *in.Image == "" {
		verr.Add("image", "this field is required")
	}
	if in.CookingTime == nil {
		verr.Add("cooking_time", "this field is required")
	}
	if in.Tags == nil {
		verr.Add("tags", "this field is required")
	}
	if in.Ingredients == nil {
		verr.Add("ingredients", "this field is required")
	}
	if !verr.Empty() {
		return verr
	}
	return v.validateSupplied(ctx, in)
}

// ValidateUpdate checks only the supplied fields. A key that is present
// but empty fails exactly as it would on create; an absent key is skipped.
func (v *RecipeValidator) ValidateUpdate(ctx context.Context, in RecipeInput) error {
	verr := &Error{}
	if in.Name != nil && *in.Name == "" {
		verr.Add("name", "this field may not be blank")
	}
	if in.Text != nil && *in.Text == "" {
		verr.Add("text", "this field may not be blank")
	}
	if in.Image != nil && *in.Image == "" {
		verr.Add("image", "this field may not be blank")
	}
	if !verr.Empty() {
		return verr
	}
	return v.validateSupplied(ctx, in)
}

func (v *RecipeValidator) validateSupplied(ctx context.Context, in RecipeInput) error {
	verr := &Error{}

	if in.CookingTime != nil {
		if *in.CookingTime < MinCookingTime || *in.CookingTime > MaxCookingTime {
			verr.Add("cooking_time", fmt.Sprintf("cooking time must be between %d and %d minutes", MinCookingTime, MaxCookingTime))
		}
	}

	if in.Tags != nil {
		if err := v.validateTags(ctx, *in.Tags, verr); err != nil {
			return err
		}
	}
	if in.Ingredients != nil {
		if err := v.validateIngredients(ctx, *in.Ingredients, verr); err != nil {
			return err
		}
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

func (v *RecipeValidator) validateIngredients(ctx context.Context, entries []IngredientEntry, verr *Error) error {
	if len(entries) == 0 {
		verr.Add("ingredients", "need at least one ingredient")
		return nil
	}

	seen := make(map[uint]bool, len(entries))
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.ID] {
			verr.Add("ingredients", "ingredients must be unique")
			return nil
		}
		seen[entry.ID] = true
		ids = append(ids, entry.ID)

		if entry.Amount < MinAmount || entry.Amount > MaxIngredientAmount {
			verr.Add("ingredients", fmt.Sprintf("amount must be between %d and %d", MinAmount, MaxIngredientAmount))
			return nil
		}
	}

	missing, err := v.catalog.MissingIngredients(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		verr.Add("ingredients", fmt.Sprintf("ingredient %d does not exist", missing[0]))
	}
	return nil
}

func (v *RecipeValidator) validateTags(ctx context.Context, ids []uint, verr *Error) error {
	if len(ids) == 0 {
		verr.Add("tags", "need at least one tag")
		return nil
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			verr.Add("tags", "tags must be unique")
			return nil
		}
		seen[id] = true
	}

	missing, err := v.catalog.MissingTags(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		verr.Add("tags", fmt.Sprintf("tag %d does not exist", missing[0]))
	}
	return nil
}
