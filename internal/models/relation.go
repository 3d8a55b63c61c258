package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationKind discriminates the user-recipe relation rows. Favorites and
// the shopping cart share one table and one code path.
type RelationKind string

const (
	RelationFavorite RelationKind = "favorite"
	RelationCart     RelationKind = "cart"
)

// UserRecipeRelation marks a recipe as favorited or carted by a user.
// Unique per (kind, user, recipe); the second concurrent insert for the
// same triple fails on the index rather than producing a duplicate.
type UserRecipeRelation struct {
	ID        uint         `gorm:"primarykey" json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	Kind      RelationKind `gorm:"size:16;not null;uniqueIndex:idx_kind_user_recipe" json:"kind"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_kind_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_kind_user_recipe;index" json:"recipe_id"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserRecipeRelation) TableName() string {
	return "user_recipe_relations"
}
